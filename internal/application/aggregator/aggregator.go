// Package aggregator 提供多来源素材的并发抓取与聚合
package aggregator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"blog-writer-api/internal/domain/entity"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/logger"
	"blog-writer-api/pkg/metrics"
)

// token 粗估：英文约 4 字符/token，中日韩约 2 字符/token，取保守值 3
const charsPerToken = 3

// SourceContent 单个来源的抓取结果
type SourceContent struct {
	Text      string
	Images    []entity.ImageInfo
	ImageData map[string][]byte
}

// DocumentReader 本地文档读取器
type DocumentReader interface {
	Read(ctx context.Context, path string, pages *entity.PageRange) (*SourceContent, error)
}

// WebPageReader 网页正文抓取器
type WebPageReader interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// PaperReader 论文元数据读取器
type PaperReader interface {
	FetchByID(ctx context.Context, id string) (*entity.Paper, error)
}

// Aggregator 并发处理多个素材来源并合并为单份上下文。
//
// 所有来源并发抓取，互不取消：单个来源失败只记入 Dropped，
// 全部失败才返回错误。合并文本中每个来源以带序号的标签分隔，
// 便于下游 LLM 区分出处。
type Aggregator struct {
	documents DocumentReader
	webPages  WebPageReader
	papers    PaperReader
}

// New 创建聚合器
func New(documents DocumentReader, webPages WebPageReader, papers PaperReader) *Aggregator {
	return &Aggregator{
		documents: documents,
		webPages:  webPages,
		papers:    papers,
	}
}

// Aggregate 聚合所有来源。
//
// 来源在结果中的顺序与输入顺序一致，与各自的完成顺序无关。
// 图片按来源顺序合并，文件名冲突时后者覆盖前者。
func (a *Aggregator) Aggregate(ctx context.Context, sources []entity.SourceInput) (*entity.AggregatedContent, error) {
	if len(sources) == 0 {
		return nil, apperrors.New(apperrors.CodeSourceFailed, "at least one source is required")
	}

	contents := make([]*SourceContent, len(sources))
	fetchErrs := make([]error, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			contents[i], fetchErrs[i] = a.processSource(ctx, src)
			if fetchErrs[i] == nil {
				logger.Debug(ctx, "source fetched",
					"kind", string(src.Kind),
					"location", src.Location,
					"chars", len(contents[i].Text),
				)
			}
		}()
	}
	wg.Wait()

	var textParts []string
	var allImages []entity.ImageInfo
	allImageData := map[string][]byte{}
	var dropped []entity.DroppedSource
	var failures []string

	for i, content := range contents {
		if fetchErrs[i] != nil {
			dropped = append(dropped, entity.DroppedSource{
				Location: sources[i].Location,
				Reason:   fetchErrs[i].Error(),
			})
			failures = append(failures, fmt.Sprintf("source %d (%s): %v", i+1, sources[i].Location, fetchErrs[i]))
			logger.Warn(ctx, "source dropped",
				"location", sources[i].Location,
				"reason", fetchErrs[i].Error(),
			)
			continue
		}

		label := sources[i].DisplayLabel(i + 1)
		textParts = append(textParts, fmt.Sprintf("=== %s ===\n%s", label, content.Text))
		allImages = append(allImages, content.Images...)
		for name, data := range content.ImageData {
			allImageData[name] = data
		}
	}

	if len(failures) > 0 && len(textParts) == 0 {
		return nil, apperrors.New(apperrors.CodeAllSourcesFailed,
			"all sources failed:\n"+strings.Join(failures, "\n"))
	}

	combined := strings.Join(textParts, "\n\n")
	estimate := len(combined) / charsPerToken
	metrics.AggregatedSourceTokens.Observe(float64(estimate))

	return &entity.AggregatedContent{
		CombinedText:        combined,
		Sources:             sources,
		Images:              allImages,
		ImageData:           allImageData,
		TotalTokensEstimate: estimate,
		Dropped:             dropped,
	}, nil
}

// processSource 按来源类型分发处理
func (a *Aggregator) processSource(ctx context.Context, src entity.SourceInput) (*SourceContent, error) {
	start := time.Now()
	content, err := a.dispatch(ctx, src)
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SourceFetchTotal.WithLabelValues(string(src.Kind), status).Inc()
	metrics.SourceFetchDuration.WithLabelValues(string(src.Kind)).Observe(time.Since(start).Seconds())
	return content, err
}

func (a *Aggregator) dispatch(ctx context.Context, src entity.SourceInput) (*SourceContent, error) {
	switch src.Kind {
	case entity.SourceKindDocument:
		return a.documents.Read(ctx, src.Location, src.PageRange)
	case entity.SourceKindWebPage:
		text, err := a.webPages.Fetch(ctx, src.Location)
		if err != nil {
			return nil, err
		}
		return &SourceContent{Text: text}, nil
	case entity.SourceKindPaper:
		paper, err := a.papers.FetchByID(ctx, src.Location)
		if err != nil {
			return nil, err
		}
		return &SourceContent{Text: formatPaper(paper)}, nil
	default:
		return nil, apperrors.New(apperrors.CodeSourceUnsupported,
			"unsupported source kind: "+string(src.Kind))
	}
}

// formatPaper 把论文元数据渲染为固定格式的文本块
func formatPaper(paper *entity.Paper) string {
	parts := []string{
		"Title: " + paper.Title,
		"Authors: " + strings.Join(paper.Authors, ", "),
		"Published: " + paper.Published,
		"Categories: " + strings.Join(paper.Categories, ", "),
		"",
		paper.Abstract,
	}
	return strings.Join(parts, "\n")
}
