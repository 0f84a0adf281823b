// Package sources 提供本地文档、网页与 arXiv 论文的素材读取实现
package sources

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"blog-writer-api/internal/application/aggregator"
	"blog-writer-api/internal/domain/entity"
	apperrors "blog-writer-api/pkg/errors"
)

// DocumentParser 本地文档解析器。
//
// PDF 走文本抽取，.md/.txt 直接读取。页码范围仅对 PDF 有意义，
// 1-based 闭区间，越界或倒序直接报错而不是静默截断。
type DocumentParser struct{}

// NewDocumentParser 创建文档解析器
func NewDocumentParser() *DocumentParser {
	return &DocumentParser{}
}

// Read 读取文档内容
func (p *DocumentParser) Read(ctx context.Context, path string, pages *entity.PageRange) (*aggregator.SourceContent, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.New(apperrors.CodeSourceFailed, "document not found: "+path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err := p.readPDF(path, pages)
		if err != nil {
			return nil, err
		}
		return &aggregator.SourceContent{Text: text}, nil
	case ".md", ".txt":
		if pages != nil {
			return nil, apperrors.New(apperrors.CodeSourceFailed,
				"page range is only supported for pdf documents: "+path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to read document: "+path)
		}
		return &aggregator.SourceContent{Text: string(data)}, nil
	default:
		return nil, apperrors.New(apperrors.CodeSourceUnsupported,
			"unsupported document format: "+filepath.Ext(path))
	}
}

// ReadText 读取文档全文（供风格参考等不需要页码范围的调用方使用）
func (p *DocumentParser) ReadText(ctx context.Context, path string) (string, error) {
	content, err := p.Read(ctx, path, nil)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// readPDF 抽取 PDF 文本，页与页之间以空行分隔
func (p *DocumentParser) readPDF(path string, pages *entity.PageRange) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.CodeSourceFailed, "failed to open pdf: "+path)
	}
	defer f.Close()

	total := reader.NumPage()
	start, end, err := resolvePageRange(pages, total)
	if err != nil {
		return "", err
	}

	var parts []string
	for i := start; i <= end; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// 单页解析失败跳过，不让一页坏数据拖垮整个文档
			continue
		}
		parts = append(parts, text)
	}

	return strings.Join(parts, "\n\n"), nil
}

// resolvePageRange 校验 1-based 闭区间页码范围
func resolvePageRange(pages *entity.PageRange, total int) (int, int, error) {
	if pages == nil {
		return 1, total, nil
	}
	if pages.Start < 1 {
		return 0, 0, apperrors.Newf(apperrors.CodeSourceFailed,
			"page number must be >= 1, got %d", pages.Start)
	}
	if pages.Start > pages.End {
		return 0, 0, apperrors.Newf(apperrors.CodeSourceFailed,
			"start page %d is after end page %d", pages.Start, pages.End)
	}
	if pages.End > total {
		return 0, 0, apperrors.Newf(apperrors.CodeSourceFailed,
			"page range exceeds document: %d > %d pages", pages.End, total)
	}
	return pages.Start, pages.End, nil
}
