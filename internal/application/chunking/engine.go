// Package chunking 提供长文档的分块与 Map-Reduce 处理
package chunking

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"blog-writer-api/internal/config"
	"blog-writer-api/internal/llm"
	"blog-writer-api/pkg/logger"
	"blog-writer-api/pkg/metrics"
)

// 语义边界模式，按优先级排列：Markdown 标题 > 空行 > 换行
var splitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\n#{1,3}\s`),
	regexp.MustCompile(`\n\n`),
	regexp.MustCompile(`\n`),
}

// chunkJoinSeparator Map 阶段结果的拼接分隔符
const chunkJoinSeparator = "\n\n---\n\n"

// Engine 长文档分块引擎。
//
// 当文档超出模型上下文窗口的阈值比例时，把文档按语义边界切成
// 不超过 chunk_size_tokens 的块，Map 阶段并发压缩每个块，
// Reduce 阶段基于拼接后的压缩结果做最终生成。
type Engine struct {
	client llm.Client
	cfg    config.ChunkingConfig
}

// NewEngine 创建分块引擎
func NewEngine(client llm.Client, cfg config.ChunkingConfig) *Engine {
	if cfg.ChunkSizeTokens <= 0 {
		cfg.ChunkSizeTokens = 4000
	}
	if cfg.ContextThreshold <= 0 || cfg.ContextThreshold >= 1 {
		cfg.ContextThreshold = 0.7
	}
	return &Engine{client: client, cfg: cfg}
}

// NeedsChunking 判断内容是否需要分块处理。
// token 数严格大于 上下文窗口 * threshold 时返回 true。
func (e *Engine) NeedsChunking(content string) bool {
	tokenCount := e.client.CountTokens(content)
	threshold := int(float64(e.client.MaxContextTokens()) * e.cfg.ContextThreshold)
	return tokenCount > threshold
}

// SplitChunks 把内容切成不超过 chunk_size_tokens 的块。
// 优先在语义边界（标题、段落、换行）处分割，块首尾的空白会被修剪，
// 空块被丢弃。
func (e *Engine) SplitChunks(content string) []string {
	target := e.cfg.ChunkSizeTokens
	if e.client.CountTokens(content) <= target {
		return []string{content}
	}

	var chunks []string
	remaining := content

	for remaining != "" {
		if e.client.CountTokens(remaining) <= target {
			chunks = append(chunks, remaining)
			break
		}

		splitPos := e.findSplitPosition(remaining, target)
		chunks = append(chunks, strings.TrimRightFunc(remaining[:splitPos], unicode.IsSpace))
		remaining = strings.TrimLeftFunc(remaining[splitPos:], unicode.IsSpace)
	}

	out := chunks[:0]
	for _, c := range chunks {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

// findSplitPosition 在 target 附近找最优分割位置（字节偏移）。
//
// 先用二分查找定位 token 预算对应的字符上限，再依次尝试各级
// 语义边界；边界必须至少用掉上限的 10%，否则退化到空格边界，
// 最后在上限处硬切。
func (e *Engine) findSplitPosition(text string, targetTokens int) int {
	// 直接在字节偏移上二分，探测点对齐到字符边界；
	// lo 始终是前缀不超预算的最大已知边界
	lo, hi := 0, len(text)
	for lo < hi {
		mid := (lo + hi + 1) / 2
		probe := mid
		for probe < len(text) && !utf8.RuneStart(text[probe]) {
			probe++
		}
		if e.client.CountTokens(text[:probe]) <= targetTokens {
			lo = probe
		} else {
			back := mid - 1
			for back > 0 && !utf8.RuneStart(text[back]) {
				back--
			}
			hi = back
		}
	}
	charLimit := lo

	minPos := float64(charLimit) * 0.1

	for _, pattern := range splitPatterns {
		bestPos := -1
		for _, m := range pattern.FindAllStringIndex(text, -1) {
			if m[0] > charLimit {
				break
			}
			if m[0] > 0 {
				bestPos = m[0]
			}
		}
		if float64(bestPos) > minPos {
			return bestPos
		}
	}

	if spacePos := strings.LastIndex(text[:charLimit], " "); float64(spacePos) > minPos {
		return spacePos
	}

	if charLimit < 1 {
		_, size := utf8.DecodeRuneInString(text)
		return size
	}
	return charLimit
}

// MapReduce 对长内容执行 Map-Reduce 流程。
//
// Map 阶段对所有块并发调用 map 模型，结果按块的原始顺序拼接；
// 任一块失败则整体失败。Reduce 阶段用 reduce 模型基于拼接结果
// 生成最终内容，返回值即 reduce 调用的结果，Map 阶段的用量不上报。
func (e *Engine) MapReduce(ctx context.Context, content, mapPrompt, reducePrompt string) (*llm.Response, error) {
	chunks := e.SplitChunks(content)
	metrics.MapReduceChunks.Observe(float64(len(chunks)))
	logger.Info(ctx, "map-reduce started",
		"chunks", len(chunks),
		"map_model", e.cfg.MapModel,
		"reduce_model", e.cfg.ReduceModel,
	)

	summaries := make([]*llm.Response, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			resp, err := e.client.Generate(ctx, &llm.Request{
				SystemPrompt: mapPrompt,
				UserPrompt:   chunk,
				Model:        e.cfg.MapModel,
			})
			if err != nil {
				return err
			}
			summaries[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	parts := make([]string, len(summaries))
	for i, s := range summaries {
		parts[i] = s.Content
	}

	return e.client.Generate(ctx, &llm.Request{
		SystemPrompt: reducePrompt,
		UserPrompt:   strings.Join(parts, chunkJoinSeparator),
		Model:        e.cfg.ReduceModel,
	})
}
