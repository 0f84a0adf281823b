// Package pipeline 提供写作流水线编排：素材聚合、模板渲染、LLM 调用与后处理
package pipeline

import (
	"context"
	"strings"
	"time"

	"blog-writer-api/internal/application/aggregator"
	"blog-writer-api/internal/application/chunking"
	"blog-writer-api/internal/config"
	"blog-writer-api/internal/domain/entity"
	"blog-writer-api/internal/llm"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/logger"
	"blog-writer-api/pkg/metrics"
)

// Prompts 流水线使用的提示词集合，零值字段回落到内置默认值
type Prompts struct {
	AutoSystem     string
	FeedbackSystem string
	Map            string
	Reduce         string
}

const (
	defaultAutoSystem = "You are a professional technical blog writer. " +
		"Write a technical blog post on the given topic. " +
		"Keep mathematical and technical terms in their original form. " +
		"Write in Markdown without front matter. " +
		"Use $...$ for inline math and $$...$$ for block math."

	defaultFeedbackSystem = "You are an editor helping with technical blog writing. " +
		"Read the user's draft and provide feedback on structure, logic, " +
		"clarity, and technical accuracy. Keep mathematical and technical " +
		"terms in their original form."

	defaultMapPrompt = "Summarize the key points of the following text chunk. " +
		"Preserve important technical details and formulas."

	defaultReducePrompt = "Synthesize the following summaries into a single " +
		"technical blog post. Write in Markdown without front matter. " +
		"Keep mathematical and technical terms in their original form."
)

func (p Prompts) withDefaults() Prompts {
	if p.AutoSystem == "" {
		p.AutoSystem = defaultAutoSystem
	}
	if p.FeedbackSystem == "" {
		p.FeedbackSystem = defaultFeedbackSystem
	}
	if p.Map == "" {
		p.Map = defaultMapPrompt
	}
	if p.Reduce == "" {
		p.Reduce = defaultReducePrompt
	}
	return p
}

// TemplateManager 模板渲染依赖
type TemplateManager interface {
	Render(id string, values map[string]string) (systemPrompt, userPrompt string, err error)
	GetSystemPrompt(id string) (string, error)
}

// ReferenceManager 风格参考依赖
type ReferenceManager interface {
	GetContent(ctx context.Context, id string) (string, error)
}

// ClientProvider 按名称解析 LLM 客户端
type ClientProvider interface {
	Get(ctx context.Context, name string) (llm.Client, error)
}

// Pipeline 写作流水线。
//
// direct 模式原样返回用户内容，不触发任何 LLM 调用；
// feedback 模式对初稿生成编辑反馈；auto 模式聚合素材后全自动生成。
// 超过上下文阈值的输入自动切换到 Map-Reduce。
type Pipeline struct {
	factory     ClientProvider
	aggregator  *aggregator.Aggregator
	chunkingCfg config.ChunkingConfig
	templates   TemplateManager
	references  ReferenceManager
	prompts     Prompts
}

// New 创建流水线。templates 与 references 可为 nil，对应能力降级关闭。
func New(
	factory ClientProvider,
	agg *aggregator.Aggregator,
	chunkingCfg config.ChunkingConfig,
	templates TemplateManager,
	references ReferenceManager,
	prompts Prompts,
) *Pipeline {
	return &Pipeline{
		factory:     factory,
		aggregator:  agg,
		chunkingCfg: chunkingCfg,
		templates:   templates,
		references:  references,
		prompts:     prompts.withDefaults(),
	}
}

// Execute 执行写作流水线
func (p *Pipeline) Execute(ctx context.Context, req *entity.WriteRequest) (*entity.WriteResult, error) {
	if !req.Mode.Valid() {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "invalid write mode: "+string(req.Mode))
	}

	start := time.Now()
	result, err := p.execute(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.PipelineExecutionsTotal.WithLabelValues(string(req.Mode), status).Inc()
	metrics.PipelineExecutionDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())
	return result, err
}

func (p *Pipeline) execute(ctx context.Context, req *entity.WriteRequest) (*entity.WriteResult, error) {
	switch req.Mode {
	case entity.WriteModeDirect:
		return p.buildDirectResult(req), nil
	case entity.WriteModeFeedback:
		return p.GetFeedback(ctx, req)
	}

	client, err := p.factory.Get(ctx, req.Provider)
	if err != nil {
		return nil, err
	}

	var sourceText string
	var images []entity.ImageInfo
	var imageData map[string][]byte
	var dropped []entity.DroppedSource

	if len(req.Sources) > 0 {
		aggregated, err := p.aggregator.Aggregate(ctx, req.Sources)
		if err != nil {
			return nil, err
		}
		sourceText = aggregated.CombinedText
		images = aggregated.Images
		imageData = aggregated.ImageData
		dropped = aggregated.Dropped
	}

	systemPrompt, userPrompt, err := p.resolvePrompts(ctx, req, sourceText)
	if err != nil {
		return nil, err
	}

	resp, err := p.generate(ctx, client, systemPrompt, userPrompt, req.Model)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "pipeline execution completed",
		"mode", string(req.Mode),
		"model", resp.Model,
		"dropped_sources", len(dropped),
	)

	return &entity.WriteResult{
		Content:        resp.Content,
		Metadata:       p.buildMetadata(req, resp.Model),
		Images:         images,
		ImageData:      imageData,
		Usage:          resp.Usage,
		DroppedSources: dropped,
	}, nil
}

// GetFeedback 对初稿生成编辑反馈
func (p *Pipeline) GetFeedback(ctx context.Context, req *entity.WriteRequest) (*entity.WriteResult, error) {
	if req.Content == "" {
		return nil, apperrors.New(apperrors.CodeInvalidParam, "feedback requires draft content")
	}
	if req.Mode != entity.WriteModeFeedback {
		// 直接调用反馈入口时归一化模式，元数据标记跟随实际执行的操作
		clone := *req
		clone.Mode = entity.WriteModeFeedback
		req = &clone
	}

	client, err := p.factory.Get(ctx, req.Provider)
	if err != nil {
		return nil, err
	}

	systemPrompt := p.prompts.FeedbackSystem
	if req.TemplateID != "" && p.templates != nil {
		tplSystem, err := p.templates.GetSystemPrompt(req.TemplateID)
		if err != nil {
			return nil, err
		}
		systemPrompt += "\n\n## Desired writing style\n\n" + tplSystem
	}

	resp, err := client.Generate(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   "Please provide feedback on the following draft:\n\n" + req.Content,
		Model:        req.Model,
	})
	if err != nil {
		return nil, err
	}

	return &entity.WriteResult{
		Content:  resp.Content,
		Metadata: p.buildMetadata(req, resp.Model),
		Usage:    resp.Usage,
	}, nil
}

// buildDirectResult direct 模式：原样返回用户内容
func (p *Pipeline) buildDirectResult(req *entity.WriteRequest) *entity.WriteResult {
	return &entity.WriteResult{
		Content:  req.Content,
		Metadata: p.buildMetadata(req, ""),
	}
}

// resolvePrompts 解析模板得到 (system, user) 提示词；无模板时用默认组装
func (p *Pipeline) resolvePrompts(ctx context.Context, req *entity.WriteRequest, sourceText string) (string, string, error) {
	if req.TemplateID == "" || p.templates == nil {
		return p.prompts.AutoSystem, p.buildUserPrompt(req, sourceText), nil
	}

	styleReference := ""
	if req.ReferenceID != "" && p.references != nil {
		content, err := p.references.GetContent(ctx, req.ReferenceID)
		if err != nil {
			return "", "", err
		}
		styleReference = content
	}

	// 素材由模板的 {sources} 占位符单独放置，content 里不再重复
	return p.templates.Render(req.TemplateID, map[string]string{
		"content":         p.buildUserPrompt(req, ""),
		"sources":         sourceText,
		"style_reference": styleReference,
	})
}

// buildUserPrompt 组装默认 user 提示词，各部分以 "---" 分隔
func (p *Pipeline) buildUserPrompt(req *entity.WriteRequest, sourceText string) string {
	var parts []string

	if sourceText != "" {
		parts = append(parts, "Use the following source material when writing:\n\n"+sourceText)
	}
	if req.Content != "" {
		parts = append(parts, "Draft:\n\n"+req.Content)
	}
	if req.Prompt != "" {
		parts = append(parts, "Instructions: "+req.Prompt)
	} else if req.Title != "" {
		parts = append(parts, "Topic: "+req.Title)
	}

	if len(parts) == 0 {
		return req.Title
	}
	return strings.Join(parts, "\n\n---\n\n")
}

// generate 根据输入长度选择直接调用或 Map-Reduce
func (p *Pipeline) generate(ctx context.Context, client llm.Client, systemPrompt, userPrompt, model string) (*llm.Response, error) {
	engine := chunking.NewEngine(client, p.chunkingCfg)
	if engine.NeedsChunking(userPrompt) {
		return engine.MapReduce(ctx, userPrompt, p.prompts.Map, p.prompts.Reduce)
	}

	return client.Generate(ctx, &llm.Request{
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Model:        model,
	})
}

// buildMetadata 从请求构造文章元数据
func (p *Pipeline) buildMetadata(req *entity.WriteRequest, resolvedModel string) entity.PostMetadata {
	var categories []string
	if req.CategoryPath != "" {
		categories = []string{req.CategoryPath}
	}

	assisted := req.Mode == entity.WriteModeFeedback
	generated := req.Mode == entity.WriteModeAuto

	model := resolvedModel
	if model == "" {
		model = req.Model
	}
	if req.Mode == entity.WriteModeDirect {
		model = ""
	}

	return entity.PostMetadata{
		Title:           req.Title,
		Categories:      categories,
		Tags:            req.Tags,
		LLMAssisted:     assisted,
		LLMGenerated:    generated,
		LLMModel:        model,
		NeedsDisclaimer: assisted || generated,
	}
}
