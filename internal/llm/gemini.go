package llm

import (
	"context"
	"time"

	"google.golang.org/genai"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/metrics"
)

// geminiClient Google Gemini API 客户端
type geminiClient struct {
	name      string
	cfg       config.ProviderConfig
	client    *genai.Client
	tokenizer *Tokenizer
}

// newGeminiClient 创建 Gemini 客户端
func newGeminiClient(ctx context.Context, name string, cfg config.ProviderConfig, tok *Tokenizer) (Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigError, "failed to create gemini client for "+name)
	}

	return &geminiClient{
		name:      name,
		cfg:       cfg,
		client:    client,
		tokenizer: tok,
	}, nil
}

func (c *geminiClient) ProviderName() string {
	return c.name
}

func (c *geminiClient) MaxContextTokens() int {
	if c.cfg.MaxContextTokens > 0 {
		return c.cfg.MaxContextTokens
	}
	for _, m := range c.cfg.Models {
		if m.ID == c.cfg.Model && m.MaxContextTokens > 0 {
			return m.MaxContextTokens
		}
	}
	return defaultMaxContextTokens
}

func (c *geminiClient) AvailableModels() []ModelInfo {
	return modelsFromConfig(c.cfg)
}

// CountTokens 用 cl100k_base 做近似计数。Gemini 的精确计数需要远程
// CountTokens 调用，分块引擎要求本地计数，量级一致即可。
func (c *geminiClient) CountTokens(text string) int {
	return c.tokenizer.Count(text)
}

// Generate 调用 Gemini API 生成文本
func (c *geminiClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	resolvedModel := req.Model
	if resolvedModel == "" {
		resolvedModel = c.cfg.Model
	}

	genCfg := &genai.GenerateContentConfig{}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(req.Temperature))
	} else if c.cfg.Temperature > 0 {
		genCfg.Temperature = genai.Ptr(float32(c.cfg.Temperature))
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	} else if c.cfg.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(c.cfg.MaxTokens)
	}

	contents := buildGeminiContents(req)

	return withRateLimitRetry(ctx, c.name, c.cfg.RetryMaxAttempts, func() (*Response, error) {
		callCtx := ctx
		if c.cfg.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
			defer cancel()
		}

		start := time.Now()
		result, err := c.client.Models.GenerateContent(callCtx, resolvedModel, contents, genCfg)
		metrics.LLMCallDuration.WithLabelValues(c.name, resolvedModel).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "error").Inc()
			return nil, translateError(c.name, err)
		}
		text := result.Text()
		if text == "" {
			metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "error").Inc()
			return nil, apperrors.New(apperrors.CodeLLMCallFailed, c.name+" returned empty response")
		}
		metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "success").Inc()

		usage := map[string]int{}
		if result.UsageMetadata != nil {
			usage["input_tokens"] = int(result.UsageMetadata.PromptTokenCount)
			usage["output_tokens"] = int(result.UsageMetadata.CandidatesTokenCount)
			metrics.LLMTokensUsed.WithLabelValues(c.name, resolvedModel, "prompt").
				Add(float64(result.UsageMetadata.PromptTokenCount))
			metrics.LLMTokensUsed.WithLabelValues(c.name, resolvedModel, "completion").
				Add(float64(result.UsageMetadata.CandidatesTokenCount))
		}

		return &Response{
			Content: text,
			Model:   resolvedModel,
			Usage:   usage,
		}, nil
	})
}

// buildGeminiContents 组装 Gemini 对话内容：历史轮次 -> 当前 user
func buildGeminiContents(req *Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		var role genai.Role = genai.RoleUser
		if turn.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(req.UserPrompt, genai.RoleUser))
	return contents
}
