package llm

import (
	"context"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/metrics"
)

const defaultMaxContextTokens = 128000

// openAIClient 任意 OpenAI 兼容端点的客户端（OpenAI/DeepSeek/Ollama 等），
// 基于 Eino 的 OpenAI 适配器。
type openAIClient struct {
	name      string
	cfg       config.ProviderConfig
	chatModel model.BaseChatModel
	tokenizer *Tokenizer
}

// newOpenAIClient 创建 OpenAI 兼容客户端
func newOpenAIClient(ctx context.Context, name string, cfg config.ProviderConfig, tok *Tokenizer) (Client, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   intPtr(cfg.MaxTokens),
		Temperature: float32Ptr(float32(cfg.Temperature)),
		Timeout:     cfg.Timeout,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigError, "failed to create chat model for "+name)
	}

	return &openAIClient{
		name:      name,
		cfg:       cfg,
		chatModel: chatModel,
		tokenizer: tok,
	}, nil
}

func (c *openAIClient) ProviderName() string {
	return c.name
}

func (c *openAIClient) MaxContextTokens() int {
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

func (c *openAIClient) AvailableModels() []ModelInfo {
	return modelsFromConfig(c.cfg)
}

func (c *openAIClient) CountTokens(text string) int {
	return c.tokenizer.Count(text)
}

// Generate 调用 OpenAI 兼容端点生成文本
func (c *openAIClient) Generate(ctx context.Context, req *Request) (*Response, error) {
	resolvedModel := req.Model
	if resolvedModel == "" {
		resolvedModel = c.cfg.Model
	}

	return withRateLimitRetry(ctx, c.name, c.cfg.RetryMaxAttempts, func() (*Response, error) {
		start := time.Now()
		outMsg, err := c.chatModel.Generate(ctx, buildMessages(req), buildModelOptions(req)...)
		metrics.LLMCallDuration.WithLabelValues(c.name, resolvedModel).Observe(time.Since(start).Seconds())

		if err != nil {
			metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "error").Inc()
			return nil, translateError(c.name, err)
		}
		if outMsg == nil || outMsg.Content == "" {
			metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "error").Inc()
			return nil, apperrors.New(apperrors.CodeLLMCallFailed, c.name+" returned empty response")
		}
		metrics.LLMCallTotal.WithLabelValues(c.name, resolvedModel, "success").Inc()

		usage := map[string]int{}
		if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
			usage["input_tokens"] = outMsg.ResponseMeta.Usage.PromptTokens
			usage["output_tokens"] = outMsg.ResponseMeta.Usage.CompletionTokens
			metrics.LLMTokensUsed.WithLabelValues(c.name, resolvedModel, "prompt").
				Add(float64(outMsg.ResponseMeta.Usage.PromptTokens))
			metrics.LLMTokensUsed.WithLabelValues(c.name, resolvedModel, "completion").
				Add(float64(outMsg.ResponseMeta.Usage.CompletionTokens))
		}

		return &Response{
			Content: outMsg.Content,
			Model:   resolvedModel,
			Usage:   usage,
		}, nil
	})
}

// buildMessages 组装 Eino 消息序列：system -> 历史轮次 -> user
func buildMessages(req *Request) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(req.History)+2)
	if req.SystemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(req.SystemPrompt))
	}
	for _, turn := range req.History {
		switch turn.Role {
		case RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(turn.Content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(turn.Content))
		}
	}
	msgs = append(msgs, schema.UserMessage(req.UserPrompt))
	return msgs
}

// buildModelOptions 组装单次调用的模型参数覆盖
func buildModelOptions(req *Request) []model.Option {
	opts := make([]model.Option, 0, 3)
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	return opts
}

func modelsFromConfig(cfg config.ProviderConfig) []ModelInfo {
	models := make([]ModelInfo, 0, len(cfg.Models))
	for _, m := range cfg.Models {
		models = append(models, ModelInfo{
			ID:               m.ID,
			Name:             m.Name,
			MaxContextTokens: m.MaxContextTokens,
		})
	}
	return models
}

func intPtr(i int) *int {
	return &i
}

func float32Ptr(f float32) *float32 {
	return &f
}
