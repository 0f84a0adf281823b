package llm

import (
	"context"
	"sort"
	"sync"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
	"blog-writer-api/pkg/logger"
)

// Factory LLM 客户端工厂。
//
// 按提供商名称懒加载创建客户端并缓存，创建失败不缓存，
// 下次获取时重试。所有方法并发安全。
type Factory struct {
	mu        sync.RWMutex
	cfg       config.LLMConfig
	tokenizer *Tokenizer
	clients   map[string]Client
}

// NewFactory 创建工厂
func NewFactory(cfg config.LLMConfig, tok *Tokenizer) *Factory {
	return &Factory{
		cfg:       cfg,
		tokenizer: tok,
		clients:   make(map[string]Client),
	}
}

// Get 获取指定提供商的客户端，name 为空时使用默认提供商
func (f *Factory) Get(ctx context.Context, name string) (Client, error) {
	if name == "" {
		name = f.cfg.DefaultProvider
	}

	f.mu.RLock()
	client, ok := f.clients[name]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// 双重检查，避免并发下重复创建
	if client, ok := f.clients[name]; ok {
		return client, nil
	}

	providerCfg, ok := f.cfg.Providers[name]
	if !ok {
		return nil, apperrors.New(apperrors.CodeProviderNotFound, "unknown llm provider: "+name)
	}

	client, err := f.build(ctx, name, providerCfg)
	if err != nil {
		return nil, err
	}

	f.clients[name] = client
	logger.Info(ctx, "llm client created",
		"provider", name,
		"kind", providerCfg.Kind,
		"model", providerCfg.Model,
	)
	return client, nil
}

// build 根据提供商类型构造客户端
func (f *Factory) build(ctx context.Context, name string, cfg config.ProviderConfig) (Client, error) {
	switch cfg.Kind {
	case "gemini":
		return newGeminiClient(ctx, name, cfg, f.tokenizer)
	case "openai", "":
		return newOpenAIClient(ctx, name, cfg, f.tokenizer)
	default:
		return nil, apperrors.New(apperrors.CodeConfigError, "unsupported provider kind: "+cfg.Kind)
	}
}

// DefaultProvider 返回默认提供商名称
func (f *Factory) DefaultProvider() string {
	return f.cfg.DefaultProvider
}

// ProviderInfo 提供商描述（对外列表用）
type ProviderInfo struct {
	Name         string      `json:"name"`
	Kind         string      `json:"kind"`
	DefaultModel string      `json:"default_model"`
	IsDefault    bool        `json:"is_default"`
	Models       []ModelInfo `json:"models"`
}

// ListProviders 列出所有已配置的提供商，按名称排序
func (f *Factory) ListProviders() []ProviderInfo {
	infos := make([]ProviderInfo, 0, len(f.cfg.Providers))
	for name, p := range f.cfg.Providers {
		kind := p.Kind
		if kind == "" {
			kind = "openai"
		}
		infos = append(infos, ProviderInfo{
			Name:         name,
			Kind:         kind,
			DefaultModel: p.Model,
			IsDefault:    name == f.cfg.DefaultProvider,
			Models:       modelsFromConfig(p),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
