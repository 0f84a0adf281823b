package dto

import (
	"blog-writer-api/internal/llm"
)

// ModelResponse 模型描述
type ModelResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MaxContextTokens int    `json:"max_context_tokens,omitempty"`
}

// ProviderResponse 提供商描述
type ProviderResponse struct {
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	DefaultModel string          `json:"default_model"`
	IsDefault    bool            `json:"is_default"`
	Models       []ModelResponse `json:"models,omitempty"`
}

// FromProviders 把提供商列表转换为响应
func FromProviders(infos []llm.ProviderInfo) []*ProviderResponse {
	out := make([]*ProviderResponse, 0, len(infos))
	for _, info := range infos {
		models := make([]ModelResponse, 0, len(info.Models))
		for _, m := range info.Models {
			models = append(models, ModelResponse{
				ID:               m.ID,
				Name:             m.Name,
				MaxContextTokens: m.MaxContextTokens,
			})
		}
		out = append(out, &ProviderResponse{
			Name:         info.Name,
			Kind:         info.Kind,
			DefaultModel: info.DefaultModel,
			IsDefault:    info.IsDefault,
			Models:       models,
		})
	}
	return out
}
