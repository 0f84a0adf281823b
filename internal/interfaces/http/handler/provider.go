package handler

import (
	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/interfaces/http/dto"
	"blog-writer-api/internal/llm"
)

// ProviderHandler LLM 提供商查询处理器
type ProviderHandler struct {
	factory *llm.Factory
}

// NewProviderHandler 创建提供商处理器
func NewProviderHandler(factory *llm.Factory) *ProviderHandler {
	return &ProviderHandler{factory: factory}
}

// List 列出已配置的提供商及其模型
func (h *ProviderHandler) List(c *gin.Context) {
	dto.Success(c, dto.FromProviders(h.factory.ListProviders()))
}
