package handler

import (
	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/infrastructure/template"
	"blog-writer-api/internal/interfaces/http/dto"
)

// TemplateHandler 模板管理处理器
type TemplateHandler struct {
	manager *template.Manager
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(manager *template.Manager) *TemplateHandler {
	return &TemplateHandler{manager: manager}
}

// List 列出全部模板
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.manager.List()
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromTemplates(templates))
}

// Get 获取单个模板
func (h *TemplateHandler) Get(c *gin.Context) {
	tpl, err := h.manager.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromTemplate(tpl))
}

// Create 创建模板
func (h *TemplateHandler) Create(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl, err := h.manager.Create(req.ToTemplate())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.FromTemplate(tpl))
}

// Update 更新模板
func (h *TemplateHandler) Update(c *gin.Context) {
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tpl, err := h.manager.Update(c.Param("id"), req.ToTemplate())
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromTemplate(tpl))
}

// Delete 删除模板
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.manager.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
