package handler

import (
	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/infrastructure/reference"
	"blog-writer-api/internal/interfaces/http/dto"
)

// ReferenceHandler 风格参考管理处理器
type ReferenceHandler struct {
	manager *reference.Manager
}

// NewReferenceHandler 创建风格参考处理器
func NewReferenceHandler(manager *reference.Manager) *ReferenceHandler {
	return &ReferenceHandler{manager: manager}
}

// List 列出全部风格参考
func (h *ReferenceHandler) List(c *gin.Context) {
	refs, err := h.manager.List()
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromReferences(refs))
}

// AddFile 添加文件型风格参考
func (h *ReferenceHandler) AddFile(c *gin.Context) {
	var req dto.ReferenceFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ref, err := h.manager.AddFile(c.Request.Context(), req.Name, req.FilePath)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.FromReference(ref))
}

// AddURL 添加 URL 型风格参考
func (h *ReferenceHandler) AddURL(c *gin.Context) {
	var req dto.ReferenceURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	ref, err := h.manager.AddURL(c.Request.Context(), req.Name, req.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Created(c, dto.FromReference(ref))
}

// Delete 删除风格参考
func (h *ReferenceHandler) Delete(c *gin.Context) {
	if err := h.manager.Remove(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	dto.NoContent(c)
}
