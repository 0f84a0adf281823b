package handler

import (
	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/application/pipeline"
	"blog-writer-api/internal/interfaces/http/dto"
)

// WriteHandler 写作接口处理器
type WriteHandler struct {
	pipeline *pipeline.Pipeline
}

// NewWriteHandler 创建写作处理器
func NewWriteHandler(p *pipeline.Pipeline) *WriteHandler {
	return &WriteHandler{pipeline: p}
}

// Generate 执行写作流水线
// @Summary 生成文章
// @Description 按 direct/feedback/auto 模式执行写作流水线
// @Tags Posts
// @Accept json
// @Produce json
// @Router /api/v1/posts/generate [post]
func (h *WriteHandler) Generate(c *gin.Context) {
	var req dto.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.pipeline.Execute(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.FromWriteResult(result))
}

// Feedback 对初稿生成编辑反馈
// @Summary 初稿反馈
// @Tags Posts
// @Accept json
// @Produce json
// @Router /api/v1/posts/feedback [post]
func (h *WriteHandler) Feedback(c *gin.Context) {
	var req dto.WriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	result, err := h.pipeline.GetFeedback(c.Request.Context(), req.ToEntity())
	if err != nil {
		respondError(c, err)
		return
	}

	dto.Success(c, dto.FromWriteResult(result))
}
