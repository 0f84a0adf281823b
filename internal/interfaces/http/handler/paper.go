package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/domain/entity"
	"blog-writer-api/internal/infrastructure/sources"
	"blog-writer-api/internal/interfaces/http/dto"
)

// PaperHandler arXiv 论文查询处理器
type PaperHandler struct {
	arxiv *sources.ArxivClient
}

// NewPaperHandler 创建论文处理器
func NewPaperHandler(arxiv *sources.ArxivClient) *PaperHandler {
	return &PaperHandler{arxiv: arxiv}
}

// Recent 按类别查询最新论文
// @Summary 最新论文
// @Description 按 arXiv 类别查询最新提交的论文
// @Tags Papers
// @Produce json
// @Param categories query string true "逗号分隔的类别列表，如 cs.AI,cs.LG"
// @Param max_results query int false "最大结果数"
// @Router /api/v1/papers/recent [get]
func (h *PaperHandler) Recent(c *gin.Context) {
	raw := c.Query("categories")
	if strings.TrimSpace(raw) == "" {
		dto.BadRequest(c, "categories query parameter is required")
		return
	}

	var categories []string
	for _, cat := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(cat); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}

	maxResults := 0
	if v := c.Query("max_results"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			dto.BadRequest(c, "max_results must be a positive integer")
			return
		}
		maxResults = n
	}

	papers, err := h.arxiv.FetchRecent(c.Request.Context(), categories, maxResults)
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromPapers(papers))
}

// Get 按 ID 查询单篇论文
func (h *PaperHandler) Get(c *gin.Context) {
	paper, err := h.arxiv.FetchByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	dto.Success(c, dto.FromPapers([]*entity.Paper{paper})[0])
}
