package dto

import (
	"blog-writer-api/internal/domain/entity"
)

// PaperResponse arXiv 论文响应
type PaperResponse struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Abstract   string   `json:"abstract"`
	Categories []string `json:"categories"`
	Published  string   `json:"published"`
	PDFURL     string   `json:"pdf_url,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// FromPapers 批量转换论文实体
func FromPapers(papers []*entity.Paper) []*PaperResponse {
	out := make([]*PaperResponse, 0, len(papers))
	for _, p := range papers {
		out = append(out, &PaperResponse{
			ID:         p.ID,
			Title:      p.Title,
			Authors:    p.Authors,
			Abstract:   p.Abstract,
			Categories: p.Categories,
			Published:  p.Published,
			PDFURL:     p.PDFURL,
			URL:        p.URL,
		})
	}
	return out
}
