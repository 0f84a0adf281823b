// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"blog-writer-api/internal/domain/entity"
)

// SourceInputRequest 单个素材来源
type SourceInputRequest struct {
	Kind      string            `json:"kind" binding:"required"`
	Location  string            `json:"location" binding:"required"`
	PageRange *PageRangeRequest `json:"page_range,omitempty"`
	Label     string            `json:"label,omitempty"`
}

// PageRangeRequest 1-based 闭区间页码范围
type PageRangeRequest struct {
	Start int `json:"start" binding:"required"`
	End   int `json:"end" binding:"required"`
}

// WriteRequest 写作请求
type WriteRequest struct {
	Mode         string               `json:"mode" binding:"required"`
	Content      string               `json:"content,omitempty"`
	Sources      []SourceInputRequest `json:"sources,omitempty"`
	TemplateID   string               `json:"template_id,omitempty"`
	ReferenceID  string               `json:"reference_id,omitempty"`
	Provider     string               `json:"provider,omitempty"`
	Model        string               `json:"model,omitempty"`
	CategoryPath string               `json:"category_path,omitempty"`
	Tags         []string             `json:"tags,omitempty"`
	Title        string               `json:"title,omitempty"`
	Prompt       string               `json:"prompt,omitempty"`
}

// ToEntity 转换为领域请求
func (r *WriteRequest) ToEntity() *entity.WriteRequest {
	sources := make([]entity.SourceInput, 0, len(r.Sources))
	for _, s := range r.Sources {
		src := entity.SourceInput{
			Kind:     entity.SourceKind(s.Kind),
			Location: s.Location,
			Label:    s.Label,
		}
		if s.PageRange != nil {
			src.PageRange = &entity.PageRange{Start: s.PageRange.Start, End: s.PageRange.End}
		}
		sources = append(sources, src)
	}

	return &entity.WriteRequest{
		Mode:         entity.WriteMode(r.Mode),
		Content:      r.Content,
		Sources:      sources,
		TemplateID:   r.TemplateID,
		ReferenceID:  r.ReferenceID,
		Provider:     r.Provider,
		Model:        r.Model,
		CategoryPath: r.CategoryPath,
		Tags:         r.Tags,
		Title:        r.Title,
		Prompt:       r.Prompt,
	}
}

// WriteResultResponse 写作结果
type WriteResultResponse struct {
	Content        string                 `json:"content"`
	Metadata       entity.PostMetadata    `json:"metadata"`
	Images         []entity.ImageInfo     `json:"images,omitempty"`
	Usage          map[string]int         `json:"usage,omitempty"`
	DroppedSources []entity.DroppedSource `json:"dropped_sources,omitempty"`
}

// FromWriteResult 把领域结果转换为响应
func FromWriteResult(result *entity.WriteResult) *WriteResultResponse {
	return &WriteResultResponse{
		Content:        result.Content,
		Metadata:       result.Metadata,
		Images:         result.Images,
		Usage:          result.Usage,
		DroppedSources: result.DroppedSources,
	}
}
