package dto

import (
	"blog-writer-api/internal/infrastructure/reference"
)

// ReferenceFileRequest 文件型风格参考请求
type ReferenceFileRequest struct {
	Name     string `json:"name" binding:"required"`
	FilePath string `json:"file_path" binding:"required"`
}

// ReferenceURLRequest URL 型风格参考请求
type ReferenceURLRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

// ReferenceResponse 风格参考响应
type ReferenceResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SourceType string `json:"source_type"`
	SourcePath string `json:"source_path"`
	FileType   string `json:"file_type,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// FromReference 把参考条目转换为响应
func FromReference(ref *reference.StyleReference) *ReferenceResponse {
	return &ReferenceResponse{
		ID:         ref.ID,
		Name:       ref.Name,
		SourceType: ref.SourceType,
		SourcePath: ref.SourcePath,
		FileType:   ref.FileType,
		CreatedAt:  ref.CreatedAt,
		UpdatedAt:  ref.UpdatedAt,
	}
}

// FromReferences 批量转换
func FromReferences(refs []*reference.StyleReference) []*ReferenceResponse {
	out := make([]*ReferenceResponse, 0, len(refs))
	for _, ref := range refs {
		out = append(out, FromReference(ref))
	}
	return out
}
