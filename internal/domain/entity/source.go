// Package entity 定义领域实体
package entity

import "fmt"

// SourceKind 素材来源类型
type SourceKind string

const (
	SourceKindDocument SourceKind = "document"
	SourceKindWebPage  SourceKind = "web-page"
	SourceKindPaper    SourceKind = "paper-reference"
)

// Valid 检查来源类型是否受支持
func (k SourceKind) Valid() bool {
	switch k {
	case SourceKindDocument, SourceKindWebPage, SourceKindPaper:
		return true
	}
	return false
}

// PageRange 1-based 闭区间页码范围
type PageRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// SourceInput 单个素材来源的描述
type SourceInput struct {
	Kind      SourceKind `json:"kind"`
	Location  string     `json:"location"`
	PageRange *PageRange `json:"page_range,omitempty"`
	Label     string     `json:"label,omitempty"`
}

// DisplayLabel 生成带 1-based 序号的来源标签
func (s *SourceInput) DisplayLabel(index int) string {
	if s.Label != "" {
		return fmt.Sprintf("Source %d: %s", index, s.Label)
	}
	label := fmt.Sprintf("Source %d: %s", index, s.Location)
	if s.PageRange != nil {
		label += fmt.Sprintf(" (pages %d-%d)", s.PageRange.Start, s.PageRange.End)
	}
	return label
}

// ImageInfo 素材中抽取的图片元数据
type ImageInfo struct {
	Filename string `json:"filename"`
	Page     int    `json:"page,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
}

// DroppedSource 聚合时被跳过的失败来源
type DroppedSource struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

// AggregatedContent 多来源聚合后的内容
type AggregatedContent struct {
	CombinedText        string
	Sources             []SourceInput
	Images              []ImageInfo
	ImageData           map[string][]byte
	TotalTokensEstimate int

	// Dropped 记录部分失败时被静默丢弃的来源，供调用方提示
	Dropped []DroppedSource
}
