package dto

import (
	"blog-writer-api/internal/infrastructure/template"
)

// TemplateRequest 模板创建/更新请求
type TemplateRequest struct {
	ID                 string `json:"id" binding:"required"`
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description" binding:"required"`
	SystemPrompt       string `json:"system_prompt" binding:"required"`
	UserPromptTemplate string `json:"user_prompt_template" binding:"required"`
}

// ToTemplate 转换为模板对象
func (r *TemplateRequest) ToTemplate() *template.PromptTemplate {
	return &template.PromptTemplate{
		ID:                 r.ID,
		Name:               r.Name,
		Description:        r.Description,
		SystemPrompt:       r.SystemPrompt,
		UserPromptTemplate: r.UserPromptTemplate,
	}
}

// TemplateResponse 模板响应
type TemplateResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	SystemPrompt       string `json:"system_prompt"`
	UserPromptTemplate string `json:"user_prompt_template"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// FromTemplate 把模板对象转换为响应
func FromTemplate(tpl *template.PromptTemplate) *TemplateResponse {
	return &TemplateResponse{
		ID:                 tpl.ID,
		Name:               tpl.Name,
		Description:        tpl.Description,
		SystemPrompt:       tpl.SystemPrompt,
		UserPromptTemplate: tpl.UserPromptTemplate,
		CreatedAt:          tpl.CreatedAt,
		UpdatedAt:          tpl.UpdatedAt,
	}
}

// FromTemplates 批量转换
func FromTemplates(templates []*template.PromptTemplate) []*TemplateResponse {
	out := make([]*TemplateResponse, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, FromTemplate(tpl))
	}
	return out
}
