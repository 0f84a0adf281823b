// Package router 提供 HTTP 路由配置
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterV1Routes 注册 v1 版本路由
func RegisterV1Routes(v1 *gin.RouterGroup, h Handlers) {
	// 文章生成
	posts := v1.Group("/posts")
	{
		posts.POST("/generate", h.Write.Generate)
		posts.POST("/feedback", h.Write.Feedback)
	}

	// 提示词模板管理
	templates := v1.Group("/templates")
	{
		templates.GET("", h.Template.List)
		templates.POST("", h.Template.Create)
		templates.GET("/:id", h.Template.Get)
		templates.PUT("/:id", h.Template.Update)
		templates.DELETE("/:id", h.Template.Delete)
	}

	// 风格参考管理
	references := v1.Group("/references")
	{
		references.GET("", h.Reference.List)
		references.POST("/files", h.Reference.AddFile)
		references.POST("/urls", h.Reference.AddURL)
		references.DELETE("/:id", h.Reference.Delete)
	}

	// LLM 提供商
	llm := v1.Group("/llm")
	{
		llm.GET("/providers", h.Provider.List)
	}

	// arXiv 论文
	papers := v1.Group("/papers")
	{
		papers.GET("/recent", h.Paper.Recent)
		papers.GET("/:id", h.Paper.Get)
	}
}
