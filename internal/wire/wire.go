// Package wire 提供应用组件的手工装配
package wire

import (
	"context"

	"github.com/gin-gonic/gin"

	"blog-writer-api/internal/application/aggregator"
	"blog-writer-api/internal/application/pipeline"
	"blog-writer-api/internal/config"
	"blog-writer-api/internal/infrastructure/persistence/redis"
	"blog-writer-api/internal/infrastructure/reference"
	"blog-writer-api/internal/infrastructure/sources"
	"blog-writer-api/internal/infrastructure/template"
	"blog-writer-api/internal/interfaces/http/handler"
	"blog-writer-api/internal/interfaces/http/middleware"
	"blog-writer-api/internal/interfaces/http/router"
	"blog-writer-api/internal/llm"
	"blog-writer-api/pkg/logger"
)

// App 装配完成的应用
type App struct {
	router *router.Router
	redis  *redis.Client
}

// Engine 返回 HTTP 引擎
func (a *App) Engine() *gin.Engine {
	return a.router.Engine()
}

// InitializeApp 按依赖顺序装配应用组件。
// Redis 是可选依赖：连接失败时缓存与限流降级关闭，服务照常启动。
func InitializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	tokenizer, err := llm.NewTokenizer()
	if err != nil {
		return nil, nil, err
	}
	factory := llm.NewFactory(cfg.LLM, tokenizer)

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = redis.NewClient(&cfg.Cache.Redis)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, cache and rate limiting disabled", "error", err.Error())
			redisClient = nil
		}
	}

	var pageCache sources.PageCache
	if redisClient != nil {
		pageCache = redis.NewCache(redisClient)
	}

	documents := sources.NewDocumentParser()
	crawler := sources.NewCrawler(cfg.Sources.Crawler, pageCache)
	arxivClient := sources.NewArxivClient(cfg.Sources.Arxiv)

	agg := aggregator.New(documents, crawler, arxivClient)

	templateMgr := template.NewManager(cfg.Content.TemplatesDir)
	referenceMgr := reference.NewManager(cfg.Content.ReferencesDir, crawler, documents)

	contentPipeline := pipeline.New(factory, agg, cfg.Chunking, templateMgr, referenceMgr, pipeline.Prompts{})

	var rateLimiter middleware.RateLimiter
	if redisClient != nil {
		rateLimiter = redis.NewRateLimiter(redisClient)
	}

	handlers := router.Handlers{
		Health:    handler.NewHealthHandler(redisClient, cfg.App.Version),
		Write:     handler.NewWriteHandler(contentPipeline),
		Template:  handler.NewTemplateHandler(templateMgr),
		Reference: handler.NewReferenceHandler(referenceMgr),
		Provider:  handler.NewProviderHandler(factory),
		Paper:     handler.NewPaperHandler(arxivClient),
	}

	r := router.New(cfg, handlers, rateLimiter)

	app := &App{
		router: r,
		redis:  redisClient,
	}

	cleanup := func() {
		if app.redis != nil {
			if err := app.redis.Close(); err != nil {
				logger.Warn(ctx, "failed to close redis client", "error", err.Error())
			}
		}
	}

	return app, cleanup, nil
}
