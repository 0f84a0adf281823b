// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Chunking      ChunkingConfig      `yaml:"chunking" mapstructure:"chunking"`
	Sources       SourcesConfig       `yaml:"sources" mapstructure:"sources"`
	Content       ContentConfig       `yaml:"content" mapstructure:"content"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// LLMConfig LLM 配置
type LLMConfig struct {
	DefaultProvider string                    `yaml:"default_provider" mapstructure:"default_provider"`
	Providers       map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
}

// ProviderConfig LLM 提供商配置
//
// Kind 决定接入方式："openai" 表示任意 OpenAI 兼容端点，"gemini" 表示
// Google Gemini API。MaxContextTokens 是该提供商默认模型的上下文窗口。
type ProviderConfig struct {
	Kind             string        `yaml:"kind" mapstructure:"kind"`
	APIKey           string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL          string        `yaml:"base_url" mapstructure:"base_url"`
	Model            string        `yaml:"model" mapstructure:"model"`
	MaxTokens        int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	MaxContextTokens int           `yaml:"max_context_tokens" mapstructure:"max_context_tokens"`
	Temperature      float64       `yaml:"temperature" mapstructure:"temperature"`
	Timeout          time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Models           []ModelConfig `yaml:"models" mapstructure:"models"`
	RetryMaxAttempts int           `yaml:"retry_max_attempts" mapstructure:"retry_max_attempts"`
}

// ModelConfig 单个模型的描述
type ModelConfig struct {
	ID               string `yaml:"id" mapstructure:"id"`
	Name             string `yaml:"name" mapstructure:"name"`
	MaxContextTokens int    `yaml:"max_context_tokens" mapstructure:"max_context_tokens"`
}

// ChunkingConfig 长文分块配置
type ChunkingConfig struct {
	ChunkSizeTokens  int     `yaml:"chunk_size_tokens" mapstructure:"chunk_size_tokens"`
	ContextThreshold float64 `yaml:"context_threshold" mapstructure:"context_threshold"`
	MapModel         string  `yaml:"map_model" mapstructure:"map_model"`
	ReduceModel      string  `yaml:"reduce_model" mapstructure:"reduce_model"`
}

// SourcesConfig 素材来源配置
type SourcesConfig struct {
	Crawler CrawlerConfig `yaml:"crawler" mapstructure:"crawler"`
	Arxiv   ArxivConfig   `yaml:"arxiv" mapstructure:"arxiv"`
}

// CrawlerConfig 网页抓取配置
type CrawlerConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	CacheTTL     time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// ArxivConfig arXiv API 配置
type ArxivConfig struct {
	Endpoint string        `yaml:"endpoint" mapstructure:"endpoint"`
	PageSize int           `yaml:"page_size" mapstructure:"page_size"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ContentConfig 内容目录配置
type ContentConfig struct {
	TemplatesDir  string `yaml:"templates_dir" mapstructure:"templates_dir"`
	ReferencesDir string `yaml:"references_dir" mapstructure:"references_dir"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Enabled bool        `yaml:"enabled" mapstructure:"enabled"`
	Redis   RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}
