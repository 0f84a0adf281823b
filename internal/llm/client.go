// Package llm 定义 LLM 客户端端口及其提供商实现
package llm

import "context"

// Role 对话角色
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message 单轮历史对话
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request LLM 生成请求。构造后不可变。
type Request struct {
	SystemPrompt string
	UserPrompt   string
	History      []Message
	Model        string
	Temperature  float64
	MaxTokens    int
}

// Response LLM 生成响应
type Response struct {
	Content string
	Model   string
	Usage   map[string]int
}

// ModelInfo 模型描述
type ModelInfo struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	MaxContextTokens int    `json:"max_context_tokens"`
}

// Client LLM 提供商统一接口。
//
// Generate 必须支持并发调用（map 阶段会同时发起多个请求）。
// CountTokens 必须是本地、廉价的计算，并且对前缀长度单调不减 ——
// 分块引擎的二分查找依赖该性质；任何标准 tokenizer 都满足，
// 但这是前置约定而非实现可验证的条件。
type Client interface {
	ProviderName() string
	MaxContextTokens() int
	AvailableModels() []ModelInfo
	Generate(ctx context.Context, req *Request) (*Response, error)
	CountTokens(text string) int
}
