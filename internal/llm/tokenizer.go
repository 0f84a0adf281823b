package llm

import (
	"github.com/pkoukk/tiktoken-go"

	apperrors "blog-writer-api/pkg/errors"
)

// Tokenizer 基于 tiktoken cl100k_base 的本地 token 计数器。
//
// 对非 OpenAI 模型是近似值，但分块决策只需要量级正确，
// 且计数必须离线完成（二分查找会高频调用）。
type Tokenizer struct {
	enc *tiktoken.Tiktoken
}

// NewTokenizer 创建计数器
func NewTokenizer() (*Tokenizer, error) {
	enc, err := tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeConfigError, "failed to load tokenizer encoding")
	}
	return &Tokenizer{enc: enc}, nil
}

// Count 返回文本的 token 数
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	return len(t.enc.Encode(text, nil, nil))
}
