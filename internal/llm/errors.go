package llm

import (
	"context"
	"strings"

	apperrors "blog-writer-api/pkg/errors"
)

// translateError 将提供商 SDK 错误翻译为统一错误分类。
//
// 各家 SDK 的错误类型互不兼容，这里在客户端边界统一做字符串嗅探，
// 上层（分块引擎、流水线）只依赖 pkg/errors 的错误码。
func translateError(provider string, err error) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	if err == context.Canceled || err == context.DeadlineExceeded {
		return apperrors.Wrap(err, apperrors.CodeLLMCallFailed, provider+" call aborted")
	}

	msg := strings.ToLower(err.Error())
	switch {
	case containsAny(msg, "401", "unauthorized", "invalid api key", "invalid_api_key", "authentication", "permission denied"):
		return apperrors.Wrap(err, apperrors.CodeLLMAuthFailed, provider+" authentication failed")
	case containsAny(msg, "429", "rate limit", "rate_limit", "too many requests", "quota exceeded", "resource exhausted", "resource_exhausted"):
		return apperrors.Wrap(err, apperrors.CodeLLMRateLimited, provider+" rate limited")
	case containsAny(msg, "context length", "context_length_exceeded", "maximum context", "too many tokens", "input token count exceeds"):
		return apperrors.Wrap(err, apperrors.CodeLLMContextOverflow, provider+" context window exceeded")
	default:
		return apperrors.Wrap(err, apperrors.CodeLLMCallFailed, provider+" call failed")
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// IsRateLimited 判断是否为限流错误（客户端内部重试依据）
func IsRateLimited(err error) bool {
	return apperrors.HasCode(err, apperrors.CodeLLMRateLimited)
}
