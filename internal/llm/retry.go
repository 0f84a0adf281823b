package llm

import (
	"context"
	"time"

	"blog-writer-api/pkg/logger"
)

const (
	defaultMaxAttempts = 3
	retryBaseDelay     = 2 * time.Second
	retryMaxDelay      = 60 * time.Second
)

// withRateLimitRetry 执行 fn，仅在限流错误时做有界指数退避重试。
// 重试耗尽后原样返回最后一次的错误。重试策略只存在于客户端边界，
// 引擎与流水线不得自行重试。
func withRateLimitRetry(ctx context.Context, provider string, maxAttempts int, fn func() (*Response, error)) (*Response, error) {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	var resp *Response
	var err error
	delay := retryBaseDelay

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err = fn()
		if err == nil || !IsRateLimited(err) {
			return resp, err
		}
		if attempt == maxAttempts {
			break
		}

		logger.Warn(ctx, "llm rate limited, backing off",
			"provider", provider,
			"attempt", attempt,
			"delay", delay.String(),
		)

		select {
		case <-ctx.Done():
			return nil, translateError(provider, ctx.Err())
		case <-time.After(delay):
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}

	return nil, err
}
