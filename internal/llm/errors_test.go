package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blog-writer-api/pkg/errors"
)

func TestTranslateError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code apperrors.ErrorCode
	}{
		{"401 status", errors.New("API returned 401 Unauthorized"), apperrors.CodeLLMAuthFailed},
		{"invalid key", errors.New("invalid_api_key: check your credentials"), apperrors.CodeLLMAuthFailed},
		{"429 status", errors.New("HTTP 429 Too Many Requests"), apperrors.CodeLLMRateLimited},
		{"quota", errors.New("quota exceeded for this billing period"), apperrors.CodeLLMRateLimited},
		{"gemini exhausted", errors.New("RESOURCE_EXHAUSTED: try again later"), apperrors.CodeLLMRateLimited},
		{"context window", errors.New("context_length_exceeded"), apperrors.CodeLLMContextOverflow},
		{"token count", errors.New("input token count exceeds the limit"), apperrors.CodeLLMContextOverflow},
		{"anything else", errors.New("connection reset by peer"), apperrors.CodeLLMCallFailed},
		{"cancelled", context.Canceled, apperrors.CodeLLMCallFailed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			translated := translateError("openai", tc.err)
			assert.True(t, apperrors.HasCode(translated, tc.code))
			assert.ErrorIs(t, translated, tc.err)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError("openai", nil))
	})

	t.Run("app errors pass through untouched", func(t *testing.T) {
		original := apperrors.New(apperrors.CodeProviderNotFound, "nope")
		assert.Equal(t, error(original), translateError("openai", original))
	})
}

func TestIsRateLimited(t *testing.T) {
	limited := translateError("openai", errors.New("rate limit reached"))
	assert.True(t, IsRateLimited(limited))
	assert.False(t, IsRateLimited(errors.New("rate limit reached")))
	assert.False(t, IsRateLimited(nil))
}

func TestWithRateLimitRetry(t *testing.T) {
	ctx := context.Background()
	rateLimited := apperrors.New(apperrors.CodeLLMRateLimited, "slow down")

	t.Run("success returns immediately", func(t *testing.T) {
		calls := 0
		resp, err := withRateLimitRetry(ctx, "openai", 3, func() (*Response, error) {
			calls++
			return &Response{Content: "ok"}, nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Content)
		assert.Equal(t, 1, calls)
	})

	t.Run("non rate limit errors are not retried", func(t *testing.T) {
		calls := 0
		_, err := withRateLimitRetry(ctx, "openai", 3, func() (*Response, error) {
			calls++
			return nil, apperrors.New(apperrors.CodeLLMAuthFailed, "bad key")
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("single attempt exhausts immediately", func(t *testing.T) {
		calls := 0
		_, err := withRateLimitRetry(ctx, "openai", 1, func() (*Response, error) {
			calls++
			return nil, rateLimited
		})
		require.Error(t, err)
		assert.True(t, IsRateLimited(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops the backoff", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		calls := 0
		_, err := withRateLimitRetry(cancelled, "openai", 3, func() (*Response, error) {
			calls++
			return nil, rateLimited
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeLLMCallFailed))
	})
}
