package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeTemplateNotFound, "template not found")
	assert.Equal(t, CodeTemplateNotFound, err.Code)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "[3001] template not found", err.Error())
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Wrap(cause, CodeLLMCallFailed, "openai call failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAsAppError(t *testing.T) {
	t.Run("returns the typed error", func(t *testing.T) {
		original := New(CodeConflict, "duplicate")
		got := AsAppError(original)
		assert.Equal(t, CodeConflict, got.Code)
	})

	t.Run("finds app error in a wrap chain", func(t *testing.T) {
		wrapped := fmt.Errorf("handler: %w", New(CodeInvalidParam, "bad input"))
		got := AsAppError(wrapped)
		require.NotNil(t, got)
		assert.Equal(t, CodeInvalidParam, got.Code)
	})

	t.Run("unknown errors become CodeUnknown", func(t *testing.T) {
		got := AsAppError(errors.New("who knows"))
		require.NotNil(t, got)
		assert.Equal(t, CodeUnknown, got.Code)
	})
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(New(CodeLLMRateLimited, "slow down"), CodeLLMRateLimited))
	assert.False(t, HasCode(New(CodeLLMRateLimited, "slow down"), CodeLLMAuthFailed))
	assert.False(t, HasCode(errors.New("plain"), CodeLLMRateLimited))
	assert.False(t, HasCode(nil, CodeLLMRateLimited))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[ErrorCode]int{
		CodeInvalidParam:     http.StatusBadRequest,
		CodeLLMAuthFailed:    http.StatusUnauthorized,
		CodeProviderNotFound: http.StatusNotFound,
		CodeTemplateExists:   http.StatusConflict,
		CodeAllSourcesFailed: http.StatusUnprocessableEntity,
		CodeLLMRateLimited:   http.StatusTooManyRequests,
		CodeInternalError:    http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, New(code, "x").HTTPStatus, "code %s", code)
	}
}
