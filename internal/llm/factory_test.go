package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
)

func testLLMConfig() config.LLMConfig {
	return config.LLMConfig{
		DefaultProvider: "openai",
		Providers: map[string]config.ProviderConfig{
			"openai": {
				Kind:  "openai",
				Model: "gpt-4o",
				Models: []config.ModelConfig{
					{ID: "gpt-4o", Name: "GPT-4o", MaxContextTokens: 128000},
				},
			},
			"gemini": {
				Kind:  "gemini",
				Model: "gemini-2.0-flash",
			},
			"broken": {
				Kind: "quantum",
			},
		},
	}
}

func TestFactoryGet(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(testLLMConfig(), nil)

	t.Run("unknown provider", func(t *testing.T) {
		_, err := f.Get(ctx, "nonexistent")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeProviderNotFound))
	})

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := f.Get(ctx, "broken")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConfigError))
	})

	t.Run("empty name needs a default provider", func(t *testing.T) {
		empty := NewFactory(config.LLMConfig{}, nil)
		_, err := empty.Get(ctx, "")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeProviderNotFound))
	})
}

func TestListProviders(t *testing.T) {
	f := NewFactory(testLLMConfig(), nil)
	infos := f.ListProviders()

	require.Len(t, infos, 3)
	// sorted by name
	assert.Equal(t, "broken", infos[0].Name)
	assert.Equal(t, "gemini", infos[1].Name)
	assert.Equal(t, "openai", infos[2].Name)

	openai := infos[2]
	assert.True(t, openai.IsDefault)
	assert.Equal(t, "gpt-4o", openai.DefaultModel)
	require.Len(t, openai.Models, 1)
	assert.Equal(t, 128000, openai.Models[0].MaxContextTokens)

	assert.False(t, infos[1].IsDefault)
	assert.Equal(t, "quantum", infos[0].Kind)
}

func TestDefaultProvider(t *testing.T) {
	f := NewFactory(testLLMConfig(), nil)
	assert.Equal(t, "openai", f.DefaultProvider())
}
