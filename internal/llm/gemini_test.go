package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildGeminiContents(t *testing.T) {
	t.Run("history roles map to gemini roles", func(t *testing.T) {
		contents := buildGeminiContents(&Request{
			UserPrompt: "follow-up question",
			History: []Message{
				{Role: RoleUser, Content: "first question"},
				{Role: RoleAssistant, Content: "first answer"},
			},
		})

		require.Len(t, contents, 3)
		assert.EqualValues(t, "user", contents[0].Role)
		assert.Equal(t, "first question", contents[0].Parts[0].Text)
		assert.EqualValues(t, "model", contents[1].Role)
		assert.Equal(t, "first answer", contents[1].Parts[0].Text)
		assert.EqualValues(t, "user", contents[2].Role)
		assert.Equal(t, "follow-up question", contents[2].Parts[0].Text)
	})

	t.Run("no history yields a single user turn", func(t *testing.T) {
		contents := buildGeminiContents(&Request{UserPrompt: "hello"})
		require.Len(t, contents, 1)
		assert.EqualValues(t, "user", contents[0].Role)
		assert.Equal(t, "hello", contents[0].Parts[0].Text)
	})
}
