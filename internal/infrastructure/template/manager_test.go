package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blog-writer-api/pkg/errors"
)

func validTemplate(id string) *PromptTemplate {
	return &PromptTemplate{
		ID:                 id,
		Name:               "Tech Blog",
		Description:        "Technical blog post template",
		SystemPrompt:       "You are a technical writer.",
		UserPromptTemplate: "Write about: {content}",
	}
}

func TestManagerCRUD(t *testing.T) {
	m := NewManager(t.TempDir())

	t.Run("create fills timestamps", func(t *testing.T) {
		created, err := m.Create(validTemplate("tech-blog"))
		require.NoError(t, err)
		assert.NotEmpty(t, created.CreatedAt)
		assert.NotEmpty(t, created.UpdatedAt)
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		_, err := m.Create(validTemplate("tech-blog"))
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTemplateExists))
	})

	t.Run("create rejects missing fields", func(t *testing.T) {
		tpl := validTemplate("incomplete")
		tpl.Description = ""
		tpl.SystemPrompt = "  "
		_, err := m.Create(tpl)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTemplateInvalid))
		assert.Contains(t, err.Error(), "description, system_prompt")
	})

	t.Run("get returns stored template", func(t *testing.T) {
		tpl, err := m.Get("tech-blog")
		require.NoError(t, err)
		assert.Equal(t, "Tech Blog", tpl.Name)
	})

	t.Run("get unknown id", func(t *testing.T) {
		_, err := m.Get("nope")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTemplateNotFound))
	})

	t.Run("update keeps id and bumps updated_at", func(t *testing.T) {
		tpl := validTemplate("other-id")
		tpl.Name = "Renamed"
		tpl.UpdatedAt = "2001-01-01T00:00:00Z"

		updated, err := m.Update("tech-blog", tpl)
		require.NoError(t, err)
		assert.Equal(t, "tech-blog", updated.ID)
		assert.NotEqual(t, "2001-01-01T00:00:00Z", updated.UpdatedAt)

		got, err := m.Get("tech-blog")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Name)
	})

	t.Run("delete removes the file", func(t *testing.T) {
		require.NoError(t, m.Delete("tech-blog"))
		_, err := m.Get("tech-blog")
		require.Error(t, err)

		err = m.Delete("tech-blog")
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTemplateNotFound))
	})
}

func TestManagerList(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	t.Run("missing dir lists empty", func(t *testing.T) {
		empty := NewManager(filepath.Join(dir, "nope"))
		templates, err := empty.List()
		require.NoError(t, err)
		assert.Empty(t, templates)
	})

	t.Run("sorted by updated_at descending, broken files skipped", func(t *testing.T) {
		older := validTemplate("older")
		older.UpdatedAt = "2024-01-01T00:00:00Z"
		newer := validTemplate("newer")
		newer.UpdatedAt = "2025-06-01T00:00:00Z"
		_, err := m.Create(older)
		require.NoError(t, err)
		_, err = m.Create(newer)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(":\tnot yaml"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

		templates, err := m.List()
		require.NoError(t, err)
		require.Len(t, templates, 2)
		assert.Equal(t, "newer", templates[0].ID)
		assert.Equal(t, "older", templates[1].ID)
	})
}

func TestRender(t *testing.T) {
	m := NewManager(t.TempDir())

	tpl := validTemplate("render-me")
	tpl.SystemPrompt = "system prompt"
	tpl.UserPromptTemplate = "## Task\n\n{content}\n\n## Sources\n\n{sources}\n\n## Style\n\n{style_reference}"
	_, err := m.Create(tpl)
	require.NoError(t, err)

	t.Run("fills placeholders", func(t *testing.T) {
		system, user, err := m.Render("render-me", map[string]string{
			"content":         "write about Go",
			"sources":         "source text",
			"style_reference": "style text",
		})
		require.NoError(t, err)
		assert.Equal(t, "system prompt", system)
		assert.Equal(t,
			"## Task\n\nwrite about Go\n\n## Sources\n\nsource text\n\n## Style\n\nstyle text",
			user)
	})

	t.Run("empty sections are removed", func(t *testing.T) {
		_, user, err := m.Render("render-me", map[string]string{
			"content": "write about Go",
		})
		require.NoError(t, err)
		assert.Equal(t, "## Task\n\nwrite about Go", user)
	})

	t.Run("unknown template id", func(t *testing.T) {
		_, _, err := m.Render("ghost", nil)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeTemplateNotFound))
	})
}

func TestStripEmptySections(t *testing.T) {
	t.Run("keeps sections with content", func(t *testing.T) {
		out := stripEmptySections("## A\n\ntext\n\n## B\n\nmore")
		assert.Equal(t, "## A\n\ntext\n\n## B\n\nmore", out)
	})

	t.Run("drops trailing empty section", func(t *testing.T) {
		out := stripEmptySections("## A\n\ntext\n\n## B\n\n")
		assert.Equal(t, "## A\n\ntext", out)
	})

	t.Run("collapses leftover blank runs", func(t *testing.T) {
		out := stripEmptySections("intro\n\n\n\nbody")
		assert.Equal(t, "intro\n\nbody", out)
	})
}
