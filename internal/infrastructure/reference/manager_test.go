package reference

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "blog-writer-api/pkg/errors"
)

type fakeCrawler struct {
	text string
	err  error
}

func (f *fakeCrawler) Fetch(ctx context.Context, url string) (string, error) {
	return f.text, f.err
}

type fakeDocuments struct {
	text string
}

func (f *fakeDocuments) ReadText(ctx context.Context, path string) (string, error) {
	return f.text, nil
}

func writeSourceFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"My Writing Style":    "my-writing-style",
		"  Spaces  Around  ":  "spaces-around",
		"Weird!@#Chars":       "weirdchars",
		"under_score mix-max": "under-score-mix-max",
		"---":                 "",
	}
	for input, want := range cases {
		assert.Equal(t, want, Slugify(input), "input %q", input)
	}
}

func TestAddFile(t *testing.T) {
	ctx := context.Background()

	t.Run("copies file and indexes it", func(t *testing.T) {
		dir := t.TempDir()
		m := NewManager(dir, nil, nil)
		src := writeSourceFile(t, "style.md", "# My Style\n\nSample text.")

		ref, err := m.AddFile(ctx, "My Style", src)
		require.NoError(t, err)
		assert.Equal(t, "my-style", ref.ID)
		assert.Equal(t, "file", ref.SourceType)
		assert.Equal(t, "md", ref.FileType)
		assert.FileExists(t, filepath.Join(dir, "my-style.md"))

		got, err := m.Get("my-style")
		require.NoError(t, err)
		assert.Equal(t, "My Style", got.Name)
	})

	t.Run("rejects unsupported extension", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		src := writeSourceFile(t, "style.docx", "binary")

		_, err := m.AddFile(ctx, "Doc Style", src)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
	})

	t.Run("rejects missing file", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		_, err := m.AddFile(ctx, "Ghost", "/nonexistent/style.md")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeSourceFailed))
	})

	t.Run("rejects name that slugs to nothing", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		src := writeSourceFile(t, "style.md", "text")

		_, err := m.AddFile(ctx, "!!!", src)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		src := writeSourceFile(t, "style.md", "text")

		_, err := m.AddFile(ctx, "Same Name", src)
		require.NoError(t, err)
		_, err = m.AddFile(ctx, "same name", src)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
	})
}

func TestAddURL(t *testing.T) {
	ctx := context.Background()

	t.Run("caches crawled text in the index", func(t *testing.T) {
		m := NewManager(t.TempDir(), &fakeCrawler{text: "crawled body"}, nil)

		ref, err := m.AddURL(ctx, "Blog Style", "https://example.com/post")
		require.NoError(t, err)
		assert.Equal(t, "url", ref.SourceType)
		assert.Equal(t, "https://example.com/post", ref.SourcePath)

		content, err := m.GetContent(ctx, "blog-style")
		require.NoError(t, err)
		assert.Equal(t, "crawled body", content)
	})

	t.Run("crawl failure propagates", func(t *testing.T) {
		m := NewManager(t.TempDir(), &fakeCrawler{err: errors.New("timeout")}, nil)
		_, err := m.AddURL(ctx, "Broken", "https://example.com/404")
		require.Error(t, err)
	})
}

func TestGetContent(t *testing.T) {
	ctx := context.Background()

	t.Run("reads markdown file directly", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		src := writeSourceFile(t, "style.md", "# Heading\n\nBody.")
		_, err := m.AddFile(ctx, "MD Style", src)
		require.NoError(t, err)

		content, err := m.GetContent(ctx, "md-style")
		require.NoError(t, err)
		assert.Equal(t, "# Heading\n\nBody.", content)
	})

	t.Run("pdf goes through text extraction", func(t *testing.T) {
		docs := &fakeDocuments{text: "extracted pdf text"}
		m := NewManager(t.TempDir(), nil, docs)
		src := writeSourceFile(t, "style.pdf", "%PDF-1.4 fake")
		_, err := m.AddFile(ctx, "PDF Style", src)
		require.NoError(t, err)

		content, err := m.GetContent(ctx, "pdf-style")
		require.NoError(t, err)
		assert.Equal(t, "extracted pdf text", content)
	})

	t.Run("unknown id", func(t *testing.T) {
		m := NewManager(t.TempDir(), nil, nil)
		_, err := m.GetContent(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeReferenceNotFound))
	})
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	m := NewManager(dir, nil, nil)

	src := writeSourceFile(t, "style.md", "text")
	_, err := m.AddFile(ctx, "Removable", src)
	require.NoError(t, err)

	require.NoError(t, m.Remove("removable"))
	assert.NoFileExists(t, filepath.Join(dir, "removable.md"))

	_, err = m.Get("removable")
	require.Error(t, err)

	err = m.Remove("removable")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeReferenceNotFound))
}

func TestList(t *testing.T) {
	ctx := context.Background()
	m := NewManager(t.TempDir(), &fakeCrawler{text: "body"}, nil)

	refs, err := m.List()
	require.NoError(t, err)
	assert.Empty(t, refs)

	_, err = m.AddURL(ctx, "First", "https://example.com/1")
	require.NoError(t, err)
	_, err = m.AddURL(ctx, "Second", "https://example.com/2")
	require.NoError(t, err)

	refs, err = m.List()
	require.NoError(t, err)
	require.Len(t, refs, 2)
}
