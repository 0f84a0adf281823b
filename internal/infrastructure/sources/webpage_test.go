package sources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
)

const samplePage = `<!DOCTYPE html>
<html>
<head><title>Ignored Title</title><style>body { color: red; }</style></head>
<body>
  <nav>Home | About | Contact</nav>
  <div class="sidebar">Related posts</div>
  <article>
    <h1>Understanding Goroutines</h1>
    <p>Goroutines are lightweight threads    managed by the Go runtime.</p>
    <div class="ad-banner">Buy now!</div>
    <p>They start with a small stack.</p>
  </article>
  <footer>Copyright 2026</footer>
  <script>trackVisit();</script>
</body>
</html>`

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, loader func() (interface{}, error)) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if data, ok := c.items[key]; ok {
		return data, nil
	}
	value, err := loader()
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	c.items[key] = data
	return data, nil
}

func TestCrawlerFetch(t *testing.T) {
	ctx := context.Background()

	t.Run("extracts article text without noise", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(samplePage))
		}))
		t.Cleanup(server.Close)

		c := NewCrawler(config.CrawlerConfig{UserAgent: "test-agent"}, nil)
		text, err := c.Fetch(ctx, server.URL)
		require.NoError(t, err)

		assert.Contains(t, text, "Understanding Goroutines")
		assert.Contains(t, text, "Goroutines are lightweight threads managed by the Go runtime.")
		assert.Contains(t, text, "They start with a small stack.")

		// navigation, ads, footer and scripts are outside the article or filtered
		assert.NotContains(t, text, "Home | About")
		assert.NotContains(t, text, "Related posts")
		assert.NotContains(t, text, "Buy now!")
		assert.NotContains(t, text, "Copyright")
		assert.NotContains(t, text, "trackVisit")
	})

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		t.Cleanup(server.Close)

		c := NewCrawler(config.CrawlerConfig{}, nil)
		_, err := c.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeSourceFailed))
	})

	t.Run("empty extraction is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body><script>only();</script></body></html>"))
		}))
		t.Cleanup(server.Close)

		c := NewCrawler(config.CrawlerConfig{}, nil)
		_, err := c.Fetch(ctx, server.URL)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no text content")
	})

	t.Run("second fetch hits the cache", func(t *testing.T) {
		var hits int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits++
			_, _ = w.Write([]byte(samplePage))
		}))
		t.Cleanup(server.Close)

		cache := newMemoryCache()
		c := NewCrawler(config.CrawlerConfig{CacheTTL: time.Hour}, cache)

		first, err := c.Fetch(ctx, server.URL)
		require.NoError(t, err)
		second, err := c.Fetch(ctx, server.URL)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, hits)
		assert.Contains(t, cache.items, "crawl:"+server.URL)
	})
}

func TestExtractPageText(t *testing.T) {
	t.Run("prefers article over body", func(t *testing.T) {
		text, err := extractPageText("<body><p>outside</p><article><p>inside</p></article></body>")
		require.NoError(t, err)
		assert.Equal(t, "inside", text)
	})

	t.Run("falls back to body", func(t *testing.T) {
		text, err := extractPageText("<body><p>line one</p><p>line two</p></body>")
		require.NoError(t, err)
		assert.Equal(t, "line one\nline two", text)
	})

	t.Run("drops noise blocks by class keywords", func(t *testing.T) {
		text, err := extractPageText(`<body><p>keep</p><div class="newsletter-signup">drop</div><div id="comments">drop too</div></body>`)
		require.NoError(t, err)
		assert.Equal(t, "keep", text)
	})
}
