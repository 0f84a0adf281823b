package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-writer-api/internal/config"
	apperrors "blog-writer-api/pkg/errors"
)

const arxivFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Attention Is
 All You Need</title>
    <summary>  We propose the Transformer architecture.
</summary>
    <published>2023-01-17T18:59:59Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <category term="cs.CL"/>
    <category term="cs.LG"/>
    <link href="http://arxiv.org/abs/2301.07041v1" rel="alternate" type="text/html"/>
    <link title="pdf" href="http://arxiv.org/pdf/2301.07041v1" rel="related" type="application/pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2302.00001v2</id>
    <title>Second Paper</title>
    <summary>Second abstract.</summary>
    <published>2023-02-01T00:00:00Z</published>
    <author><name>Solo Author</name></author>
    <category term="cs.AI"/>
  </entry>
</feed>`

const arxivEmptyFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry><id></id></entry>
</feed>`

func newArxivServer(t *testing.T, body string, capture *map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			params := map[string]string{}
			for key := range r.URL.Query() {
				params[key] = r.URL.Query().Get(key)
			}
			*capture = params
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetchByID(t *testing.T) {
	ctx := context.Background()

	t.Run("parses entry fields", func(t *testing.T) {
		var params map[string]string
		server := newArxivServer(t, arxivFixture, &params)
		client := NewArxivClient(config.ArxivConfig{Endpoint: server.URL})

		paper, err := client.FetchByID(ctx, "2301.07041")
		require.NoError(t, err)

		assert.Equal(t, "2301.07041", params["id_list"])
		assert.Equal(t, "2301.07041v1", paper.ID)
		assert.Equal(t, "Attention Is All You Need", paper.Title)
		assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, paper.Authors)
		assert.Equal(t, "We propose the Transformer architecture.", paper.Abstract)
		assert.Equal(t, []string{"cs.CL", "cs.LG"}, paper.Categories)
		assert.Equal(t, "2023-01-17T18:59:59Z", paper.Published)
		assert.Equal(t, "http://arxiv.org/pdf/2301.07041v1", paper.PDFURL)
		assert.Equal(t, "http://arxiv.org/abs/2301.07041v1", paper.URL)
	})

	t.Run("empty feed means not found", func(t *testing.T) {
		server := newArxivServer(t, arxivEmptyFixture, nil)
		client := NewArxivClient(config.ArxivConfig{Endpoint: server.URL})

		_, err := client.FetchByID(ctx, "9999.00000")
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeSourceFailed))
	})

	t.Run("http error surfaces", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(server.Close)
		client := NewArxivClient(config.ArxivConfig{Endpoint: server.URL})

		_, err := client.FetchByID(ctx, "2301.07041")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 503")
	})
}

func TestFetchRecent(t *testing.T) {
	ctx := context.Background()

	t.Run("builds category query sorted by submission date", func(t *testing.T) {
		var params map[string]string
		server := newArxivServer(t, arxivFixture, &params)
		client := NewArxivClient(config.ArxivConfig{Endpoint: server.URL})

		papers, err := client.FetchRecent(ctx, []string{"cs.CL", "cs.LG"}, 10)
		require.NoError(t, err)

		assert.Equal(t, "cat:cs.CL OR cat:cs.LG", params["search_query"])
		assert.Equal(t, "submittedDate", params["sortBy"])
		assert.Equal(t, "descending", params["sortOrder"])
		assert.Equal(t, "10", params["max_results"])

		require.Len(t, papers, 2)
		assert.Equal(t, "2301.07041v1", papers[0].ID)
		assert.Equal(t, "2302.00001v2", papers[1].ID)
	})

	t.Run("defaults max results to page size", func(t *testing.T) {
		var params map[string]string
		server := newArxivServer(t, arxivFixture, &params)
		client := NewArxivClient(config.ArxivConfig{Endpoint: server.URL, PageSize: 25})

		_, err := client.FetchRecent(ctx, []string{"cs.AI"}, 0)
		require.NoError(t, err)
		assert.Equal(t, "25", params["max_results"])
	})

	t.Run("requires categories", func(t *testing.T) {
		client := NewArxivClient(config.ArxivConfig{})
		_, err := client.FetchRecent(ctx, nil, 10)
		require.Error(t, err)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeSourceFailed))
	})
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "2301.07041v1", shortID("http://arxiv.org/abs/2301.07041v1"))
	assert.Equal(t, "hep-th/9901001v2", shortID("http://arxiv.org/abs/hep-th/9901001v2"))
	assert.Equal(t, "2301.07041", shortID("2301.07041"))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "one two three", normalizeWhitespace("  one\n two\t\tthree "))
}
