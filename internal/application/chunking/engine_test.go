package chunking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-writer-api/internal/config"
	"blog-writer-api/internal/llm"
)

// fakeClient counts tokens as len/4 and serves scripted responses.
type fakeClient struct {
	mu       sync.Mutex
	requests []*llm.Request
	generate func(req *llm.Request) (*llm.Response, error)
}

func (f *fakeClient) ProviderName() string             { return "fake" }
func (f *fakeClient) MaxContextTokens() int            { return 100 }
func (f *fakeClient) AvailableModels() []llm.ModelInfo { return nil }
func (f *fakeClient) CountTokens(text string) int      { return len(text) / 4 }

func (f *fakeClient) Generate(ctx context.Context, req *llm.Request) (*llm.Response, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	return f.generate(req)
}

func newEngine(client llm.Client) *Engine {
	return NewEngine(client, config.ChunkingConfig{
		ChunkSizeTokens:  50,
		ContextThreshold: 0.7,
		MapModel:         "map-model",
		ReduceModel:      "reduce-model",
	})
}

func TestNeedsChunking(t *testing.T) {
	e := newEngine(&fakeClient{})

	// threshold = 100 * 0.7 = 70 tokens, comparison is strictly greater
	assert.False(t, e.NeedsChunking(strings.Repeat("x", 280)))
	assert.True(t, e.NeedsChunking(strings.Repeat("x", 284)))
}

func TestSplitChunks(t *testing.T) {
	e := newEngine(&fakeClient{})

	t.Run("short content stays whole", func(t *testing.T) {
		chunks := e.SplitChunks("short text")
		require.Len(t, chunks, 1)
		assert.Equal(t, "short text", chunks[0])
	})

	t.Run("splits at paragraph boundary", func(t *testing.T) {
		paraA := "alpha " + strings.Repeat("a", 144)
		paraB := "beta " + strings.Repeat("b", 145)
		chunks := e.SplitChunks(paraA + "\n\n" + paraB)

		require.Len(t, chunks, 2)
		assert.Equal(t, paraA, chunks[0])
		assert.Equal(t, paraB, chunks[1])
	})

	t.Run("hard cut without boundaries", func(t *testing.T) {
		chunks := e.SplitChunks(strings.Repeat("x", 300))

		require.Len(t, chunks, 2)
		// char limit for 50 tokens at 4 chars/token
		assert.Len(t, chunks[0], 203)
		assert.Len(t, chunks[1], 97)
	})

	t.Run("hard cut lands on character boundaries", func(t *testing.T) {
		// 300 bytes of 3-byte runes, no split patterns and no spaces
		content := strings.Repeat("汉", 100)
		chunks := e.SplitChunks(content)

		require.GreaterOrEqual(t, len(chunks), 2)
		for _, c := range chunks {
			assert.True(t, utf8.ValidString(c))
		}
		assert.Equal(t, content, strings.Join(chunks, ""))
	})

	t.Run("splits at heading before paragraph", func(t *testing.T) {
		head := strings.Repeat("a", 100)
		tail := strings.Repeat("b", 150)
		chunks := e.SplitChunks(head + "\n## Section\n" + tail)

		require.Len(t, chunks, 2)
		assert.Equal(t, head, chunks[0])
		assert.Equal(t, "## Section\n"+tail, chunks[1])
	})
}

func TestMapReduce(t *testing.T) {
	paraA := "alpha " + strings.Repeat("a", 144)
	paraB := "beta " + strings.Repeat("b", 145)
	content := paraA + "\n\n" + paraB

	t.Run("concatenates summaries in chunk order", func(t *testing.T) {
		client := &fakeClient{}
		client.generate = func(req *llm.Request) (*llm.Response, error) {
			usage := map[string]int{"input_tokens": 10, "output_tokens": 5}
			if req.Model == "map-model" {
				word := strings.Fields(req.UserPrompt)[0]
				return &llm.Response{Content: "sum:" + word, Model: req.Model, Usage: usage}, nil
			}
			return &llm.Response{Content: "FINAL", Model: req.Model, Usage: usage}, nil
		}

		resp, err := newEngine(client).MapReduce(context.Background(), content, "MAP", "REDUCE")
		require.NoError(t, err)
		assert.Equal(t, "FINAL", resp.Content)

		// two map calls plus one reduce call
		require.Len(t, client.requests, 3)
		reduce := client.requests[2]
		assert.Equal(t, "REDUCE", reduce.SystemPrompt)
		assert.Equal(t, "reduce-model", reduce.Model)
		assert.Equal(t, "sum:alpha\n\n---\n\nsum:beta", reduce.UserPrompt)

		// map-stage usage is not surfaced, only the reduce call's
		assert.Equal(t, 10, resp.Usage["input_tokens"])
		assert.Equal(t, 5, resp.Usage["output_tokens"])
	})

	t.Run("two chunk prompt ends with the reduce text", func(t *testing.T) {
		// ~300 chars at 4 chars/token is 75 tokens: above the 70-token
		// threshold, split into two chunks at the paragraph break
		prompt := strings.Repeat("lorem ipsum dolor sit amet ", 5) + "\n\n" +
			strings.Repeat("consectetur adipiscing elit sed do ", 6)

		var calls atomic.Int64
		client := &fakeClient{}
		client.generate = func(req *llm.Request) (*llm.Response, error) {
			n := calls.Add(1)
			if req.Model == "map-model" {
				return &llm.Response{Content: fmt.Sprintf("Map %d", n)}, nil
			}
			return &llm.Response{Content: "Final result"}, nil
		}

		e := newEngine(client)
		require.True(t, e.NeedsChunking(prompt))
		require.GreaterOrEqual(t, len(e.SplitChunks(prompt)), 2)

		resp, err := e.MapReduce(context.Background(), prompt, "MAP", "REDUCE")
		require.NoError(t, err)
		assert.Equal(t, "Final result", resp.Content)
	})

	t.Run("map failure aborts the run", func(t *testing.T) {
		client := &fakeClient{}
		client.generate = func(req *llm.Request) (*llm.Response, error) {
			if strings.HasPrefix(req.UserPrompt, "beta") {
				return nil, errors.New("boom")
			}
			return &llm.Response{Content: "ok", Usage: map[string]int{}}, nil
		}

		_, err := newEngine(client).MapReduce(context.Background(), content, "MAP", "REDUCE")
		require.Error(t, err)
	})
}
