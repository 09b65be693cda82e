package tool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/pkg/types"
)

func TestWebSearchFetchURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><head><script>ignored()</script></head><body><h1>Title</h1><p>Some body text.</p></body></html>`))
	}))
	defer server.Close()

	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"url": server.URL}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok, "expected TextResult, got %T", result)
	assert.Contains(t, text.Content, "Content from "+server.URL)
	assert.Contains(t, text.Content, "Title")
	assert.Contains(t, text.Content, "Some body text.")
	assert.NotContains(t, text.Content, "ignored()")
}

func TestWebSearchFetchTruncatesLongContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(strings.Repeat("a", 10000)))
	}))
	defer server.Close()

	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"url": server.URL}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(text.Content, "..."))
	assert.LessOrEqual(t, len(text.Content), maxContentLength+len("Content from :\n\n...")+len(server.URL))
}

func TestWebSearchFetchRejectsNonText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x00, 0x01})
	}))
	defer server.Close()

	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"url": server.URL}, newFakeHost())

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok, "expected ErrorResult, got %T", result)
	assert.Contains(t, errResult.Error, "Failed to fetch")
}

func TestWebSearchFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"url": server.URL}, newFakeHost())

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errResult.Error, "HTTP 404")
}

func TestWebSearchInvalidURL(t *testing.T) {
	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"url": "not a url"}, newFakeHost())

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok)
	assert.Contains(t, errResult.Error, "invalid URL")
}

func TestWebSearchWithoutAPIKeySuggestsFallback(t *testing.T) {
	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search",
		map[string]any{"query": "golang generics"}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok, "expected TextResult, got %T", result)
	assert.Contains(t, text.Content, "SerpAPI")
	assert.Contains(t, text.Content, "https://www.google.com/search?q=golang+generics")
}

func TestWebSearchFormatsSerpResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "go testing", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"knowledge_graph": {"title": "Go", "description": "A programming language.", "source": {"link": "https://go.dev"}},
			"organic_results": [
				{"title": "Testing in Go", "link": "https://example.com/a", "snippet": "How to test."},
				{"title": "More testing", "link": "https://example.com/b"}
			]
		}`))
	}))
	defer server.Close()

	d := NewDispatcher(WithSerpAPIKey("test-key"))
	d.search.baseURL = server.URL

	result := d.Execute(context.Background(), "web_search",
		map[string]any{"query": "go testing", "num_results": float64(5)}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok, "expected TextResult, got %T", result)
	assert.Contains(t, text.Content, `Search results for "go testing"`)
	assert.Contains(t, text.Content, "**Go**\nA programming language.")
	assert.Contains(t, text.Content, "Source: https://go.dev")
	assert.Contains(t, text.Content, "1. **Testing in Go**")
	assert.Contains(t, text.Content, "   Link: https://example.com/a")
	assert.Contains(t, text.Content, "2. **More testing**")
}

func TestWebSearchAPIErrorDegradesToSuggestion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d := NewDispatcher(WithSerpAPIKey("test-key"))
	d.search.baseURL = server.URL

	result := d.Execute(context.Background(), "web_search",
		map[string]any{"query": "anything"}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok, "expected TextResult, got %T", result)
	assert.Contains(t, text.Content, "Search failed: API error")
	assert.Contains(t, text.Content, "https://www.google.com/search?q=anything")
}

func TestWebSearchNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	d := NewDispatcher(WithSerpAPIKey("test-key"))
	d.search.baseURL = server.URL

	result := d.Execute(context.Background(), "web_search",
		map[string]any{"query": "obscure"}, newFakeHost())

	text, ok := result.(types.TextResult)
	require.True(t, ok)
	assert.Contains(t, text.Content, `No results found for "obscure"`)
}

func TestWebSearchNeitherQueryNorURL(t *testing.T) {
	d := NewDispatcher()
	result := d.Execute(context.Background(), "web_search", map[string]any{}, newFakeHost())

	require.Equal(t, types.ErrorResult{Error: "Either query or url parameter is required"}, result)
}
