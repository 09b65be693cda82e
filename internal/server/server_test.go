package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/pkg/types"
)

// fakeModel is a canned model client for transport tests.
type fakeModel struct {
	content string
	chunks  []string
}

func (f *fakeModel) ID() string { return "gateway" }

func (f *fakeModel) Complete(_ context.Context, _ *provider.CompletionRequest) (*schema.Message, error) {
	return &schema.Message{Role: schema.Assistant, Content: f.content}, nil
}

func (f *fakeModel) Stream(_ context.Context, _ *provider.CompletionRequest) (provider.Stream, error) {
	chunks := make([]*schema.Message, len(f.chunks))
	for i, c := range f.chunks {
		chunks[i] = &schema.Message{Role: schema.Assistant, Content: c}
	}
	return &fakeStream{chunks: chunks}, nil
}

type fakeStream struct {
	chunks []*schema.Message
}

func (s *fakeStream) Recv() (*schema.Message, error) {
	if len(s.chunks) == 0 {
		return nil, io.EOF
	}
	chunk := s.chunks[0]
	s.chunks = s.chunks[1:]
	return chunk, nil
}

func (s *fakeStream) Close() {}

func newTestServer(t *testing.T, model *fakeModel) *Server {
	t.Helper()
	reg := provider.NewRegistry()
	reg.Register(model)
	cfg := DefaultConfig()
	cfg.EnableCORS = false
	return New(cfg, &types.Config{Model: "gateway/test-model"}, reg, nil)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

type snapshotEnvelope struct {
	Success bool           `json:"success"`
	Data    types.Snapshot `json:"data"`
	Error   string         `json:"error"`
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) types.Snapshot {
	t.Helper()
	var env snapshotEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, "expected success envelope, got error: %s", env.Error)
	return env.Data
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}

func TestChatNonStreaming(t *testing.T) {
	s := newTestServer(t, &fakeModel{content: "Hi there!"})

	rec := doJSON(t, s, http.MethodPost, "/api/chat/sess-1/chat", map[string]any{"message": "Hello"})
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "sess-1", snap.SessionID)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Hello", snap.Messages[0].Content)
	assert.Equal(t, "Hi there!", snap.Messages[1].Content)
	assert.False(t, snap.IsProcessing)
}

func TestChatEmptyMessageRejected(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodPost, "/api/chat/sess-1/chat", map[string]any{"message": "  "})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	// turn never started
	rec = doJSON(t, s, http.MethodGet, "/api/chat/sess-1/messages", nil)
	snap := decodeSnapshot(t, rec)
	assert.Empty(t, snap.Messages)
}

func TestChatMalformedJSON(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat/sess-1/chat", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatStreaming(t *testing.T) {
	s := newTestServer(t, &fakeModel{chunks: []string{"Hel", "lo ", "world"}})

	rec := doJSON(t, s, http.MethodPost, "/api/chat/sess-1/chat",
		map[string]any{"message": "greet me", "stream": true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello world", rec.Body.String())

	// turn committed behind the stream
	rec = doJSON(t, s, http.MethodGet, "/api/chat/sess-1/messages", nil)
	snap := decodeSnapshot(t, rec)
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Hello world", snap.Messages[1].Content)
}

func TestModelUpdate(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodPost, "/api/chat/sess-1/model", map[string]any{"model": "gateway/gpt-4o"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gateway/gpt-4o", decodeSnapshot(t, rec).Model)

	rec = doJSON(t, s, http.MethodPost, "/api/chat/sess-1/model", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCanvasUpdateAndClear(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodPost, "/api/chat/sess-1/canvas", map[string]any{
		"content": map[string]string{"contentType": "markdown", "content": "# Hi"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.NotNil(t, snap.CanvasContent)
	assert.Equal(t, "# Hi", snap.CanvasContent.Content)

	rec = doJSON(t, s, http.MethodPost, "/api/chat/sess-1/canvas", map[string]any{"content": nil})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeSnapshot(t, rec).CanvasContent)
}

func TestClearSession(t *testing.T) {
	s := newTestServer(t, &fakeModel{content: "ok"})

	doJSON(t, s, http.MethodPost, "/api/chat/sess-1/chat", map[string]any{"message": "hi"})

	rec := doJSON(t, s, http.MethodDelete, "/api/chat/sess-1/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeSnapshot(t, rec).Messages)
}

func TestGetFiles(t *testing.T) {
	s := newTestServer(t, &fakeModel{})
	s.sessions.Get("sess-1").WriteFile("a.txt", "hello")

	rec := doJSON(t, s, http.MethodGet, "/api/chat/sess-1/files", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool              `json:"success"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, map[string]string{"a.txt": "hello"}, env.Data)
}

func TestSessionRegistryLifecycle(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodPost, "/api/sessions/", map[string]any{"title": "Research"})
	require.Equal(t, http.StatusOK, rec.Code)

	var created struct {
		Data struct {
			SessionID string `json:"sessionId"`
			Title     string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Research", created.Data.Title)
	id := created.Data.SessionID
	require.NotEmpty(t, id)

	rec = doJSON(t, s, http.MethodGet, "/api/sessions/", nil)
	var listed struct {
		Data []types.SessionInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)

	rec = doJSON(t, s, http.MethodPut, "/api/sessions/"+id+"/title", map[string]any{"title": "Renamed"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodDelete, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListTools(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodGet, "/api/tools", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data []types.ToolDefinition `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Len(t, env.Data, 7)
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	s := newTestServer(t, &fakeModel{})

	rec := doJSON(t, s, http.MethodGet, "/api/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
