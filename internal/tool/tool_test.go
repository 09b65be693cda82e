package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aether-ai/aether/pkg/types"
)

// fakeHost is a scripted session surface for dispatcher tests.
type fakeHost struct {
	files       map[string]string
	completion  string
	completeErr error
	lastSystem  string
	lastUser    string
}

func newFakeHost() *fakeHost {
	return &fakeHost{files: make(map[string]string)}
}

func (h *fakeHost) ListFiles() []string {
	names := make([]string, 0, len(h.files))
	for name := range h.files {
		names = append(names, name)
	}
	return names
}

func (h *fakeHost) ReadFile(filename string) (string, bool) {
	content, ok := h.files[filename]
	return content, ok
}

func (h *fakeHost) WriteFile(filename, content string) {
	h.files[filename] = content
}

func (h *fakeHost) Complete(_ context.Context, system, user string, _ int) (string, error) {
	h.lastSystem = system
	h.lastUser = user
	return h.completion, h.completeErr
}

func TestDefinitionsListsBuiltinTools(t *testing.T) {
	d := NewDispatcher()
	defs := d.Definitions()

	require.Len(t, defs, 7)

	names := make([]string, len(defs))
	for i, def := range defs {
		assert.Equal(t, "function", def.Type)
		names[i] = def.Function.Name
	}
	assert.Equal(t, []string{
		"get_weather", "web_search", "display_on_canvas", "generate_diagram",
		"list_files", "read_file", "write_file",
	}, names)
}

func TestExecuteWeather(t *testing.T) {
	d := NewDispatcher()

	result := d.Execute(context.Background(), "get_weather",
		map[string]any{"location": "Tokyo"}, newFakeHost())

	weather, ok := result.(types.WeatherResult)
	require.True(t, ok, "expected WeatherResult, got %T", result)
	assert.Equal(t, "Tokyo", weather.Location)
	assert.GreaterOrEqual(t, weather.Temperature, -10)
	assert.Less(t, weather.Temperature, 30)
	assert.Contains(t, weatherConditions, weather.Condition)
	assert.GreaterOrEqual(t, weather.Humidity, 0)
	assert.Less(t, weather.Humidity, 100)
}

func TestExecuteWeatherMissingLocation(t *testing.T) {
	d := NewDispatcher()

	result := d.Execute(context.Background(), "get_weather", map[string]any{}, newFakeHost())

	_, ok := result.(types.ErrorResult)
	assert.True(t, ok, "expected ErrorResult, got %T", result)
}

func TestExecuteCanvas(t *testing.T) {
	d := NewDispatcher()

	result := d.Execute(context.Background(), "display_on_canvas", map[string]any{
		"contentType": "markdown",
		"content":     "# Hello",
	}, newFakeHost())

	canvas, ok := result.(types.CanvasContent)
	require.True(t, ok, "expected CanvasContent, got %T", result)
	assert.Equal(t, "markdown", canvas.ContentType)
	assert.Equal(t, "# Hello", canvas.Content)
}

func TestExecuteGenerateDiagram(t *testing.T) {
	d := NewDispatcher()
	host := newFakeHost()
	host.completion = "graph TD\n  A --> B"

	result := d.Execute(context.Background(), "generate_diagram",
		map[string]any{"description": "a simple flow"}, host)

	canvas, ok := result.(types.CanvasContent)
	require.True(t, ok, "expected CanvasContent, got %T", result)
	assert.Equal(t, "mermaid", canvas.ContentType)
	assert.Equal(t, "graph TD\n  A --> B", canvas.Content)
	assert.Contains(t, host.lastUser, "a simple flow")
	assert.Contains(t, host.lastSystem, "Mermaid syntax expert")
}

func TestExecuteGenerateDiagramModelFailure(t *testing.T) {
	d := NewDispatcher()
	host := newFakeHost()
	host.completeErr = errors.New("upstream unavailable")

	result := d.Execute(context.Background(), "generate_diagram",
		map[string]any{"description": "a simple flow"}, host)

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok, "expected ErrorResult, got %T", result)
	assert.Equal(t, "upstream unavailable", errResult.Error)
}

func TestExecuteGenerateDiagramEmptySyntax(t *testing.T) {
	d := NewDispatcher()
	host := newFakeHost()
	host.completion = "   "

	result := d.Execute(context.Background(), "generate_diagram",
		map[string]any{"description": "a simple flow"}, host)

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok, "expected ErrorResult, got %T", result)
	assert.Equal(t, "Failed to generate diagram syntax.", errResult.Error)
}

func TestExecuteFileTools(t *testing.T) {
	d := NewDispatcher()
	host := newFakeHost()
	ctx := context.Background()

	result := d.Execute(ctx, "list_files", map[string]any{}, host)
	require.Equal(t, types.TextResult{Content: "The workspace is empty."}, result)

	result = d.Execute(ctx, "write_file", map[string]any{
		"filename": "notes.md",
		"content":  "remember the milk",
	}, host)
	require.Equal(t, types.TextResult{Content: `File "notes.md" has been written successfully.`}, result)

	result = d.Execute(ctx, "read_file", map[string]any{"filename": "notes.md"}, host)
	require.Equal(t, types.TextResult{Content: "remember the milk"}, result)

	result = d.Execute(ctx, "list_files", map[string]any{}, host)
	require.Equal(t, types.TextResult{Content: "Files in workspace:\n- notes.md"}, result)

	result = d.Execute(ctx, "read_file", map[string]any{"filename": "missing.md"}, host)
	require.Equal(t, types.ErrorResult{Error: "File not found: missing.md"}, result)
}

func TestExecuteUnknownToolWithoutMCP(t *testing.T) {
	d := NewDispatcher()

	result := d.Execute(context.Background(), "calculator_add",
		map[string]any{"a": 1, "b": 2}, newFakeHost())

	errResult, ok := result.(types.ErrorResult)
	require.True(t, ok, "expected ErrorResult, got %T", result)
	assert.Contains(t, errResult.Error, "calculator_add")
}
