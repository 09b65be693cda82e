// Package tool implements the built-in tool surface available to chat
// sessions and dispatches tool calls by name. Unrecognized names are
// delegated to connected MCP servers.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/internal/mcp"
	"github.com/aether-ai/aether/pkg/types"
)

// Host is the session-side surface tools operate on. ListFiles, ReadFile
// and WriteFile address the session's virtual workspace; Complete runs a
// one-shot completion against the session's current model.
type Host interface {
	ListFiles() []string
	ReadFile(filename string) (string, bool)
	WriteFile(filename, content string)
	Complete(ctx context.Context, system, user string, maxTokens int) (string, error)
}

// Dispatcher routes tool calls to their implementations. Execution never
// returns a Go error; every failure is reported to the model as an
// ErrorResult so a bad tool call cannot abort a turn.
type Dispatcher struct {
	search *searchClient
	mcp    *mcp.Client
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSerpAPIKey enables real web search through SerpAPI.
func WithSerpAPIKey(key string) Option {
	return func(d *Dispatcher) { d.search.apiKey = key }
}

// WithMCP delegates unrecognized tool names to the given MCP client.
func WithMCP(client *mcp.Client) Option {
	return func(d *Dispatcher) { d.mcp = client }
}

// NewDispatcher creates a tool dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{search: newSearchClient()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Definitions returns the tool schemas published to the model: the built-in
// tools followed by any tools contributed by connected MCP servers.
func (d *Dispatcher) Definitions() []types.ToolDefinition {
	defs := make([]types.ToolDefinition, len(builtinTools))
	copy(defs, builtinTools)
	if d.mcp != nil {
		defs = append(defs, d.mcp.ToolDefinitions()...)
	}
	return defs
}

// Execute runs the named tool with the given arguments against the host
// session. The result is always a usable ToolResult.
func (d *Dispatcher) Execute(ctx context.Context, name string, args map[string]any, host Host) types.ToolResult {
	result := d.execute(ctx, name, args, host)
	if errResult, ok := result.(types.ErrorResult); ok {
		logging.Debug().Str("tool", name).Str("error", errResult.Error).Msg("tool call failed")
	}
	return result
}

func (d *Dispatcher) execute(ctx context.Context, name string, args map[string]any, host Host) types.ToolResult {
	switch name {
	case "get_weather":
		location, ok := stringArg(args, "location")
		if !ok {
			return errorResult("location parameter is required")
		}
		return syntheticWeather(location)

	case "web_search":
		return d.search.run(ctx, args)

	case "display_on_canvas":
		contentType, ok := stringArg(args, "contentType")
		if !ok {
			return errorResult("contentType parameter is required")
		}
		content, ok := stringArg(args, "content")
		if !ok {
			return errorResult("content parameter is required")
		}
		return types.CanvasContent{ContentType: contentType, Content: content}

	case "generate_diagram":
		return generateDiagram(ctx, args, host)

	case "list_files":
		return listFiles(host)

	case "read_file":
		return readFile(args, host)

	case "write_file":
		return writeFile(args, host)

	default:
		return d.executeMCP(ctx, name, args)
	}
}

// executeMCP forwards a tool call to connected MCP servers.
func (d *Dispatcher) executeMCP(ctx context.Context, name string, args map[string]any) types.ToolResult {
	if d.mcp == nil {
		return errorResult(fmt.Sprintf("unknown tool: %s", name))
	}

	raw, err := json.Marshal(args)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode arguments: %v", err))
	}

	output, err := d.mcp.ExecuteTool(ctx, name, raw)
	if err != nil {
		return errorResult(err.Error())
	}
	return types.TextResult{Content: output}
}

func errorResult(msg string) types.ErrorResult {
	return types.ErrorResult{Error: msg}
}

// stringArg extracts a non-empty string argument.
func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// intArg extracts an integer argument. JSON numbers decode as float64.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}
