package types

import "encoding/json"

// ToolResult is the tagged union of everything a tool execution can produce.
// The session actor matches on the concrete type instead of probing JSON
// shapes at runtime.
type ToolResult interface {
	ResultKind() string
}

// TextResult carries plain text output (web content, file listings, MCP
// tool output, confirmations).
type TextResult struct {
	Content string `json:"content"`
}

func (TextResult) ResultKind() string { return "text" }

// WeatherResult is the synthetic report produced by the get_weather tool.
type WeatherResult struct {
	Location    string `json:"location"`
	Temperature int    `json:"temperature"`
	Condition   string `json:"condition"`
	Humidity    int    `json:"humidity"`
}

func (WeatherResult) ResultKind() string { return "weather" }

// CanvasContent is a rich artifact surfaced on the UI canvas panel. It is
// both a tool result (display_on_canvas, generate_diagram) and the session's
// sticky canvas state.
type CanvasContent struct {
	ContentType string `json:"contentType"` // "markdown", "code", "mermaid", ...
	Content     string `json:"content"`
}

func (CanvasContent) ResultKind() string { return "canvas" }

// ErrorResult marks a failed tool execution. The turn still commits; the
// failure is visible to the user on the tool-call entry.
type ErrorResult struct {
	Error string `json:"error"`
}

func (ErrorResult) ResultKind() string { return "error" }

// UnmarshalToolResult decodes a JSON tool result into its concrete type.
// The wire shapes are disjoint by field set, so the discriminating fields
// are probed in order of specificity.
func UnmarshalToolResult(data []byte) (ToolResult, error) {
	var probe struct {
		Error       *string `json:"error"`
		ContentType *string `json:"contentType"`
		Temperature *int    `json:"temperature"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}

	switch {
	case probe.Error != nil:
		var r ErrorResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case probe.ContentType != nil:
		var r CanvasContent
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case probe.Temperature != nil:
		var r WeatherResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	default:
		var r TextResult
		if err := json.Unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	}
}
