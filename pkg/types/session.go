package types

// Snapshot is the full serialized view of one session's state, returned by
// the transport adapter to callers.
type Snapshot struct {
	SessionID        string            `json:"sessionId"`
	Messages         []Message         `json:"messages"`
	IsProcessing     bool              `json:"isProcessing"`
	StreamingMessage string            `json:"streamingMessage,omitempty"`
	Model            string            `json:"model"`
	CanvasContent    *CanvasContent    `json:"canvasContent"`
	Files            map[string]string `json:"files"`
}

// SessionInfo is the registry's metadata record for a session.
type SessionInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	CreatedAt  int64  `json:"createdAt"`
	LastActive int64  `json:"lastActive"`
}

// ToolDefinition describes one tool in the schema surface published to the
// model. Compatible with OpenAI-style function tool declarations.
type ToolDefinition struct {
	Type     string       `json:"type"` // always "function"
	Function ToolFunction `json:"function"`
}

// ToolFunction holds the name, description and JSON Schema parameters of a
// tool.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}
