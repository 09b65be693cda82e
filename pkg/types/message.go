// Package types defines the wire-visible data model shared by the session
// core and the HTTP transport.
package types

import "encoding/json"

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is one entry in a session's conversation history. Messages are
// immutable once appended to the session.
type Message struct {
	ID        string     `json:"id"`
	Role      Role       `json:"role"`
	Content   string     `json:"content"`
	Timestamp int64      `json:"timestamp"` // unix millis
	ToolCalls []ToolCall `json:"toolCalls,omitempty"`
}

// ToolCall records a single tool invocation requested by the model during a
// turn. Result stays nil until the dispatcher completes; after that the call
// and its containing message are immutable.
type ToolCall struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
	Result    ToolResult     `json:"result,omitempty"`
}

// rawToolCall mirrors ToolCall with the result left undecoded.
type rawToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments map[string]any  `json:"arguments"`
	Result    json.RawMessage `json:"result,omitempty"`
}

// UnmarshalJSON decodes the result field into its concrete ToolResult type.
func (tc *ToolCall) UnmarshalJSON(data []byte) error {
	var raw rawToolCall
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	tc.ID = raw.ID
	tc.Name = raw.Name
	tc.Arguments = raw.Arguments

	if len(raw.Result) > 0 && string(raw.Result) != "null" {
		result, err := UnmarshalToolResult(raw.Result)
		if err != nil {
			return err
		}
		tc.Result = result
	}

	return nil
}
