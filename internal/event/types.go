package event

import "github.com/aether-ai/aether/pkg/types"

// EventType represents the type of event.
type EventType string

const (
	SessionCreated EventType = "session.created"
	SessionCleared EventType = "session.cleared"
	SessionDeleted EventType = "session.deleted"
	MessageCreated EventType = "message.created"
	TurnCommitted  EventType = "turn.committed"
	StreamDelta    EventType = "stream.delta"
	CanvasUpdated  EventType = "canvas.updated"
	FileWritten    EventType = "file.written"
	ModelUpdated   EventType = "model.updated"
)

// Event represents an event to be published.
type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// SessionCreatedData is emitted when the registry creates a session.
type SessionCreatedData struct {
	Info *types.SessionInfo `json:"info"`
}

// SessionClearedData is emitted when a session's state is reset.
type SessionClearedData struct {
	SessionID string `json:"sessionId"`
}

// SessionDeletedData is emitted when the registry removes a session.
type SessionDeletedData struct {
	Info *types.SessionInfo `json:"info"`
}

// MessageCreatedData is emitted when a message is appended to a session.
type MessageCreatedData struct {
	SessionID string         `json:"sessionId"`
	Message   *types.Message `json:"message"`
}

// TurnCommittedData is emitted when an assistant turn commits.
type TurnCommittedData struct {
	SessionID string         `json:"sessionId"`
	Message   *types.Message `json:"message"`
	Degraded  bool           `json:"degraded,omitempty"`
}

// StreamDeltaData carries one streamed chunk of assistant text.
type StreamDeltaData struct {
	SessionID string `json:"sessionId"`
	Delta     string `json:"delta"`
}

// CanvasUpdatedData is emitted when canvas content is replaced.
type CanvasUpdatedData struct {
	SessionID string               `json:"sessionId"`
	Content   *types.CanvasContent `json:"content"`
}

// FileWrittenData is emitted when the write_file tool mutates the workspace.
type FileWrittenData struct {
	SessionID string `json:"sessionId"`
	Path      string `json:"path"`
	Bytes     int    `json:"bytes"`
}

// ModelUpdatedData is emitted when the session's selected model changes.
type ModelUpdatedData struct {
	SessionID string `json:"sessionId"`
	Model     string `json:"model"`
}
