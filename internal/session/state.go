// Package session implements the per-conversation orchestration core: the
// session state container, the actor that drives the model/tool cycle, and
// the manager that owns one actor per live session ID.
package session

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aether-ai/aether/pkg/types"
)

// state is the single source of truth for one conversation. It is owned
// exclusively by its Actor and only touched under the actor's mutex.
type state struct {
	sessionID        string
	messages         []types.Message
	isProcessing     bool
	streamingMessage string
	model            string
	canvasContent    *types.CanvasContent
	files            map[string]string
}

func newState(sessionID, model string) *state {
	return &state{
		sessionID: sessionID,
		model:     model,
		files:     make(map[string]string),
	}
}

// appendMessage adds a message to the history. Messages are immutable once
// appended; the history only ever grows, except for a full clear.
func (s *state) appendMessage(m types.Message) {
	s.messages = append(s.messages, m)
}

// clear resets messages, canvas and files. The session ID and selected
// model survive a clear.
func (s *state) clear() {
	s.messages = nil
	s.canvasContent = nil
	s.files = make(map[string]string)
	s.streamingMessage = ""
}

// fileNames returns the workspace paths in sorted order.
func (s *state) fileNames() []string {
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// snapshot produces a deep copy safe to hand outside the actor.
func (s *state) snapshot() *types.Snapshot {
	messages := make([]types.Message, len(s.messages))
	copy(messages, s.messages)

	files := make(map[string]string, len(s.files))
	for name, content := range s.files {
		files[name] = content
	}

	var canvas *types.CanvasContent
	if s.canvasContent != nil {
		c := *s.canvasContent
		canvas = &c
	}

	return &types.Snapshot{
		SessionID:        s.sessionID,
		Messages:         messages,
		IsProcessing:     s.isProcessing,
		StreamingMessage: s.streamingMessage,
		Model:            s.model,
		CanvasContent:    canvas,
		Files:            files,
	}
}

// newMessage builds a message with a fresh UUID and the current time.
func newMessage(role types.Role, content string, toolCalls []types.ToolCall) types.Message {
	return types.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UnixMilli(),
		ToolCalls: toolCalls,
	}
}
