package session

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/aether-ai/aether/internal/event"
	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/internal/provider"
	"github.com/aether-ai/aether/internal/tool"
	"github.com/aether-ai/aether/pkg/types"
)

var (
	// ErrBusy is returned when a submit arrives while a turn is in flight.
	ErrBusy = errors.New("session is already processing a message")

	// ErrEmptyMessage is returned for a blank user message.
	ErrEmptyMessage = errors.New("message is required")
)

// apologyMessage is committed as the assistant turn when the model call
// fails. The turn carries no partial content and no tool calls.
const apologyMessage = "Sorry, I encountered an error processing your request."

const systemPrompt = `You are Aether, a helpful AI assistant with access to tools.
Use display_on_canvas to present rich content such as markdown documents or code, and generate_diagram to create Mermaid diagrams on the canvas.
Use list_files, read_file and write_file to manage the session's project workspace.`

// canvasTools are the tool names whose results can replace the canvas.
var canvasTools = map[string]bool{
	"display_on_canvas": true,
	"generate_diagram":  true,
}

// Actor owns one session's state and drives the model/tool cycle for it.
// A mutex serializes every state-mutating section so that exactly one turn,
// clear or model swap touches the state at a time. The model call and tool
// execution run outside the lock; the isProcessing flag keeps a second turn
// from starting while one is in flight.
type Actor struct {
	id        string
	providers *provider.Registry
	tools     *tool.Dispatcher

	mu    sync.Mutex
	state *state
}

// NewActor creates an actor for the given session ID with empty state.
func NewActor(id, model string, providers *provider.Registry, tools *tool.Dispatcher) *Actor {
	return &Actor{
		id:        id,
		providers: providers,
		tools:     tools,
		state:     newState(id, model),
	}
}

// ID returns the session identifier.
func (a *Actor) ID() string {
	return a.id
}

// SubmitOptions carries the optional parts of a submit call.
type SubmitOptions struct {
	// Model overrides the session's selected model before the turn starts.
	// The swap commits even if the turn later fails.
	Model string

	// Sink, when non-nil, receives assistant text chunks in arrival order
	// while the turn runs.
	Sink func(chunk string)
}

// Submit runs one full turn: append the user message, invoke the model with
// the published tool schemas, execute any requested tool calls, then commit
// a single assistant message. Model failure degrades the turn to an apology
// message; it never leaves the session half-written.
func (a *Actor) Submit(ctx context.Context, userText string, opts SubmitOptions) (*types.Snapshot, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		return nil, ErrEmptyMessage
	}

	a.mu.Lock()
	if a.state.isProcessing {
		a.mu.Unlock()
		return nil, ErrBusy
	}
	if opts.Model != "" && opts.Model != a.state.model {
		a.state.model = opts.Model
		event.Publish(event.Event{Type: event.ModelUpdated, Data: &event.ModelUpdatedData{SessionID: a.id, Model: opts.Model}})
	}
	userMsg := newMessage(types.RoleUser, userText, nil)
	a.state.appendMessage(userMsg)
	a.state.isProcessing = true
	a.state.streamingMessage = ""
	model := a.state.model
	history := make([]types.Message, len(a.state.messages))
	copy(history, a.state.messages)
	a.mu.Unlock()

	event.Publish(event.Event{Type: event.MessageCreated, Data: &event.MessageCreatedData{SessionID: a.id, Message: &userMsg}})

	assistant, degraded := a.runTurn(ctx, model, history, opts.Sink)

	a.mu.Lock()
	a.state.appendMessage(assistant)
	a.state.isProcessing = false
	a.state.streamingMessage = ""

	var canvas *types.CanvasContent
	if c := extractCanvas(assistant.ToolCalls); c != nil {
		a.state.canvasContent = c
		canvas = c
	}
	snap := a.state.snapshot()
	a.mu.Unlock()

	if canvas != nil {
		event.Publish(event.Event{Type: event.CanvasUpdated, Data: &event.CanvasUpdatedData{SessionID: a.id, Content: canvas}})
	}
	event.Publish(event.Event{Type: event.TurnCommitted, Data: &event.TurnCommittedData{SessionID: a.id, Message: &assistant, Degraded: degraded}})

	return snap, nil
}

// runTurn performs the single model round and tool execution for a turn.
// It returns the assistant message to commit and whether the turn degraded.
func (a *Actor) runTurn(ctx context.Context, model string, history []types.Message, sink func(string)) (types.Message, bool) {
	client, modelID, err := a.providers.Resolve(model)
	if err != nil {
		return a.degrade(err, sink)
	}

	req := &provider.CompletionRequest{
		Model:    modelID,
		Messages: historyToSchema(history),
		Tools:    provider.ToolInfos(a.tools.Definitions()),
	}

	var response *schema.Message
	if sink != nil {
		response, err = a.streamRound(ctx, client, req, sink)
	} else {
		response, err = client.Complete(ctx, req)
	}
	if err != nil {
		return a.degrade(err, sink)
	}

	toolCalls := a.executeToolCalls(ctx, response.ToolCalls)
	return newMessage(types.RoleAssistant, response.Content, toolCalls), false
}

// streamRound drains the model stream, relaying each content chunk to the
// state accumulator and the sink before awaiting the next one, then merges
// the chunks into the finalized response.
func (a *Actor) streamRound(ctx context.Context, client provider.Client, req *provider.CompletionRequest, sink func(string)) (*schema.Message, error) {
	stream, err := client.Stream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var chunks []*schema.Message
	for {
		chunk, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			a.mu.Lock()
			a.state.streamingMessage += chunk.Content
			a.mu.Unlock()
			sink(chunk.Content)
			event.Publish(event.Event{Type: event.StreamDelta, Data: &event.StreamDeltaData{SessionID: a.id, Delta: chunk.Content}})
		}
	}

	if len(chunks) == 0 {
		return &schema.Message{Role: schema.Assistant}, nil
	}
	return schema.ConcatMessages(chunks)
}

// executeToolCalls runs the requested tool invocations in order and
// attaches each result. Calls are independent within the round; a failed
// tool yields an error result on its call, never an aborted turn.
func (a *Actor) executeToolCalls(ctx context.Context, requested []schema.ToolCall) []types.ToolCall {
	if len(requested) == 0 {
		return nil
	}

	calls := make([]types.ToolCall, 0, len(requested))
	for _, rc := range requested {
		args := make(map[string]any)
		if rc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(rc.Function.Arguments), &args); err != nil {
				logging.Warn().Err(err).Str("tool", rc.Function.Name).Msg("malformed tool arguments")
			}
		}

		call := types.ToolCall{
			ID:        rc.ID,
			Name:      rc.Function.Name,
			Arguments: args,
		}
		call.Result = a.tools.Execute(ctx, call.Name, call.Arguments, a)
		calls = append(calls, call)
	}
	return calls
}

// degrade builds the apology assistant message after a model failure.
func (a *Actor) degrade(cause error, sink func(string)) (types.Message, bool) {
	logging.Error().Err(cause).Str("session", a.id).Msg("model call failed")
	if sink != nil {
		sink(apologyMessage)
	}
	return newMessage(types.RoleAssistant, apologyMessage, nil), true
}

// extractCanvas scans a turn's tool calls in reverse and returns the result
// of the last canvas-producing call, or nil when the turn has none.
func extractCanvas(calls []types.ToolCall) *types.CanvasContent {
	for i := len(calls) - 1; i >= 0; i-- {
		if !canvasTools[calls[i].Name] {
			continue
		}
		if c, ok := calls[i].Result.(types.CanvasContent); ok {
			return &c
		}
	}
	return nil
}

// historyToSchema converts the session history to model messages, prefixed
// with the system prompt.
func historyToSchema(history []types.Message) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+1)
	messages = append(messages, schema.SystemMessage(systemPrompt))
	for _, m := range history {
		switch m.Role {
		case types.RoleUser:
			messages = append(messages, schema.UserMessage(m.Content))
		case types.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(m.Content, nil))
		case types.RoleSystem:
			messages = append(messages, schema.SystemMessage(m.Content))
		}
	}
	return messages
}

// Clear resets messages, canvas and files while keeping the session alive.
func (a *Actor) Clear() *types.Snapshot {
	a.mu.Lock()
	a.state.clear()
	snap := a.state.snapshot()
	a.mu.Unlock()

	event.Publish(event.Event{Type: event.SessionCleared, Data: &event.SessionClearedData{SessionID: a.id}})
	return snap
}

// UpdateModel swaps the selected model. An in-flight turn keeps the model
// it already resolved; the swap applies to subsequent turns.
func (a *Actor) UpdateModel(model string) *types.Snapshot {
	a.mu.Lock()
	a.state.model = model
	snap := a.state.snapshot()
	a.mu.Unlock()

	event.Publish(event.Event{Type: event.ModelUpdated, Data: &event.ModelUpdatedData{SessionID: a.id, Model: model}})
	return snap
}

// SetCanvas overwrites the canvas directly, bypassing the extraction rule.
// Used when the caller edits canvas content itself. A nil content clears
// the canvas.
func (a *Actor) SetCanvas(content *types.CanvasContent) *types.Snapshot {
	a.mu.Lock()
	a.state.canvasContent = content
	snap := a.state.snapshot()
	a.mu.Unlock()

	event.Publish(event.Event{Type: event.CanvasUpdated, Data: &event.CanvasUpdatedData{SessionID: a.id, Content: content}})
	return snap
}

// Snapshot returns a deep copy of the current state.
func (a *Actor) Snapshot() *types.Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.snapshot()
}

// Files returns a copy of the workspace map.
func (a *Actor) Files() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	files := make(map[string]string, len(a.state.files))
	for name, content := range a.state.files {
		files[name] = content
	}
	return files
}

// ListFiles returns the workspace paths in sorted order.
func (a *Actor) ListFiles() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.fileNames()
}

// ReadFile returns a file's content and whether it exists.
func (a *Actor) ReadFile(filename string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	content, ok := a.state.files[filename]
	return content, ok
}

// WriteFile creates or overwrites a workspace file. Last write wins.
func (a *Actor) WriteFile(filename, content string) {
	a.mu.Lock()
	a.state.files[filename] = content
	a.mu.Unlock()

	event.Publish(event.Event{Type: event.FileWritten, Data: &event.FileWrittenData{SessionID: a.id, Path: filename, Bytes: len(content)}})
}

// Complete runs a one-shot completion against the session's current model.
// Used by tools that need an independent model call, such as diagram
// generation.
func (a *Actor) Complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	a.mu.Lock()
	model := a.state.model
	a.mu.Unlock()

	client, modelID, err := a.providers.Resolve(model)
	if err != nil {
		return "", err
	}

	response, err := client.Complete(ctx, &provider.CompletionRequest{
		Model: modelID,
		Messages: []*schema.Message{
			schema.SystemMessage(system),
			schema.UserMessage(user),
		},
		MaxTokens: maxTokens,
	})
	if err != nil {
		return "", err
	}
	return response.Content, nil
}
