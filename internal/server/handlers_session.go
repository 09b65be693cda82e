package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/internal/session"
	"github.com/aether-ai/aether/pkg/types"
)

// actorFor resolves the session actor for a request, creating the session
// on first contact.
func (s *Server) actorFor(r *http.Request) *session.Actor {
	return s.sessions.Get(chi.URLParam(r, "sessionID"))
}

// handleGetMessages returns the full session state snapshot.
func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.actorFor(r).Snapshot())
}

// handleGetFiles returns the session's workspace file map.
func (s *Server) handleGetFiles(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.actorFor(r).Files())
}

type chatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model,omitempty"`
	Stream  bool   `json:"stream,omitempty"`
}

// handleChat submits a user message. With stream=true the response body is
// a live stream of assistant text chunks that ends when the turn commits;
// otherwise it is the post-commit snapshot.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}

	actor := s.actorFor(r)

	if req.Stream {
		s.streamChat(w, r, actor, req)
		return
	}

	snap, err := actor.Submit(r.Context(), req.Message, session.SubmitOptions{Model: req.Model})
	if err != nil {
		writeSubmitError(w, err)
		return
	}
	writeData(w, http.StatusOK, snap)
}

// streamChat relays assistant chunks to the client as they arrive.
func (s *Server) streamChat(w http.ResponseWriter, r *http.Request, actor *session.Actor, req chatRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	_, err := actor.Submit(r.Context(), req.Message, session.SubmitOptions{
		Model: req.Model,
		Sink: func(chunk string) {
			if _, werr := w.Write([]byte(chunk)); werr != nil {
				logging.Debug().Err(werr).Msg("stream write failed")
				return
			}
			flusher.Flush()
		},
	})
	if err != nil {
		// Headers are already sent; the truncated body is the only signal.
		logging.Warn().Err(err).Msg("streamed submit rejected")
	}
}

// writeSubmitError maps actor submit errors to response envelopes.
func writeSubmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrEmptyMessage):
		writeError(w, http.StatusBadRequest, "Message is required")
	case errors.Is(err, session.ErrBusy):
		writeError(w, http.StatusTooManyRequests, "Session is already processing a message")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process message")
	}
}

// handleClear resets the session's messages, canvas and files.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.actorFor(r).Clear())
}

type modelRequest struct {
	Model string `json:"model"`
}

// handleUpdateModel swaps the session's selected model.
func (s *Server) handleUpdateModel(w http.ResponseWriter, r *http.Request) {
	var req modelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Model == "" {
		writeError(w, http.StatusBadRequest, "Model is required")
		return
	}
	writeData(w, http.StatusOK, s.actorFor(r).UpdateModel(req.Model))
}

type canvasRequest struct {
	Content *types.CanvasContent `json:"content"`
}

// handleUpdateCanvas overwrites canvas content directly. A null content
// clears the canvas.
func (s *Server) handleUpdateCanvas(w http.ResponseWriter, r *http.Request) {
	var req canvasRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeData(w, http.StatusOK, s.actorFor(r).SetCanvas(req.Content))
}
