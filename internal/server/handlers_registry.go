package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/internal/session"
)

// handleListSessions lists session metadata, most recently active first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.sessions.List())
}

type createSessionRequest struct {
	SessionID    string `json:"sessionId,omitempty"`
	Title        string `json:"title,omitempty"`
	FirstMessage string `json:"firstMessage,omitempty"`
}

// handleCreateSession registers a session explicitly. An empty body is
// allowed; the ID and title are derived.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	info := s.sessions.Create(session.CreateOptions{
		SessionID:    req.SessionID,
		Title:        req.Title,
		FirstMessage: req.FirstMessage,
	})
	writeData(w, http.StatusOK, map[string]any{"sessionId": info.ID, "title": info.Title})
}

// handleDeleteSession removes one session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"deleted": true})
}

type renameSessionRequest struct {
	Title string `json:"title"`
}

// handleRenameSession updates a session's listing title.
func (s *Server) handleRenameSession(w http.ResponseWriter, r *http.Request) {
	var req renameSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}
	if !s.sessions.Rename(chi.URLParam(r, "sessionID"), req.Title) {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeData(w, http.StatusOK, map[string]any{"title": req.Title})
}

// handleDeleteAllSessions removes every session.
func (s *Server) handleDeleteAllSessions(w http.ResponseWriter, r *http.Request) {
	count := s.sessions.DeleteAll()
	writeData(w, http.StatusOK, map[string]any{"deletedCount": count})
}

// handleListTools returns the published tool schema surface: built-in
// tools plus MCP-contributed ones.
func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.tools.Definitions())
}

// handleHealth is the liveness endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleClientError accepts browser-side error reports and logs them.
func (s *Server) handleClientError(w http.ResponseWriter, r *http.Request) {
	var report map[string]any
	if !decodeJSON(w, r, &report) {
		return
	}
	logging.Error().Interface("report", report).Msg("client error")
	writeData(w, http.StatusOK, nil)
}
