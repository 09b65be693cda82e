package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aether-ai/aether/internal/event"
	"github.com/aether-ai/aether/internal/logging"
)

// sseHeartbeatInterval is the interval for SSE heartbeat comments.
const sseHeartbeatInterval = 30 * time.Second

// sseWriter wraps http.ResponseWriter for SSE.
type sseWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &sseWriter{w: w, flusher: flusher, rc: http.NewResponseController(w)}, nil
}

func (s *sseWriter) writeEvent(e event.Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", e.Type, data); err != nil {
		return err
	}

	if err := s.rc.Flush(); err != nil {
		s.flusher.Flush()
	}
	return nil
}

func (s *sseWriter) writeHeartbeat() {
	fmt.Fprintf(s.w, ": heartbeat\n\n")
	s.flusher.Flush()
}

// handleEvents streams the server's event feed over SSE. An optional
// sessionId query parameter filters to one session's events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sse, err := newSSEWriter(w)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	sse.flusher.Flush()

	events := make(chan event.Event, 10)
	unsub := event.SubscribeAll(func(e event.Event) {
		if sessionID != "" && !eventBelongsToSession(e, sessionID) {
			return
		}
		select {
		case events <- e:
		default:
			logging.Warn().Str("eventType", string(e.Type)).Msg("sse event dropped: channel full")
		}
	})
	defer unsub()

	ticker := time.NewTicker(sseHeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-events:
			if err := sse.writeEvent(e); err != nil {
				return
			}
		case <-ticker.C:
			sse.writeHeartbeat()
		}
	}
}

// eventBelongsToSession checks whether an event concerns a session.
func eventBelongsToSession(e event.Event, sessionID string) bool {
	switch data := e.Data.(type) {
	case *event.SessionCreatedData:
		return data.Info != nil && data.Info.ID == sessionID
	case *event.SessionClearedData:
		return data.SessionID == sessionID
	case *event.SessionDeletedData:
		return data.Info != nil && data.Info.ID == sessionID
	case *event.MessageCreatedData:
		return data.SessionID == sessionID
	case *event.TurnCommittedData:
		return data.SessionID == sessionID
	case *event.StreamDeltaData:
		return data.SessionID == sessionID
	case *event.CanvasUpdatedData:
		return data.SessionID == sessionID
	case *event.FileWrittenData:
		return data.SessionID == sessionID
	case *event.ModelUpdatedData:
		return data.SessionID == sessionID
	}
	return false
}
