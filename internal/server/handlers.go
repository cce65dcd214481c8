package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/porcitech/kouakou/internal/assistant"
	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/logger"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

type chatRequest struct {
	Message   string           `json:"message"`
	History   []gemini.Content `json:"history,omitempty"`
	ProjectID string           `json:"project_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body chatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, kerrors.InvalidInput("malformed request body"))
		return
	}

	traceID := logger.NewTraceID()
	ctx := logger.WithTraceID(r.Context(), traceID)

	req := assistant.Request{
		Message:   body.Message,
		History:   body.History,
		UserID:    identity(r),
		ProjectID: projectID(r, body.ProjectID),
	}

	started := time.Now()
	reply, err := s.assistant.Respond(ctx, req)
	if err != nil {
		slog.Error("Chat request failed", "trace_id", traceID, "error", err)
		writeError(w, err)
		return
	}

	slog.Info("Chat request served",
		"trace_id", traceID, "actions", len(reply.Metadata.ExecutedActions), "elapsed", time.Since(started))
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	traceID := logger.NewTraceID()
	ctx := logger.WithTraceID(r.Context(), traceID)

	req := assistant.Request{
		Message:   query.Get("message"),
		History:   decodeHistory(query.Get("history")),
		UserID:    identity(r),
		ProjectID: projectID(r, query.Get("project_id")),
	}

	emitter, err := newSSEEmitter(ctx, w)
	if err != nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	if err := s.assistant.Stream(ctx, req, emitter); err != nil {
		slog.Error("Chat stream failed", "trace_id", traceID, "error", err)
		emitter.Fail(err)
		return
	}
	slog.Info("Chat stream served", "trace_id", traceID)
}

// decodeHistory parses the JSON-encoded history query parameter. A malformed
// value degrades to an empty history rather than failing the stream.
func decodeHistory(raw string) []gemini.Content {
	if raw == "" {
		return nil
	}
	var history []gemini.Content
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		slog.Warn("Ignoring malformed history parameter", "error", err)
		return nil
	}
	return history
}

func projectID(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return r.Header.Get("X-Project-ID")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, kerrors.HTTPStatus(err), map[string]interface{}{
		"error":    err.Error(),
		"category": kerrors.Category(err),
	})
}
