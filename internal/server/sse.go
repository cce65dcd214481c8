package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/porcitech/kouakou/internal/assistant"
	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/tool"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// sseEmitter renders assistant events as server-sent-event frames, flushing
// after each one so clients see tokens as they arrive. Once the request
// context ends no further frames are written.
type sseEmitter struct {
	ctx     context.Context
	w       http.ResponseWriter
	flusher http.Flusher
}

func newSSEEmitter(ctx context.Context, w http.ResponseWriter) (*sseEmitter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, kerrors.Unavailable("response writer does not support streaming")
	}

	// Server write timeouts would cut long streams short.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &sseEmitter{ctx: ctx, w: w, flusher: flusher}, nil
}

func (e *sseEmitter) emit(event string, payload interface{}) error {
	if err := e.ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

func (e *sseEmitter) Message(text string) error {
	return e.emit("message", map[string]string{"text": text})
}

func (e *sseEmitter) FunctionCall(call *gemini.FunctionCall) error {
	return e.emit("function_call", map[string]interface{}{
		"name": call.Name,
		"args": call.ParseArgs(),
	})
}

func (e *sseEmitter) FunctionResult(action tool.ExecutedAction) error {
	return e.emit("function_result", action)
}

func (e *sseEmitter) Done(done assistant.Done) error {
	return e.emit("done", map[string]interface{}{
		"actions":    done.Actions,
		"model":      done.Model,
		"elapsed_ms": done.Elapsed.Milliseconds(),
	})
}

// Fail reports a mid-stream failure in-band; the HTTP status is already
// committed by the time anything can go wrong.
func (e *sseEmitter) Fail(err error) {
	_ = e.emit("error", map[string]string{
		"error":    err.Error(),
		"category": kerrors.Category(err),
	})
}
