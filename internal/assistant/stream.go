package assistant

import (
	"context"
	"log/slog"
	"time"

	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/logger"
	"github.com/porcitech/kouakou/internal/tool"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// Emitter receives streamed conversation events in order. Any returned error
// aborts the stream; the caller owns transport concerns such as flushing.
type Emitter interface {
	Message(text string) error
	FunctionCall(call *gemini.FunctionCall) error
	FunctionResult(action tool.ExecutedAction) error
	Done(done Done) error
}

// Done summarizes a finished streamed conversation.
type Done struct {
	Actions []tool.ExecutedAction `json:"actions,omitempty"`
	Model   string                `json:"model"`
	Elapsed time.Duration         `json:"-"`
}

// Stream answers one request incrementally. Text chunks are forwarded as the
// model produces them; function calls pause the stream, execute, and feed a
// follow-up round. The catalog is advertised only on the first round so
// follow-ups must conclude in prose. A conversation that still wants tools
// after the round budget is cut off.
func (a *Assistant) Stream(ctx context.Context, req Request, emitter Emitter) error {
	contents, id, err := a.prepare(req)
	if err != nil {
		return err
	}

	started := time.Now()
	var allActions []tool.ExecutedAction

	for iteration := 0; iteration < a.opts.MaxStreamIterations; iteration++ {
		withCatalog := iteration == 0

		var calls []*gemini.FunctionCall
		err := a.gateway.GenerateStream(ctx, a.request(contents, withCatalog, req.Generation), func(chunk *gemini.GenerateResponse) error {
			for _, part := range chunk.FirstParts() {
				switch {
				case part.Text != "":
					if err := emitter.Message(part.Text); err != nil {
						return err
					}
				case part.FunctionCall != nil && part.FunctionCall.Name != "":
					if err := emitter.FunctionCall(part.FunctionCall); err != nil {
						return err
					}
					calls = append(calls, part.FunctionCall)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}

		if len(calls) == 0 {
			return emitter.Done(Done{
				Actions: allActions,
				Model:   a.gateway.Model(),
				Elapsed: time.Since(started),
			})
		}

		actions, turns := a.executeCalls(ctx, id, calls)
		for _, action := range actions {
			if err := emitter.FunctionResult(action); err != nil {
				return err
			}
		}
		allActions = append(allActions, actions...)
		contents = append(contents, turns...)
	}

	slog.Warn("Streamed conversation exhausted its round budget",
		"trace_id", logger.GetTraceID(ctx), "user_id", id.UserID,
		"rounds", a.opts.MaxStreamIterations, "actions", len(allActions))
	return kerrors.ErrCycleTooLong
}
