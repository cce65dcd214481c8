package tool

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	kerrors "github.com/porcitech/kouakou/internal/errors"
	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/logger"
)

// Catalog is the fixed set of handlers advertised to the model. Names are
// unique; a duplicate registration is a construction error, not a silent
// shadow.
type Catalog struct {
	handlers map[string]Handler
	order    []string
}

func NewCatalog() *Catalog {
	return &Catalog{handlers: make(map[string]Handler)}
}

func (c *Catalog) Register(h Handler) error {
	name := h.Name()
	if name == "" {
		return kerrors.InvalidInput("tool name must not be empty")
	}
	if _, exists := c.handlers[name]; exists {
		return kerrors.InvalidInput(fmt.Sprintf("duplicate tool name: %s", name))
	}
	c.handlers[name] = h
	c.order = append(c.order, name)
	return nil
}

// MustRegister panics on a duplicate name. Catalog construction happens once
// at startup, so a collision is a programming error.
func (c *Catalog) MustRegister(hs ...Handler) {
	for _, h := range hs {
		if err := c.Register(h); err != nil {
			panic(err)
		}
	}
}

func (c *Catalog) Get(name string) (Handler, bool) {
	h, ok := c.handlers[name]
	return h, ok
}

func (c *Catalog) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	sort.Strings(names)
	return names
}

// Declarations renders the catalog in the wire shape the model expects,
// in registration order.
func (c *Catalog) Declarations() []gemini.FunctionDeclaration {
	decls := make([]gemini.FunctionDeclaration, 0, len(c.order))
	for _, name := range c.order {
		h := c.handlers[name]
		decls = append(decls, gemini.FunctionDeclaration{
			Name:        h.Name(),
			Description: h.Description(),
			Parameters:  h.Parameters(),
		})
	}
	return decls
}

// ExecutedAction is the audit record of one dispatched call, attached to
// assistant replies so clients can render what happened.
type ExecutedAction struct {
	Name       string      `json:"name"`
	Args       interface{} `json:"args,omitempty"`
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	DurationMS int64       `json:"duration_ms"`
}

// Dispatcher validates and executes model-requested calls against the
// catalog.
type Dispatcher struct {
	catalog *Catalog
}

func NewDispatcher(catalog *Catalog) *Dispatcher {
	return &Dispatcher{catalog: catalog}
}

// Execute routes one call. An unknown name is rejected before any
// collaborator is touched; handler panics are captured into the result so a
// misbehaving service can never take down the conversation.
func (d *Dispatcher) Execute(ctx context.Context, id Identity, call *gemini.FunctionCall) ExecutedAction {
	action := ExecutedAction{Name: call.Name}

	handler, ok := d.catalog.Get(call.Name)
	if !ok {
		slog.Warn("Rejected unknown tool call",
			"trace_id", logger.GetTraceID(ctx), "name", call.Name, "user_id", id.UserID)
		action.Error = ErrNotAllowed
		return action
	}

	args := call.ParseArgs()
	action.Args = args

	started := time.Now()
	result := d.run(ctx, handler, id, args)
	action.DurationMS = time.Since(started).Milliseconds()

	action.Success = result.Success
	action.Message = result.Message
	action.Data = result.Data
	action.Error = result.Error

	traceID := logger.GetTraceID(ctx)
	if result.Success {
		slog.Info("Tool executed",
			"trace_id", traceID, "name", call.Name, "duration_ms", action.DurationMS)
	} else {
		slog.Warn("Tool failed",
			"trace_id", traceID, "name", call.Name, "error", result.Error, "duration_ms", action.DurationMS)
	}
	return action
}

func (d *Dispatcher) run(ctx context.Context, h Handler, id Identity, args map[string]interface{}) (result ExecutionResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Tool handler panicked", "name", h.Name(), "panic", r)
			result = failuref("tool %s panicked: %v", h.Name(), r)
		}
	}()
	return h.Execute(ctx, id, args)
}

// Response converts an action into the functionResponse payload echoed back
// to the model.
func (a ExecutedAction) Response() map[string]interface{} {
	resp := map[string]interface{}{"success": a.Success}
	if a.Message != "" {
		resp["message"] = a.Message
	}
	if a.Data != nil {
		resp["data"] = a.Data
	}
	if a.Error != "" {
		resp["error"] = a.Error
	}
	return resp
}
