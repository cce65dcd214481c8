// Package tool holds the assistant's function catalog: the declarations
// advertised to the model and the dispatcher that routes model-requested
// calls to the farm services.
package tool

import (
	"context"
	"fmt"
)

// ExecutionResult is the uniform outcome of one tool invocation. It is
// always well-formed, even when the underlying handler failed; errors are
// data the model can read back, never Go errors escaping the dispatcher.
type ExecutionResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ErrNotAllowed is the error string returned for a call whose name is not
// in the catalog.
const ErrNotAllowed = "function_not_allowed"

func success(message string, data interface{}) ExecutionResult {
	return ExecutionResult{Success: true, Message: message, Data: data}
}

func failure(err error) ExecutionResult {
	return ExecutionResult{Success: false, Error: err.Error()}
}

func failuref(format string, args ...interface{}) ExecutionResult {
	return ExecutionResult{Success: false, Error: fmt.Sprintf(format, args...)}
}

// Identity scopes every tool execution to one caller and one farm project.
type Identity struct {
	UserID    string
	ProjectID string
}

// Handler executes one named operation against the farm services.
type Handler interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, id Identity, args map[string]interface{}) ExecutionResult
}
