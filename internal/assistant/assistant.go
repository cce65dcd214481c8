// Package assistant orchestrates conversations between farm callers and the
// model: it sanitizes input, advertises the tool catalog, executes the
// function calls the model requests, and shapes the final reply.
package assistant

import (
	"context"

	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/sanitize"
	"github.com/porcitech/kouakou/internal/tool"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

// Gateway is the slice of the model client the assistant needs.
type Gateway interface {
	Model() string
	Generate(ctx context.Context, req *gemini.GenerateRequest) (*gemini.GenerateResponse, error)
	GenerateStream(ctx context.Context, req *gemini.GenerateRequest, onChunk func(*gemini.GenerateResponse) error) error
}

// Request is one conversational turn from a caller.
type Request struct {
	Message   string
	History   []gemini.Content
	UserID    string
	ProjectID string
	// Generation overrides the configured decoding parameters when set.
	Generation gemini.GenerationConfig
}

// Reply is the assistant's answer plus the audit trail of what it did.
type Reply struct {
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
}

type Metadata struct {
	Model           string                `json:"model"`
	ExecutedActions []tool.ExecutedAction `json:"executed_actions,omitempty"`
}

// Options tunes the orchestration loops.
type Options struct {
	MaxStreamIterations int
	// MaxMessageRunes caps the sanitized user message; zero means the
	// sanitizer default.
	MaxMessageRunes int
	Temperature     float64
	MaxOutputTokens int
	AssistantName   string
}

const defaultMaxStreamIterations = 3

type Assistant struct {
	gateway    Gateway
	catalog    *tool.Catalog
	dispatcher *tool.Dispatcher
	opts       Options
}

func New(gateway Gateway, catalog *tool.Catalog, opts Options) *Assistant {
	if opts.MaxStreamIterations <= 0 {
		opts.MaxStreamIterations = defaultMaxStreamIterations
	}
	if opts.AssistantName == "" {
		opts.AssistantName = "Kouakou"
	}
	return &Assistant{
		gateway:    gateway,
		catalog:    catalog,
		dispatcher: tool.NewDispatcher(catalog),
		opts:       opts,
	}
}

// prepare validates and sanitizes one request into the conversation the
// model will see.
func (a *Assistant) prepare(req Request) ([]gemini.Content, tool.Identity, error) {
	if req.UserID == "" {
		return nil, tool.Identity{}, kerrors.InvalidInput("user identity is required")
	}
	if req.ProjectID == "" {
		return nil, tool.Identity{}, kerrors.InvalidInput("project id is required")
	}

	message := sanitize.TextLimit(req.Message, a.opts.MaxMessageRunes)
	if message == "" {
		return nil, tool.Identity{}, kerrors.InvalidInput("message is empty after sanitization")
	}

	contents := sanitize.History(req.History)
	contents = append(contents, gemini.Content{
		Role:  gemini.RoleUser,
		Parts: []gemini.Part{{Text: message}},
	})

	return contents, tool.Identity{UserID: req.UserID, ProjectID: req.ProjectID}, nil
}

func (a *Assistant) request(contents []gemini.Content, withCatalog bool, override gemini.GenerationConfig) *gemini.GenerateRequest {
	req := &gemini.GenerateRequest{
		Contents:          contents,
		SystemInstruction: a.systemInstruction(),
		GenerationConfig:  a.generationConfig(override),
	}
	if withCatalog {
		req.Tools = []gemini.Tool{{FunctionDeclarations: a.catalog.Declarations()}}
	}
	return req
}

func (a *Assistant) generationConfig(override gemini.GenerationConfig) gemini.GenerationConfig {
	cfg := gemini.GenerationConfig{}
	if a.opts.Temperature > 0 {
		cfg["temperature"] = a.opts.Temperature
	}
	if a.opts.MaxOutputTokens > 0 {
		cfg["maxOutputTokens"] = a.opts.MaxOutputTokens
	}
	for key, value := range override {
		cfg[key] = value
	}
	if len(cfg) == 0 {
		return nil
	}
	return cfg
}

// executeCalls runs the requested calls in order and returns both the audit
// records and the two turns to append: the model's call echo and the
// function responses.
func (a *Assistant) executeCalls(ctx context.Context, id tool.Identity, calls []*gemini.FunctionCall) ([]tool.ExecutedAction, []gemini.Content) {
	actions := make([]tool.ExecutedAction, 0, len(calls))
	callParts := make([]gemini.Part, 0, len(calls))
	responseParts := make([]gemini.Part, 0, len(calls))

	for _, call := range calls {
		action := a.dispatcher.Execute(ctx, id, call)
		actions = append(actions, action)

		callParts = append(callParts, gemini.Part{FunctionCall: call})
		responseParts = append(responseParts, gemini.Part{
			FunctionResponse: &gemini.FunctionResponse{
				Name:     call.Name,
				Response: action.Response(),
			},
		})
	}

	turns := []gemini.Content{
		{Role: gemini.RoleModel, Parts: callParts},
		{Role: gemini.RoleFunction, Parts: responseParts},
	}
	return actions, turns
}

// Respond answers one request without streaming. At most two model calls are
// made: the first may request tools, the follow-up (issued without the
// catalog) narrates their outcome.
func (a *Assistant) Respond(ctx context.Context, req Request) (*Reply, error) {
	contents, id, err := a.prepare(req)
	if err != nil {
		return nil, err
	}

	first, err := a.gateway.Generate(ctx, a.request(contents, true, req.Generation))
	if err != nil {
		return nil, err
	}

	calls := first.FunctionCalls()
	if len(calls) == 0 {
		text := first.JoinText()
		if text == "" {
			return nil, kerrors.Unavailable("model returned an empty reply")
		}
		return &Reply{Response: text, Metadata: Metadata{Model: a.gateway.Model()}}, nil
	}

	actions, turns := a.executeCalls(ctx, id, calls)
	contents = append(contents, turns...)

	followUp, err := a.gateway.Generate(ctx, a.request(contents, false, req.Generation))
	if err != nil {
		return nil, err
	}
	text := followUp.JoinText()
	if text == "" {
		return nil, kerrors.Unavailable("model returned an empty reply after tool execution")
	}

	return &Reply{
		Response: text,
		Metadata: Metadata{Model: a.gateway.Model(), ExecutedActions: actions},
	}, nil
}
