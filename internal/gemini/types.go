package gemini

import (
	"encoding/json"
	"strings"
)

// Roles accepted on the generativelanguage wire.
const (
	RoleUser     = "user"
	RoleModel    = "model"
	RoleFunction = "function"
)

// Content is one conversation turn: a role plus an ordered list of parts.
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part carries exactly one of: text, a function call, or a function response.
type Part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *FunctionCall     `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

// FunctionCall is a tool invocation requested by the model. Args may arrive
// either as a JSON object or as a JSON-encoded string of one.
type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

// ParseArgs normalizes the raw arguments into a map, tolerating the
// string-encoded variant. Unparsable input yields an empty map.
func (fc *FunctionCall) ParseArgs() map[string]interface{} {
	args := map[string]interface{}{}
	if fc == nil || len(fc.Args) == 0 {
		return args
	}

	raw := fc.Args
	var embedded string
	if err := json.Unmarshal(raw, &embedded); err == nil {
		if strings.TrimSpace(embedded) == "" {
			return args
		}
		raw = json.RawMessage(embedded)
	}

	_ = json.Unmarshal(raw, &args)
	return args
}

// FunctionResponse carries a tool result back to the model.
type FunctionResponse struct {
	Name     string      `json:"name"`
	Response interface{} `json:"response"`
}

// FunctionDeclaration describes one invocable operation to the model.
type FunctionDeclaration struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// Tool is one entry of the request tools array: either a set of function
// declarations or the hosted search capability, never both in one request.
type Tool struct {
	FunctionDeclarations []FunctionDeclaration  `json:"function_declarations,omitempty"`
	GoogleSearchRetrieve map[string]interface{} `json:"google_search_retrieval,omitempty"`
}

// SystemInstruction wraps the system prompt parts.
type SystemInstruction struct {
	Parts []Part `json:"parts"`
}

// GenerationConfig tunes decoding. Kept loose so caller-supplied overrides
// pass through untouched.
type GenerationConfig map[string]interface{}

// GenerateRequest is the request body for generateContent and
// streamGenerateContent.
type GenerateRequest struct {
	Contents          []Content          `json:"contents"`
	Tools             []Tool             `json:"tools,omitempty"`
	SystemInstruction *SystemInstruction `json:"system_instruction,omitempty"`
	GenerationConfig  GenerationConfig   `json:"generationConfig,omitempty"`
}

// GenerateResponse is the response body, also the shape of each streamed
// chunk document.
type GenerateResponse struct {
	Candidates []Candidate   `json:"candidates"`
	Error      *UpstreamInfo `json:"error,omitempty"`
}

type Candidate struct {
	Content *Content `json:"content"`
}

// UpstreamInfo is the error envelope the API embeds in failed replies.
type UpstreamInfo struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Parts of the first candidate, or nil when the response carries none.
func (r *GenerateResponse) FirstParts() []Part {
	if r == nil || len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return nil
	}
	return r.Candidates[0].Content.Parts
}

// FunctionCalls collects the function-call parts of the first candidate in order.
func (r *GenerateResponse) FunctionCalls() []*FunctionCall {
	var calls []*FunctionCall
	for _, part := range r.FirstParts() {
		if part.FunctionCall != nil && part.FunctionCall.Name != "" {
			calls = append(calls, part.FunctionCall)
		}
	}
	return calls
}

// JoinText concatenates the trimmed text parts of the first candidate with
// newlines. Empty when no text part is present.
func (r *GenerateResponse) JoinText() string {
	var texts []string
	for _, part := range r.FirstParts() {
		if t := strings.TrimSpace(part.Text); t != "" {
			texts = append(texts, t)
		}
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}
