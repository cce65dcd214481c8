package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/porcitech/kouakou/internal/assistant"
	"github.com/porcitech/kouakou/internal/config"
	"github.com/porcitech/kouakou/internal/domain/memory"
	"github.com/porcitech/kouakou/internal/gemini"
	"github.com/porcitech/kouakou/internal/ratelimit"
	"github.com/porcitech/kouakou/internal/tool"
)

type scriptedGateway struct {
	responses []*gemini.GenerateResponse
}

func (g *scriptedGateway) Model() string { return "gemini-test" }

func (g *scriptedGateway) next() *gemini.GenerateResponse {
	if len(g.responses) == 0 {
		return &gemini.GenerateResponse{}
	}
	resp := g.responses[0]
	g.responses = g.responses[1:]
	return resp
}

func (g *scriptedGateway) Generate(_ context.Context, _ *gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	return g.next(), nil
}

func (g *scriptedGateway) GenerateStream(_ context.Context, _ *gemini.GenerateRequest, onChunk func(*gemini.GenerateResponse) error) error {
	return onChunk(g.next())
}

func modelText(text string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{Candidates: []gemini.Candidate{{
		Content: &gemini.Content{Role: gemini.RoleModel, Parts: []gemini.Part{{Text: text}}},
	}}}
}

func newTestServer(t *testing.T, gateway assistant.Gateway, limiter *ratelimit.Limiter) *httptest.Server {
	t.Helper()

	catalog, err := tool.BuildCatalog(memory.New().Services())
	require.NoError(t, err)
	agent := assistant.New(gateway, catalog, assistant.Options{})

	srv, err := New(&config.ServerConfig{Port: 0}, agent, limiter)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func postChat(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/chat", strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "farmer-1")
	req.Header.Set("X-Project-ID", "ferme-1")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChatHappyPath(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{modelText("Bonjour !")}}
	ts := newTestServer(t, gateway, nil)

	resp := postChat(t, ts, `{"message":"Salut","project_id":"ferme-1"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply assistant.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, "Bonjour !", reply.Response)
	assert.Equal(t, "gemini-test", reply.Metadata.Model)
}

func TestChatMalformedBody(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{}, nil)

	resp := postChat(t, ts, `{not json`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatEmptyMessage(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{}, nil)

	resp := postChat(t, ts, `{"message":"<p></p>"}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestChatMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{}, nil)

	resp, err := ts.Client().Get(ts.URL + "/chat")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestRateLimitReturns429(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{modelText("a"), modelText("b")}}
	ts := newTestServer(t, gateway, ratelimit.New(1, time.Minute))

	first := postChat(t, ts, `{"message":"Salut"}`)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	second := postChat(t, ts, `{"message":"Salut"}`)
	defer second.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
	assert.NotEmpty(t, second.Header.Get("Retry-After"))
}

func TestRateLimitPerIdentity(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{modelText("a"), modelText("b")}}
	ts := newTestServer(t, gateway, ratelimit.New(1, time.Minute))

	first := postChat(t, ts, `{"message":"Salut"}`)
	first.Body.Close()
	require.Equal(t, http.StatusOK, first.StatusCode)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/chat", strings.NewReader(`{"message":"Salut"}`))
	require.NoError(t, err)
	req.Header.Set("X-User-ID", "farmer-2")
	req.Header.Set("X-Project-ID", "ferme-1")
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func streamURL(ts *httptest.Server, message, history string) string {
	q := url.Values{}
	q.Set("message", message)
	q.Set("project_id", "ferme-1")
	if history != "" {
		q.Set("history", history)
	}
	return ts.URL + "/chat/stream?" + q.Encode()
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			return sb.String()
		}
	}
}

func TestChatStreamEmitsEvents(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{modelText("Bonjour !")}}
	ts := newTestServer(t, gateway, nil)

	resp, err := ts.Client().Get(streamURL(ts, "Salut", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	assert.Contains(t, body, "event: message")
	assert.Contains(t, body, `"text":"Bonjour !"`)
	assert.Contains(t, body, "event: done")
}

func TestChatStreamToolEvents(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{
		{Candidates: []gemini.Candidate{{
			Content: &gemini.Content{Role: gemini.RoleModel, Parts: []gemini.Part{{
				FunctionCall: &gemini.FunctionCall{Name: "create_expense", Args: json.RawMessage(`{"amount":50000,"label":"provende"}`)},
			}}},
		}}},
		modelText("Dépense enregistrée."),
	}}
	ts := newTestServer(t, gateway, nil)

	resp, err := ts.Client().Get(streamURL(ts, "J'ai dépensé 50000", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "event: function_call")
	assert.Contains(t, body, `"name":"create_expense"`)
	assert.Contains(t, body, "event: function_result")
	assert.Contains(t, body, "event: message")
	assert.Contains(t, body, "event: done")
}

func TestChatStreamIgnoresMalformedHistory(t *testing.T) {
	gateway := &scriptedGateway{responses: []*gemini.GenerateResponse{modelText("ok")}}
	ts := newTestServer(t, gateway, nil)

	resp, err := ts.Client().Get(streamURL(ts, "Salut", "{{{not json"))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "event: done")
}

func TestChatStreamReportsErrorsInBand(t *testing.T) {
	ts := newTestServer(t, &scriptedGateway{}, nil)

	// Empty message fails validation after headers are committed.
	resp, err := ts.Client().Get(streamURL(ts, "", ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, "event: error")
	assert.Contains(t, body, "invalid_input")
}
