package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, searchEnabled bool) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Options{
		APIKey:        "test-key",
		Model:         "gemini-test",
		BaseURL:       server.URL,
		SearchEnabled: searchEnabled,
		HTTPClient:    server.Client(),
	})
	require.NoError(t, err)
	return client, server
}

func textResponse(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]}}]}`, text)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{Model: "gemini-test"})
	require.Error(t, err)
	assert.True(t, kerrors.IsCategory(err, kerrors.ErrUnavailable))
}

func TestNewClientRequiresModel(t *testing.T) {
	_, err := NewClient(Options{APIKey: "key"})
	require.Error(t, err)
	assert.True(t, kerrors.IsCategory(err, kerrors.ErrInvalidInput))
}

func TestGenerateDecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, textResponse("bonjour"))
	}, false)

	resp, err := client.Generate(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{{Text: "salut"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "bonjour", resp.JoinText())
}

func TestGenerateCatalogExcludesSearch(t *testing.T) {
	var body GenerateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, textResponse("ok"))
	}, true)

	req := &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{{Text: "salut"}}}},
		Tools: []Tool{{FunctionDeclarations: []FunctionDeclaration{
			{Name: "create_expense", Description: "d"},
		}}},
	}
	_, err := client.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, body.Tools, 1)
	assert.Len(t, body.Tools[0].FunctionDeclarations, 1)
	assert.Nil(t, body.Tools[0].GoogleSearchRetrieve)
}

func TestGenerateSearchRidesAlongWithoutCatalog(t *testing.T) {
	var body GenerateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, textResponse("ok"))
	}, true)

	_, err := client.Generate(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{{Text: "salut"}}}},
	})
	require.NoError(t, err)

	require.Len(t, body.Tools, 1)
	assert.NotNil(t, body.Tools[0].GoogleSearchRetrieve)
}

func TestGenerateSearchDisabled(t *testing.T) {
	var body GenerateRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		fmt.Fprint(w, textResponse("ok"))
	}, false)

	_, err := client.Generate(context.Background(), &GenerateRequest{
		Contents: []Content{{Role: RoleUser, Parts: []Part{{Text: "salut"}}}},
	})
	require.NoError(t, err)
	assert.Empty(t, body.Tools)
}

func TestGenerateSurfacesUpstreamError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)
	}, false)

	_, err := client.Generate(context.Background(), &GenerateRequest{})
	require.Error(t, err)
	assert.True(t, kerrors.IsCategory(err, kerrors.ErrUnavailable))
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestGenerateTimeout(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, textResponse("trop tard"))
	}, false)
	client.timeout = 20 * time.Millisecond

	_, err := client.Generate(context.Background(), &GenerateRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestGenerateStreamSkipsUnparsableChunks(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", textResponse("bon"))
		fmt.Fprint(w, "data: {not json\n\n")
		fmt.Fprintf(w, "data: %s\n\n", textResponse("jour"))
		fmt.Fprint(w, "data: [DONE]\n\n")
	}, false)

	var got []string
	err := client.GenerateStream(context.Background(), &GenerateRequest{}, func(chunk *GenerateResponse) error {
		got = append(got, chunk.JoinText())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"bon", "jour"}, got)
}

func TestGenerateStreamAbortsOnErrorChunk(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"error\":{\"code\":500,\"message\":\"internal\"}}\n\n")
	}, false)

	err := client.GenerateStream(context.Background(), &GenerateRequest{}, func(chunk *GenerateResponse) error {
		t.Fatal("chunk should not be delivered")
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internal")
}

func TestGenerateStreamStalledStreamTimesOut(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", textResponse("debut"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}, false)
	client.timeout = 50 * time.Millisecond

	var got []string
	start := time.Now()
	err := client.GenerateStream(context.Background(), &GenerateRequest{}, func(chunk *GenerateResponse) error {
		got = append(got, chunk.JoinText())
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, []string{"debut"}, got)
}

func TestGenerateStreamCallerCancel(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", textResponse("debut"))
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	}, false)

	ctx, cancel := context.WithCancel(context.Background())
	err := client.GenerateStream(ctx, &GenerateRequest{}, func(chunk *GenerateResponse) error {
		cancel()
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateStreamCallbackErrorStops(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "data: %s\n\n", textResponse("a"))
		fmt.Fprintf(w, "data: %s\n\n", textResponse("b"))
	}, false)

	boom := fmt.Errorf("client gone")
	calls := 0
	err := client.GenerateStream(context.Background(), &GenerateRequest{}, func(chunk *GenerateResponse) error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestParseArgsVariants(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected map[string]interface{}
	}{
		{"object", `{"amount":50000}`, map[string]interface{}{"amount": float64(50000)}},
		{"string encoded", `"{\"amount\":50000}"`, map[string]interface{}{"amount": float64(50000)}},
		{"empty string", `""`, map[string]interface{}{}},
		{"garbage", `[1,2]`, map[string]interface{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &FunctionCall{Name: "x", Args: json.RawMessage(tt.raw)}
			assert.Equal(t, tt.expected, fc.ParseArgs())
		})
	}

	var nilCall *FunctionCall
	assert.Equal(t, map[string]interface{}{}, nilCall.ParseArgs())
}
