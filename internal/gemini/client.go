package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	kerrors "github.com/porcitech/kouakou/internal/errors"
)

const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	DefaultRequestTimeout = 30 * time.Second
)

// Options configures a Client.
type Options struct {
	APIKey         string
	Model          string
	BaseURL        string
	RequestTimeout time.Duration
	// SearchEnabled appends the hosted search capability to requests that
	// carry no function declarations. It is never combined with a tool
	// catalog: when both are requested the catalog wins.
	SearchEnabled bool
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client issues request/response and streaming calls against the
// generativelanguage endpoint.
type Client struct {
	apiKey        string
	model         string
	baseURL       string
	timeout       time.Duration
	searchEnabled bool
	http          *http.Client
}

func NewClient(opts Options) (*Client, error) {
	if opts.APIKey == "" {
		return nil, kerrors.Unavailable("GEMINI_API_KEY not configured")
	}
	if opts.Model == "" {
		return nil, kerrors.InvalidInput("model name is required")
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = newStreamingHTTPClient()
	}

	return &Client{
		apiKey:        opts.APIKey,
		model:         opts.Model,
		baseURL:       baseURL,
		timeout:       timeout,
		searchEnabled: opts.SearchEnabled,
		http:          httpClient,
	}, nil
}

// Model reports the configured model name for response metadata.
func (c *Client) Model() string {
	return c.model
}

// Generate performs a single generateContent call.
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, c.endpoint("generateContent", false), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var out GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, kerrors.Unavailable(fmt.Sprintf("decode gemini response: %v", err))
	}
	return &out, nil
}

// GenerateStream performs a streamGenerateContent call and invokes onChunk
// per decoded document. The request timeout bounds the whole call, connect
// through last byte, so a stream that stalls mid-body is cut off with
// context.DeadlineExceeded while a caller disconnect surfaces as
// context.Canceled. A chunk that fails to parse is logged and skipped; an
// error returned by onChunk aborts the stream.
func (c *Client) GenerateStream(ctx context.Context, req *GenerateRequest, onChunk func(*GenerateResponse) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, c.endpoint("streamGenerateContent", true), req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return err
	}

	frames := newFrameScanner(resp.Body)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		lines, err := frames.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return kerrors.Unavailable(fmt.Sprintf("gemini stream read failed: %v", err))
		}

		payload, ok := parseFrame(lines)
		if !ok {
			continue
		}

		var chunk GenerateResponse
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			slog.Warn("Skipping unparsable gemini stream chunk", "error", err)
			continue
		}
		if chunk.Error != nil {
			return kerrors.Unavailable(fmt.Sprintf("gemini stream error: %s", chunk.Error.Message))
		}

		if err := onChunk(&chunk); err != nil {
			return err
		}
	}
}

func (c *Client) post(ctx context.Context, endpoint string, req *GenerateRequest) (*http.Response, error) {
	body := *req
	body.Tools = c.resolveTools(req.Tools)

	b, err := json.Marshal(&body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, kerrors.Unavailable(fmt.Sprintf("gemini request failed: %v", err))
	}
	return resp, nil
}

// resolveTools enforces the capability exclusion: a function-declaration
// catalog is sent as-is, otherwise the hosted search tool may ride along.
func (c *Client) resolveTools(tools []Tool) []Tool {
	for _, t := range tools {
		if len(t.FunctionDeclarations) > 0 {
			return tools
		}
	}

	if !c.searchEnabled {
		return tools
	}

	return append(tools[:len(tools):len(tools)], Tool{
		GoogleSearchRetrieve: map[string]interface{}{
			"dynamic_retrieval_config": map[string]interface{}{
				"mode":              "MODE_DYNAMIC",
				"dynamic_threshold": 0.7,
			},
		},
	})
}

func (c *Client) endpoint(method string, stream bool) string {
	u := fmt.Sprintf("%s/models/%s:%s?key=%s", c.baseURL, c.model, method, url.QueryEscape(c.apiKey))
	if stream {
		u += "&alt=sse"
	}
	return u
}

func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	resp.Body.Close()

	summary := resp.Status
	var envelope GenerateResponse
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		summary = envelope.Error.Message
	}

	slog.Error("Gemini API error", "status", resp.StatusCode, "summary", summary)
	return kerrors.Unavailable(fmt.Sprintf("gemini http %d: %s", resp.StatusCode, summary))
}

// newStreamingHTTPClient builds a transport suitable for SSE: no client-level
// timeout (it would cap total stream duration), header timeout instead.
func newStreamingHTTPClient() *http.Client {
	dialer := &net.Dialer{
		Timeout:   15 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &http.Client{Transport: transport}
}
