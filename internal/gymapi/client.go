package gymapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// Config holds construction options for the API client.
type Config struct {
	// BaseURL is the remote API origin, e.g. "https://api.gymflow.example".
	BaseURL string
	// Timeout bounds each request when no custom HTTPClient is given.
	Timeout time.Duration
	// HTTPClient overrides the underlying client. Optional.
	HTTPClient *http.Client
	// Logger for request-level diagnostics. Optional.
	Logger *slog.Logger
}

// Client talks to the remote GymFlow API. The bearer token is the one
// piece of mutable shared state; only the session manager writes it,
// via SetAuthToken/ClearAuthToken.
type Client struct {
	baseURL string
	hc      *http.Client
	logger  *slog.Logger

	mu    sync.RWMutex
	token string
}

// NewClient builds an API client. Callers should pass a validated config.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("gym api base URL is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: base,
		hc:      hc,
		logger:  logger,
	}, nil
}

// SetAuthToken attaches a bearer token to all subsequent requests.
// Reserved for the session manager.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearAuthToken removes the bearer token. Reserved for the session manager.
func (c *Client) ClearAuthToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// AuthToken returns the currently attached bearer token, empty when
// no credential is set.
func (c *Client) AuthToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// requestOpts groups per-request parameters.
type requestOpts struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Out    any
	// SkipAuth leaves the Authorization header off (login/register).
	SkipAuth bool
}

// do performs one request/response cycle. Non-2xx responses become
// *APIError; transport failures are wrapped with context.
func (c *Client) do(ctx context.Context, opts requestOpts) error {
	u := c.baseURL + opts.Path
	if len(opts.Query) > 0 {
		u += "?" + opts.Query.Encode()
	}

	var reqBody io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, u, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !opts.SkipAuth {
		if token := c.AuthToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", opts.Method, opts.Path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close response body failed", "path", opts.Path, "error", cerr)
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if opts.Out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, opts.Out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, requestOpts{Method: http.MethodGet, Path: path, Query: query, Out: out})
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, requestOpts{Method: http.MethodPost, Path: path, Body: body, Out: out})
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, requestOpts{Method: http.MethodPut, Path: path, Body: body, Out: out})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, requestOpts{Method: http.MethodDelete, Path: path})
}

// Page holds page-number pagination parameters forwarded to the API.
type Page struct {
	Number int
	Size   int
}

func (p Page) query() url.Values {
	q := url.Values{}
	if p.Number > 0 {
		q.Set("page", fmt.Sprintf("%d", p.Number))
	}
	if p.Size > 0 {
		q.Set("page_size", fmt.Sprintf("%d", p.Size))
	}
	return q
}

// decodeList accepts both list response shapes the API produces: a
// paginated {"count": N, "results": [...]} envelope and a bare array.
func decodeList[T any](body []byte) ([]T, int, error) {
	var envelope struct {
		Count   int             `json:"count"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Results != nil {
		var items []T
		if err := json.Unmarshal(envelope.Results, &items); err != nil {
			return nil, 0, fmt.Errorf("decode results: %w", err)
		}
		return items, envelope.Count, nil
	}

	var items []T
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, 0, fmt.Errorf("decode list: %w", err)
	}
	return items, len(items), nil
}

// getList fetches a listing endpoint and unwraps either list shape.
func getList[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, int, error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, 0, err
	}
	if len(raw) == 0 {
		return nil, 0, nil
	}
	return decodeList[T](raw)
}
