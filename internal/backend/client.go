package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxBodyBytes = 4 << 20

// Client talks to the question-answering backend over HTTP.
type Client struct {
	base   string
	client *http.Client
}

// New returns a client for cfg.BaseURL, defaulting to LocalURL.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = LocalURL
	}
	return &Client{base: base, client: pickHTTPClient(cfg.HTTPClient, cfg.Timeout)}
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base
}

// Query posts req to /query.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return QueryResponse{}, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/query", bytes.NewReader(buf))
	if err != nil {
		return QueryResponse{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	body, status, err := c.do(httpReq)
	if err != nil {
		return QueryResponse{}, err
	}
	if status < 200 || status > 299 {
		return QueryResponse{}, &StatusError{Code: status, Body: body}
	}

	var parsed QueryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return QueryResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	// answer is required; null, {} and objects without it are not replies.
	var required struct {
		Answer *string `json:"answer"`
	}
	if err := json.Unmarshal(body, &required); err != nil || required.Answer == nil {
		return QueryResponse{}, fmt.Errorf("%w: missing answer", ErrMalformedResponse)
	}
	return parsed, nil
}

// Health fetches /health.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/health", nil)
	if err != nil {
		return HealthResponse{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	body, status, err := c.do(httpReq)
	if err != nil {
		return HealthResponse{}, err
	}
	if status < 200 || status > 299 {
		return HealthResponse{}, &StatusError{Code: status, Body: body}
	}
	var parsed HealthResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return HealthResponse{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return parsed, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return nil, resp.StatusCode, fmt.Errorf("%w: read body: %v", ErrMalformedResponse, err)
		}
		body = nil
	}
	return body, resp.StatusCode, nil
}
