package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// LocalURL is the development backend address.
	LocalURL = "http://localhost:8000"

	defaultHTTPTimeout = 2 * time.Minute
)

var (
	// ErrTransport marks requests that never produced a response.
	ErrTransport = errors.New("backend unreachable")
	// ErrMalformedResponse marks a success status whose body could not be decoded.
	ErrMalformedResponse = errors.New("malformed backend response")
)

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question     string `json:"question"`
	SessionID    string `json:"session_id"`
	SelectedText string `json:"selected_text,omitempty"`
}

// Source is one citation record in a query response.
type Source struct {
	Source    string `json:"source"`
	Part      string `json:"part"`
	Section   string `json:"section"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

// QueryResponse is the success body of POST /query.
type QueryResponse struct {
	Answer        string   `json:"answer"`
	Sources       []Source `json:"sources,omitempty"`
	RetrievalMode string   `json:"retrieval_mode,omitempty"`
	SessionID     string   `json:"session_id,omitempty"`
	LatencyMs     float64  `json:"latency_ms,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services,omitempty"`
}

// ErrorBody is the conventional non-2xx body.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// Querier sends one question to the backend.
type Querier interface {
	Query(ctx context.Context, req QueryRequest) (QueryResponse, error)
}

// StatusError reports a response with a non-success status.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d %s", e.Code, http.StatusText(e.Code))
}

// Config describes how to reach the backend.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// IsLocalHost reports whether host is the local development host.
func IsLocalHost(host string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	return host == "localhost"
}

// ResolveBaseURL picks the backend for a site served from siteHost. Local development always
// talks to LocalURL; otherwise the configured value wins when set.
func ResolveBaseURL(siteHost, configured string) string {
	if IsLocalHost(siteHost) {
		return LocalURL
	}
	if configured = strings.TrimSpace(configured); configured != "" {
		return strings.TrimRight(configured, "/")
	}
	return LocalURL
}

func pickHTTPClient(custom *http.Client, timeout time.Duration) *http.Client {
	if custom != nil {
		return custom
	}
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}
