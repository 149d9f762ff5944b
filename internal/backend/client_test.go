package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryPostsPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"question": "What is a URDF?", "session_id": "abc"}, raw)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"answer":"A URDF is...","sources":[{"source":"docs/Part-2/urdf.md","part":"Part 2","section":"URDF","is_primary":true}],"retrieval_mode":"full_book","session_id":"abc","latency_ms":12.5}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL + "/", HTTPClient: server.Client()})
	resp, err := client.Query(context.Background(), QueryRequest{Question: "What is a URDF?", SessionID: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "A URDF is...", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.True(t, resp.Sources[0].IsPrimary)
	assert.Equal(t, "full_book", resp.RetrievalMode)
	assert.Equal(t, 12.5, resp.LatencyMs)
}

func TestQueryIncludesSelectedText(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "the highlighted passage text", payload.SelectedText)
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	_, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s", SelectedText: "the highlighted passage text"})
	require.NoError(t, err)
}

func TestQueryStatusError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"question too long"}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	_, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s"})

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Code)
	detail, parsed := statusErr.Detail()
	assert.True(t, parsed)
	assert.Equal(t, "question too long", detail)
}

func TestQueryMalformedSuccess(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	_, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s"})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestQueryWithoutAnswerIsMalformed(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`null`, `{}`, `{"sources":[]}`, `{"answer":null}`} {
		t.Run(body, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer server.Close()

			client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
			_, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s"})
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestQueryEmptyAnswerIsAccepted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"answer":""}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	resp, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s"})
	require.NoError(t, err)
	assert.Empty(t, resp.Answer)
}

func TestQueryTransportFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{BaseURL: url, Timeout: time.Second})
	_, err := client.Query(context.Background(), QueryRequest{Question: "q", SessionID: "s"})
	assert.ErrorIs(t, err, ErrTransport)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.Write([]byte(`{"status":"degraded","services":{"index":"connected","llm":"unavailable"}}`))
	}))
	defer server.Close()

	client := New(Config{BaseURL: server.URL, HTTPClient: server.Client()})
	health, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "degraded", health.Status)
	assert.Equal(t, "unavailable", health.Services["llm"])
}

func TestStatusErrorDetail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		body   string
		detail string
		parsed bool
	}{
		{name: "detail", body: `{"detail":"OpenRouter API not configured."}`, detail: "OpenRouter API not configured.", parsed: true},
		{name: "no detail", body: `{"error":"x"}`, parsed: true},
		{name: "validation list", body: `{"detail":[{"msg":"field required"}]}`, parsed: true},
		{name: "empty", body: ``, parsed: false},
		{name: "html", body: `<h1>502</h1>`, parsed: false},
		{name: "null", body: `null`, parsed: false},
		{name: "string", body: `"oops"`, parsed: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			detail, parsed := (&StatusError{Code: 500, Body: []byte(tc.body)}).Detail()
			assert.Equal(t, tc.detail, detail)
			assert.Equal(t, tc.parsed, parsed)
		})
	}
}

func TestResolveBaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LocalURL, ResolveBaseURL("localhost", "https://api.example.com"))
	assert.Equal(t, LocalURL, ResolveBaseURL("localhost:3000", ""))
	assert.Equal(t, "https://api.example.com", ResolveBaseURL("docs.example.com", "https://api.example.com/"))
	assert.Equal(t, LocalURL, ResolveBaseURL("docs.example.com", "  "))
	assert.Equal(t, LocalURL, ResolveBaseURL("", ""))
}

func TestPickHTTPClient(t *testing.T) {
	t.Parallel()

	custom := &http.Client{Timeout: 42 * time.Second}
	assert.Same(t, custom, pickHTTPClient(custom, time.Second))
	assert.Equal(t, defaultHTTPTimeout, pickHTTPClient(nil, 0).Timeout)
	assert.Equal(t, 5*time.Second, pickHTTPClient(nil, 5*time.Second).Timeout)
}
