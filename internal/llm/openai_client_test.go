package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOpenAIClientAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header: %s", got)
		}
		var payload struct {
			Model    string        `json:"model"`
			Messages []chatMessage `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		// system + 3 most recent turns (2 messages each) + question
		if len(payload.Messages) != 8 {
			t.Errorf("expected 8 messages, got %d", len(payload.Messages))
		} else {
			if payload.Messages[0].Role != "system" {
				t.Errorf("first message should be the system prompt")
			}
			if payload.Messages[1].Content != "q2" {
				t.Errorf("oldest turn should be dropped, got %q", payload.Messages[1].Content)
			}
			last := payload.Messages[7].Content
			if !strings.Contains(last, "highlighted this passage") || !strings.Contains(last, "Question: Explain this") {
				t.Errorf("unexpected user content: %s", last)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"It describes joints."}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "sk-test", model: "gpt-test", base: server.URL, client: server.Client()}
	answer, err := client.Answer(context.Background(), AnswerRequest{
		Question:     "Explain this",
		SelectedText: "A URDF file lists joints and links.",
		History: []Turn{
			{Question: "q1", Answer: "a1"},
			{Question: "q2", Answer: "a2"},
			{Question: "q3", Answer: "a3"},
			{Question: "q4", Answer: "a4"},
		},
	})
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}
	if answer != "It describes joints." {
		t.Fatalf("unexpected answer: %s", answer)
	}
}

func TestOpenAIClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := &openAIClient{apiKey: "k", model: "m", base: server.URL, client: server.Client()}
	if _, err := client.Answer(context.Background(), AnswerRequest{Question: "why?"}); err == nil {
		t.Fatal("expected error when no choices are returned")
	}
}
