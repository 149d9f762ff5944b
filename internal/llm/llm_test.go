package llm

import (
	"net/http"
	"testing"
	"time"
)

func TestPickHTTPClientHonorsCustomClient(t *testing.T) {
	custom := &http.Client{Timeout: 42 * time.Second}
	if got := pickHTTPClient(custom); got != custom {
		t.Fatalf("expected custom client to be returned")
	}
}

func TestPickHTTPClientUsesLongerTimeout(t *testing.T) {
	client := pickHTTPClient(nil)
	if client.Timeout != defaultLLMHTTPTimeout {
		t.Fatalf("expected default timeout %s, got %s", defaultLLMHTTPTimeout, client.Timeout)
	}
}

func TestNewFromEnvDefaultsToExtractive(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "")
	client, err := NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	if client.Name() != "extractive" {
		t.Fatalf("expected extractive generator, got %s", client.Name())
	}
}

func TestNewFromEnvPicksProviders(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434/")
	t.Setenv("OLLAMA_MODEL", "")
	client, err := NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	ollama, ok := client.(*ollamaClient)
	if !ok {
		t.Fatalf("expected ollama client, got %T", client)
	}
	if ollama.host != "http://gpu-box:11434" || ollama.model != defaultOllamaModel {
		t.Fatalf("unexpected ollama config: %+v", ollama)
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "https://openrouter.ai/api/v1/")
	t.Setenv("OPENAI_MODEL", "")
	client, err = NewFromEnv(Config{})
	if err != nil {
		t.Fatalf("NewFromEnv: %v", err)
	}
	openai, ok := client.(*openAIClient)
	if !ok {
		t.Fatalf("expected openai client, got %T", client)
	}
	if openai.base != "https://openrouter.ai/api/v1" || openai.model != defaultOpenAIModel {
		t.Fatalf("unexpected openai config: %+v", openai)
	}
}

func TestNewFromEnvRejectsBadProviders(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewFromEnv(Config{Provider: "openai"}); err == nil {
		t.Fatal("expected missing key error")
	}
	if _, err := NewFromEnv(Config{Provider: "claude-in-a-box"}); err == nil {
		t.Fatal("expected unknown provider error")
	}
}
