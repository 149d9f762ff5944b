package llm

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultOllamaModel = "ministral-3:latest"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	// Passages arrive pre-ranked; the cap only keeps a runaway selection from blowing the window.
	maxContextChars  = 24_000
	maxSelectedChars = 5_000
	historyTurns     = 3
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// Provider names accepted by NewFromEnv.
const (
	ProviderExtractive = "extractive"
	ProviderOllama     = "ollama"
	ProviderOpenAI     = "openai"
)

// Config describes how to build an LLM client.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// Client turns retrieved passages into an answer.
type Client interface {
	Answer(ctx context.Context, req AnswerRequest) (string, error)
	Name() string
}

// Passage is one piece of retrieved context, labelled "Part > Section".
type Passage struct {
	Label string
	Text  string
}

// Turn is an earlier question/answer pair of the same session.
type Turn struct {
	Question string
	Answer   string
}

// AnswerRequest carries everything a generator may ground its answer on.
type AnswerRequest struct {
	Question     string
	SelectedText string
	Passages     []Passage
	History      []Turn
}

// NewFromEnv inspects the config and environment variables to build a client.
// An unset provider picks OpenAI when OPENAI_API_KEY is present, Ollama when OLLAMA_HOST is,
// and the offline extractive generator otherwise.
func NewFromEnv(cfg Config) (Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "" {
		switch {
		case os.Getenv("OPENAI_API_KEY") != "" || cfg.APIKey != "":
			provider = ProviderOpenAI
		case os.Getenv("OLLAMA_HOST") != "":
			provider = ProviderOllama
		default:
			provider = ProviderExtractive
		}
	}

	switch provider {
	case ProviderExtractive:
		return Extractive{}, nil
	case ProviderOllama:
		return newOllamaFromEnv(cfg), nil
	case ProviderOpenAI:
		return newOpenAIFromEnv(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newOllamaFromEnv(cfg Config) *ollamaClient {
	host := cfg.Endpoint
	if host == "" {
		if env := os.Getenv("OLLAMA_HOST"); env != "" {
			host = env
		} else {
			host = "http://localhost:11434"
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("OLLAMA_MODEL"); env != "" {
			model = env
		} else {
			model = defaultOllamaModel
		}
	}
	return &ollamaClient{
		host:   strings.TrimRight(host, "/"),
		model:  model,
		client: pickHTTPClient(cfg.HTTPClient),
	}
}

func newOpenAIFromEnv(cfg Config) (*openAIClient, error) {
	key := cfg.APIKey
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
	}
	base := cfg.Endpoint
	if base == "" {
		if env := os.Getenv("OPENAI_BASE_URL"); env != "" {
			base = env
		} else {
			base = defaultOpenAIBase
		}
	}
	model := cfg.Model
	if model == "" {
		if env := os.Getenv("OPENAI_MODEL"); env != "" {
			model = env
		} else {
			model = defaultOpenAIModel
		}
	}
	return &openAIClient{
		apiKey: key,
		model:  model,
		base:   strings.TrimRight(base, "/"),
		client: pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Allow longer-running generations (Ollama often needs >60s) and rely on the caller's context for cancellation.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}
