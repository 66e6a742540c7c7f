package coach

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// defaultTimeout bounds one collaborator round trip when none is configured.
const defaultTimeout = 2 * time.Minute

// defaultMaxTokens is the fallback when Request.MaxTokens is not set.
const defaultMaxTokens = 8192

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 10 * 1024 * 1024

// Request holds the parameters for one completion call.
type Request struct {
	SystemPrompt string
	UserPrompt   string
	// JSON asks the provider for a bare JSON document.
	JSON        bool
	Temperature float64
	MaxTokens   int
}

// Response holds the result of a completion call.
type Response struct {
	Content string
	Model   string // provider:model actually used
}

// Provider is the interface for completion backends.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ProviderConfig selects and configures a backend.
type ProviderConfig struct {
	Name    string // "gemini" or "openai"
	Model   string
	APIKey  string
	Timeout time.Duration
}

// NewProvider returns the backend named in cfg. The API key is validated
// immediately so a misconfigured server fails at startup.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("coach: no API key configured for provider %q", cfg.Name)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := &http.Client{Timeout: timeout}

	switch cfg.Name {
	case "gemini", "":
		model := cfg.Model
		if model == "" {
			model = "gemini-2.5-flash"
		}
		return &geminiProvider{model: model, apiKey: cfg.APIKey, http: client}, nil
	case "openai":
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return &openaiProvider{model: model, apiKey: cfg.APIKey, http: client}, nil
	default:
		return nil, fmt.Errorf("coach: unknown provider %q: supported providers are gemini, openai", cfg.Name)
	}
}

// truncate limits a string to maxLen runes, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen]) + "..."
}
