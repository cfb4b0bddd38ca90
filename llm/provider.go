// Package llm wraps the chat and embedding collaborators behind a single
// provider interface. The engine only ever sees this boundary.
package llm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable is returned when the provider endpoint is unreachable.
	ErrUnavailable = errors.New("llm: provider unavailable")

	// ErrRequestFailed is returned when a request reaches the provider but fails.
	ErrRequestFailed = errors.New("llm: request failed")
)

// Provider is the interface for LLM interactions.
type Provider interface {
	// Chat sends a chat completion request.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Embed generates embeddings for a batch of texts.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatRequest is a chat completion request.
type ChatRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	// Seed makes generation reproducible where the backend supports it.
	Seed int64 `json:"seed,omitempty"`
}

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatResponse is a chat completion response.
type ChatResponse struct {
	Content string `json:"content"`
	Model   string `json:"model"`
}

// Config configures a provider endpoint.
type Config struct {
	Provider string // openai, ollama
	Model    string
	BaseURL  string
	APIKey   string
}

// NewProvider creates a provider from config.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAI(cfg)
	case "ollama", "":
		return NewOllama(cfg), nil
	default:
		return nil, fmt.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
