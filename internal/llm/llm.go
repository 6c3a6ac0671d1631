// Package llm provides chat-completion clients for the task extractor.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/starford/notetasks/internal/apperr"
)

// Chat roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Providers.
const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

// Message is one role-tagged chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatClient sends an ordered message sequence to a model and returns its single reply.
type ChatClient interface {
	Chat(ctx context.Context, model string, messages []Message) (string, error)
}

// Options selects and configures a backend.
type Options struct {
	Provider     string
	OllamaURL    string
	GeminiAPIKey string
	Timeout      time.Duration
}

// New returns the ChatClient for opts.Provider.
func New(ctx context.Context, opts Options) (ChatClient, error) {
	switch opts.Provider {
	case ProviderOllama, "":
		return NewOllama(opts.OllamaURL, opts.Timeout), nil
	case ProviderGemini:
		return NewGemini(ctx, opts.GeminiAPIKey)
	default:
		return nil, fmt.Errorf("llm: %w: %q", apperr.ErrUnknownProvider, opts.Provider)
	}
}
