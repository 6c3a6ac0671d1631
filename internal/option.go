package internal

import (
	"io"
	"time"

	"github.com/starford/notetasks/internal/llm"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	client llm.ChatClient
	out    io.Writer
	logOut io.Writer
	now    func() time.Time
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithChatClient replaces the chat client built from the llm section.
func WithChatClient(c llm.ChatClient) Option {
	return func(a *application) {
		a.client = c
	}
}

// WithOutput sets where the human-readable report is written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

// WithLogOutput sets where JSON logs are written. Defaults to stderr.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithClock overrides the clock used for note dates and prompts.
func WithClock(now func() time.Time) Option {
	return func(a *application) {
		a.now = now
	}
}
