package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notetasks/internal/llm"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Notes   NotesConfig       `yaml:"notes"`
	LLM     LLMConfig         `yaml:"llm"`
	Journal JournalConfig     `yaml:"journal"`
	Watch   WatchConfig       `yaml:"watch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Notes.Validate(); err != nil {
		return fmt.Errorf("notes: %w", err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("llm: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds the watch-mode status server configuration.
// Port 0 disables the server.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Enabled reports whether the status server should be started.
func (c *HTTPConfig) Enabled() bool {
	return c.Port > 0
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Min(0), validation.Max(65535)),
	)
}

// NotesConfig describes where notes live and which of them are processed.
type NotesConfig struct {
	BaseDir    string `yaml:"base_dir"`
	MaxAgeDays int    `yaml:"max_age_days"`
	DryRun     bool   `yaml:"dry_run"`
}

// Validate validates the notes configuration.
func (c *NotesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseDir, validation.Required),
		validation.Field(&c.MaxAgeDays, validation.Min(0)),
	)
}

// LLMConfig selects the chat backend and model.
type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	Model        string        `yaml:"model"`
	GeminiModel  string        `yaml:"gemini_model"`
	OllamaURL    string        `yaml:"ollama_url"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	Timeout      time.Duration `yaml:"timeout"`
}

// Validate validates the LLM configuration.
func (c *LLMConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Provider, validation.Required, validation.In(llm.ProviderOllama, llm.ProviderGemini)),
		validation.Field(&c.Model, validation.When(c.Provider == llm.ProviderOllama, validation.Required)),
		validation.Field(&c.GeminiModel, validation.When(c.Provider == llm.ProviderGemini, validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// ModelName returns the model configured for the selected provider.
func (c *LLMConfig) ModelName() string {
	if c.Provider == llm.ProviderGemini {
		return c.GeminiModel
	}
	return c.Model
}

// Options converts the configuration into llm.Options.
func (c *LLMConfig) Options() llm.Options {
	return llm.Options{
		Provider:     c.Provider,
		OllamaURL:    c.OllamaURL,
		GeminiAPIKey: c.GeminiAPIKey,
		Timeout:      c.Timeout,
	}
}

// JournalConfig holds the optional run journal location. An empty path
// disables the journal.
type JournalConfig struct {
	Path string `yaml:"path"`
}

// Enabled reports whether runs should be journaled.
func (c *JournalConfig) Enabled() bool {
	return c.Path != ""
}

// WatchConfig controls the rescan triggers of watch mode.
type WatchConfig struct {
	Schedule string        `yaml:"schedule"`
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Notes: NotesConfig{
			BaseDir:    "./notas",
			MaxAgeDays: 7,
		},
		LLM: LLMConfig{
			Provider:    llm.ProviderOllama,
			Model:       "gemma3:12b",
			GeminiModel: "gemini-2.5-flash",
			OllamaURL:   llm.DefaultOllamaURL,
		},
		Watch: WatchConfig{
			Schedule: "@hourly",
			Debounce: 2 * time.Second,
		},
	}
}
