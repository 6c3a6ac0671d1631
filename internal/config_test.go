package internal

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.Notes.MaxAgeDays != 7 {
		t.Errorf("max_age_days = %d, want 7", cfg.Notes.MaxAgeDays)
	}
	if cfg.Journal.Enabled() {
		t.Error("journal should be disabled by default")
	}
	if cfg.App.HTTP.Enabled() {
		t.Error("status server should be disabled by default")
	}
}

func TestNotesConfig_BaseDirRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.BaseDir = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("empty base dir should fail validation")
	}
	if !strings.Contains(err.Error(), "notes") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNotesConfig_NegativeWindow(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Notes.MaxAgeDays = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("negative window should fail validation")
	}
}

func TestLLMConfig_Provider(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LLM.Provider = "gemini"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("gemini provider should pass: %v", err)
	}
	cfg.LLM.Provider = "magic"
	if err := cfg.Validate(); err == nil {
		t.Fatal("unknown provider should fail validation")
	}
}

func TestLLMConfig_ModelRequired(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LLM.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty ollama model should fail validation")
	}

	cfg.LLM.Provider = "gemini"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("ollama model is not needed for gemini: %v", err)
	}
	cfg.LLM.GeminiModel = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty gemini model should fail validation")
	}
}

func TestLLMConfig_ModelName(t *testing.T) {
	cfg := NewDefaultConfig()
	if got := cfg.LLM.ModelName(); got != "gemma3:12b" {
		t.Errorf("ollama model = %q, want %q", got, "gemma3:12b")
	}
	cfg.LLM.Provider = "gemini"
	if got := cfg.LLM.ModelName(); got != "gemini-2.5-flash" {
		t.Errorf("gemini model = %q, want %q", got, "gemini-2.5-flash")
	}
}

func TestLLMConfig_Options(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.LLM.Timeout = 30 * time.Second
	opts := cfg.LLM.Options()
	if opts.Provider != "ollama" || opts.Timeout != 30*time.Second || opts.OllamaURL == "" {
		t.Errorf("options = %+v", opts)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("port out of range should fail validation")
	}
}
