package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultOllamaURL is the chat endpoint of a local Ollama server.
const DefaultOllamaURL = "http://localhost:11434/api/chat"

// Ollama talks to the Ollama chat API with streaming disabled.
type Ollama struct {
	url    string
	client *http.Client
}

// NewOllama creates an Ollama client. A zero timeout leaves the call unbounded.
func NewOllama(url string, timeout time.Duration) *Ollama {
	if url == "" {
		url = DefaultOllamaURL
	}
	return &Ollama{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type ollamaChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type ollamaChatResponse struct {
	Message Message `json:"message"`
}

// Chat implements ChatClient.
func (o *Ollama) Chat(ctx context.Context, model string, messages []Message) (string, error) {
	body, err := json.Marshal(ollamaChatRequest{Model: model, Messages: messages, Stream: false})
	if err != nil {
		return "", fmt.Errorf("ollama: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ollama: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama: status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}

	var out ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama: decode response: %w", err)
	}
	return out.Message.Content, nil
}
