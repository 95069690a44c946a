package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codesight/codesight/internal/codesight"
)

// ollamaBackend calls a local Ollama server's /api/chat endpoint. The
// ollama/ollama module appears in the corpus only as a heavy indirect
// dependency of an unrelated tool, not something meant to be imported
// directly — this mirrors the original implementation's own raw HTTP
// client instead.
type ollamaBackend struct {
	host   string
	model  string
	client *http.Client
}

func newOllamaBackend(host, model string) *ollamaBackend {
	if model == "" {
		model = "llama3"
	}
	return &ollamaBackend{host: strings.TrimSuffix(host, "/"), model: model, client: &http.Client{Timeout: requestTimeoutSeconds * time.Second}}
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
}

type ollamaResponse struct {
	Message ollamaMessage `json:"message"`
}

func (b *ollamaBackend) Complete(ctx context.Context, userPrompt string) (string, error) {
	reqBody := ollamaRequest{
		Model: b.model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encoding ollama request: %v", codesight.ErrLLM, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.host+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building ollama request: %v", codesight.ErrLLM, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling ollama: %v", codesight.ErrLLM, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: ollama returned status %d", codesight.ErrLLM, resp.StatusCode)
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding ollama response: %v", codesight.ErrLLM, err)
	}
	return out.Message.Content, nil
}

func (b *ollamaBackend) ModelID() string { return "ollama:" + b.model }
