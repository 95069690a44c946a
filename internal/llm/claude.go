package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/codesight/codesight/internal/codesight"
)

// claudeBackend calls the Anthropic Messages API directly over HTTP. No
// anthropic-sdk-go (or any Anthropic client) appears anywhere in the
// reference corpus, so this follows the same external-HTTP-collaborator
// shape the teacher uses for its local embedding process.
type claudeBackend struct {
	apiKey string
	model  string
	client *http.Client
}

func newClaudeBackend(apiKey, model string) *claudeBackend {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &claudeBackend{apiKey: apiKey, model: model, client: &http.Client{Timeout: requestTimeoutSeconds * time.Second}}
}

type claudeRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	System    string          `json:"system"`
	Messages  []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (b *claudeBackend) Complete(ctx context.Context, userPrompt string) (string, error) {
	reqBody := claudeRequest{
		Model:     b.model,
		MaxTokens: 2048,
		System:    systemPrompt,
		Messages:  []claudeMessage{{Role: "user", Content: userPrompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encoding claude request: %v", codesight.ErrLLM, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: building claude request: %v", codesight.ErrLLM, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", b.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: calling claude: %v", codesight.ErrLLM, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: claude returned status %d", codesight.ErrLLM, resp.StatusCode)
	}

	var out claudeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decoding claude response: %v", codesight.ErrLLM, err)
	}
	if len(out.Content) == 0 {
		return "", nil
	}
	return out.Content[0].Text, nil
}

func (b *claudeBackend) ModelID() string { return "claude:" + b.model }
