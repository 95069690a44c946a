// Package llm implements the ask-command's answer-generation backend: a
// small capability interface with four concrete variants (Claude, Azure
// OpenAI, OpenAI, Ollama), dispatched by a factory from a backend name —
// never by runtime monkey-patching. Grounded on original_source/llm.py.
package llm

import (
	"context"
	"fmt"

	"github.com/codesight/codesight/internal/codesight"
)

const systemPrompt = `You are a code search assistant. Answer the user's question using only ` +
	`the provided source snippets. Cite the file path and line range for every claim. ` +
	`If the snippets don't contain enough information to answer, say so.`

const requestTimeoutSeconds = 30

// Backend generates an answer to a question given retrieved context.
type Backend interface {
	// Complete sends systemPrompt + userPrompt to the model and returns its
	// answer text.
	Complete(ctx context.Context, userPrompt string) (string, error)

	// ModelID identifies the backend and model, formatted "{backend}:{model}".
	ModelID() string
}

var validBackends = map[string]bool{
	"claude": true, "azure": true, "openai": true, "ollama": true,
}

// Config carries the environment-derived settings for whichever backend is
// selected.
type Config struct {
	Backend string
	Model   string

	AnthropicAPIKey string

	AzureAPIKey    string
	AzureEndpoint  string
	AzureDeployment string

	OpenAIAPIKey string

	OllamaHost string
}

// NewBackend builds the Backend named by cfg.Backend.
func NewBackend(cfg Config) (Backend, error) {
	if !validBackends[cfg.Backend] {
		return nil, fmt.Errorf("%w: unknown llm backend %q (valid: claude, azure, openai, ollama)", codesight.ErrConfig, cfg.Backend)
	}

	switch cfg.Backend {
	case "claude":
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: claude backend requires ANTHROPIC_API_KEY", codesight.ErrConfig)
		}
		return newClaudeBackend(cfg.AnthropicAPIKey, cfg.Model), nil

	case "azure":
		if cfg.AzureAPIKey == "" || cfg.AzureEndpoint == "" || cfg.AzureDeployment == "" {
			return nil, fmt.Errorf("%w: azure backend requires AZURE_OPENAI_API_KEY, AZURE_OPENAI_ENDPOINT, and AZURE_OPENAI_DEPLOYMENT", codesight.ErrConfig)
		}
		return newAzureBackend(cfg.AzureAPIKey, cfg.AzureEndpoint, cfg.AzureDeployment, cfg.Model), nil

	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: openai backend requires OPENAI_API_KEY", codesight.ErrConfig)
		}
		return newOpenAIBackend(cfg.OpenAIAPIKey, cfg.Model), nil

	case "ollama":
		host := cfg.OllamaHost
		if host == "" {
			host = "http://localhost:11434"
		}
		return newOllamaBackend(host, cfg.Model), nil
	}

	panic("unreachable")
}

// BuildUserPrompt assembles the question plus retrieved snippets in the
// exact format spec §6 names: the question first, then
// "[Source i: path, scope]\n<snippet>" blocks joined by a "\n\n---\n\n"
// separator.
func BuildUserPrompt(question string, sources []Source) string {
	blocks := make([]string, len(sources))
	for i, s := range sources {
		blocks[i] = fmt.Sprintf("[Source %d: %s, %s]\n%s", i+1, s.FilePath, s.Scope, s.Snippet)
	}

	joined := ""
	for i, b := range blocks {
		if i > 0 {
			joined += "\n\n---\n\n"
		}
		joined += b
	}

	return fmt.Sprintf("Question: %s\n\n%s", question, joined)
}

// Source is one retrieved snippet fed into the prompt.
type Source struct {
	FilePath string
	Scope    string
	Snippet  string
}
