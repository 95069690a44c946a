package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/codesight/codesight/internal/codesight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUserPromptFormatsSources(t *testing.T) {
	prompt := BuildUserPrompt("what does foo do?", []Source{
		{FilePath: "a.go", Scope: "function foo", Snippet: "func foo() {}"},
		{FilePath: "b.go", Scope: "function bar", Snippet: "func bar() {}"},
	})

	assert.Contains(t, prompt, "Question: what does foo do?")
	assert.Contains(t, prompt, "[Source 1: a.go, function foo]\nfunc foo() {}")
	assert.Contains(t, prompt, "[Source 2: b.go, function bar]\nfunc bar() {}")
	assert.Contains(t, prompt, "\n\n---\n\n")
}

func TestNewBackendRejectsUnknownBackend(t *testing.T) {
	_, err := NewBackend(Config{Backend: "not-a-backend"})
	require.Error(t, err)
}

func TestNewBackendRequiresCredentials(t *testing.T) {
	_, err := NewBackend(Config{Backend: "claude"})
	assert.Error(t, err)

	_, err = NewBackend(Config{Backend: "openai"})
	assert.Error(t, err)

	_, err = NewBackend(Config{Backend: "azure"})
	assert.Error(t, err)
}

func TestNewBackendOllamaDefaultsHost(t *testing.T) {
	b, err := NewBackend(Config{Backend: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, "ollama:llama3", b.ModelID())

	ob, ok := b.(*ollamaBackend)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", ob.host)
}

func TestOllamaCompleteWrapsErrLLMOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	b, err := NewBackend(Config{Backend: "ollama", Model: "llama3", OllamaHost: srv.URL})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), "what does foo do?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, codesight.ErrLLM))
}

func TestOllamaCompleteWrapsErrLLMOnTransportFailure(t *testing.T) {
	b, err := NewBackend(Config{Backend: "ollama", Model: "llama3", OllamaHost: "http://127.0.0.1:0"})
	require.NoError(t, err)

	_, err = b.Complete(context.Background(), "what does foo do?")
	require.Error(t, err)
	assert.True(t, errors.Is(err, codesight.ErrLLM))
}
