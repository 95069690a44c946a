package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync"
)

// MockProvider is a test provider that derives deterministic, reproducible
// embeddings from a text's hash. Adapted from the teacher's mock
// provider, generalized to a configurable dimension and normalized
// output so it behaves like a real provider for RRF/cosine tests.
type MockProvider struct {
	mu          sync.Mutex
	dim         int
	closeCalled bool
	closeError  error
	embedError  error
}

// NewMockProvider creates a mock embedding provider for testing.
func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 384
	}
	return &MockProvider{dim: dim}
}

func newMockProvider(dim int) Provider { return NewMockProvider(dim) }

// SetCloseError configures the mock to return an error on Close().
func (p *MockProvider) SetCloseError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeError = err
}

// SetEmbedError configures the mock to return an error on Embed().
func (p *MockProvider) SetEmbedError(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.embedError = err
}

// Embed generates deterministic embeddings by hashing each input text.
func (p *MockProvider) Embed(ctx context.Context, texts []string, mode Mode) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.embedError != nil {
		return nil, p.embedError
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		hash := sha256.Sum256([]byte(text))
		v := make([]float32, p.dim)
		for j := 0; j < p.dim; j++ {
			offset := (j * 4) % len(hash)
			val := binary.BigEndian.Uint32(hash[offset : offset+4])
			v[j] = (float32(val)/float32(1<<32))*2.0 - 1.0
		}
		normalize(v)
		embeddings[i] = v
	}
	return embeddings, nil
}

// Dimensions returns the configured mock dimension.
func (p *MockProvider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dim
}

// Close tracks that Close was called and returns any configured error.
func (p *MockProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeCalled = true
	return p.closeError
}

// IsClosed returns whether Close has been called.
func (p *MockProvider) IsClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCalled
}
