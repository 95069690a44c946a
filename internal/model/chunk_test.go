package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChunkDerivesContentHash(t *testing.T) {
	c := NewChunk("a.go", 1, 10, "package a", "module-level", "go", "# File: a.go")
	assert.Len(t, c.ContentHash(), 16)

	other := NewChunk("a.go", 1, 10, "package a // changed", "module-level", "go", "# File: a.go")
	assert.NotEqual(t, c.ContentHash(), other.ContentHash())
}

func TestChunkIDChangesWithContent(t *testing.T) {
	c1 := NewChunk("a.go", 1, 10, "v1", "module-level", "go", "")
	c2 := NewChunk("a.go", 1, 10, "v2", "module-level", "go", "")
	assert.NotEqual(t, c1.ChunkID(), c2.ChunkID())
	assert.Contains(t, c1.ChunkID(), "a.go:1-10:")
}

func TestEmbeddingTextPrependsHeader(t *testing.T) {
	c := NewChunk("a.go", 1, 2, "body", "module-level", "go", "header")
	assert.Equal(t, "header\nbody", c.EmbeddingText())
}
