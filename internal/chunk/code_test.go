package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileEmptyContent(t *testing.T) {
	assert.Nil(t, File("   \n\n", "a.go", CodeOptions{MaxLines: 50, OverlapLines: 5}))
}

func TestFileSplitsGoByBoundary(t *testing.T) {
	src := "package a\n\nfunc A() {\n\treturn\n}\n\nfunc B() {\n\treturn\n}\n"
	chunks := File(src, "a.go", CodeOptions{MaxLines: 50, OverlapLines: 5})
	// Line 0 is always a boundary, so the package clause before the first
	// func forms its own leading chunk.
	require.Len(t, chunks, 3)
	assert.Equal(t, "function A", chunks[1].Scope)
	assert.Equal(t, "function B", chunks[2].Scope)
	assert.Equal(t, "go", chunks[0].Language)
}

func TestFileOversizedBoundarySplitsIntoWindows(t *testing.T) {
	var b strings.Builder
	b.WriteString("func Big() {\n")
	for i := 0; i < 100; i++ {
		b.WriteString("\tx := 1\n")
	}
	b.WriteString("}\n")

	chunks := File(b.String(), "big.go", CodeOptions{MaxLines: 20, OverlapLines: 5})
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.EndLine-c.StartLine+1, 20)
	}
}

func TestFileUnknownLanguageFallsBackToWindows(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("some line of text\n")
	}
	chunks := File(b.String(), "notes.xyz", CodeOptions{MaxLines: 10, OverlapLines: 2})
	require.NotEmpty(t, chunks)
	assert.Equal(t, "unknown", chunks[0].Language)
}
