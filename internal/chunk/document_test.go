package chunk

import (
	"strings"
	"testing"

	"github.com/codesight/codesight/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentSkipsBlankPages(t *testing.T) {
	pages := []extract.Page{{Text: "   ", Number: 1}}
	assert.Nil(t, Document(pages, "a.pdf", DocOptions{MaxChars: 500, OverlapChars: 50}))
}

func TestDocumentUsesHeadingAsScope(t *testing.T) {
	pages := []extract.Page{{Text: "hello world", Number: 1, Heading: "Introduction"}}
	chunks := Document(pages, "a.docx", DocOptions{MaxChars: 500, OverlapChars: 50})
	require.Len(t, chunks, 1)
	assert.Equal(t, "Introduction", chunks[0].Scope)
	assert.Equal(t, "docx", chunks[0].Language)
}

func TestDocumentFallsBackToPageNumberScope(t *testing.T) {
	pages := []extract.Page{{Text: "hello world", Number: 3}}
	chunks := Document(pages, "a.pdf", DocOptions{MaxChars: 500, OverlapChars: 50})
	require.Len(t, chunks, 1)
	assert.Equal(t, "page 3", chunks[0].Scope)
	assert.Equal(t, 3, chunks[0].StartLine)
}

func TestDocumentSplitsOnMaxCharsWithOverlap(t *testing.T) {
	para := strings.Repeat("x", 100)
	text := para + "\n\n" + para + "\n\n" + para
	pages := []extract.Page{{Text: text, Number: 1}}
	chunks := Document(pages, "a.pdf", DocOptions{MaxChars: 150, OverlapChars: 20})
	require.Greater(t, len(chunks), 1)
}
