package extract

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDocumentRecognizesSupportedExtensions(t *testing.T) {
	assert.True(t, IsDocument("report.PDF"))
	assert.True(t, IsDocument("notes.docx"))
	assert.True(t, IsDocument("deck.pptx"))
	assert.False(t, IsDocument("main.go"))
}

func TestTextRejectsUnsupportedExtension(t *testing.T) {
	_, err := Text("archive.zip")
	assert.Error(t, err)
}

func TestTextReturnsErrorForMissingFile(t *testing.T) {
	_, err := Text(filepath.Join(t.TempDir(), "missing.pdf"))
	require.Error(t, err)
}
