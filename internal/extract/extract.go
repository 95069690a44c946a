// Package extract converts binary document formats (PDF, DOCX, PPTX) into
// structured text pages for the chunking pipeline. Each extractor is a
// narrow, best-effort collaborator: a failure to parse one file logs a
// warning and yields zero pages, it never aborts the index run (spec's
// ExtractorFailure policy).
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Page is one page (PDF), heading-delimited section (DOCX), or slide
// (PPTX) of extracted text.
type Page struct {
	Text    string
	Number  int // 1-indexed
	Heading string // section/slide title, empty if none was found
}

// IsDocument reports whether filePath has an extension handled by this
// package.
func IsDocument(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf", ".docx", ".pptx":
		return true
	default:
		return false
	}
}

// Text extracts pages from a document file, routing by extension.
func Text(filePath string) ([]Page, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return extractPDF(filePath)
	case ".docx":
		return extractDOCX(filePath)
	case ".pptx":
		return extractPPTX(filePath)
	default:
		return nil, fmt.Errorf("unsupported document format: %s", ext)
	}
}
