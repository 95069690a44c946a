package chunk

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/codesight/codesight/internal/extract"
	"github.com/codesight/codesight/internal/model"
)

var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// DocOptions configures Document, the document chunker.
type DocOptions struct {
	MaxChars     int
	OverlapChars int
}

// Document splits extracted document pages into chunks by paragraph
// boundary. StartLine/EndLine carry the page number; Scope carries the
// page's heading when the extractor found one, else "page N".
func Document(pages []extract.Page, filePath string, opts DocOptions) []model.Chunk {
	language := strings.TrimPrefix(strings.ToLower(filepath.Ext(filePath)), ".")

	var chunks []model.Chunk
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		scope := page.Heading
		if scope == "" {
			scope = "page " + strconv.Itoa(page.Number)
		}
		chunks = append(chunks, splitByParagraphs(page.Text, filePath, page.Number, scope, language, opts)...)
	}
	return chunks
}

func splitByParagraphs(text, filePath string, pageNumber int, scope, language string, opts DocOptions) []model.Chunk {
	raw := paragraphBreak.Split(text, -1)
	var paragraphs []string
	for _, p := range raw {
		if t := strings.TrimSpace(p); t != "" {
			paragraphs = append(paragraphs, t)
		}
	}
	if len(paragraphs) == 0 {
		return nil
	}

	var chunks []model.Chunk
	current := ""

	flush := func() {
		header := makeContextHeader(filePath, scope, pageNumber, pageNumber)
		chunks = append(chunks, model.NewChunk(filePath, pageNumber, pageNumber, current, scope, language, header))
	}

	for _, para := range paragraphs {
		if current != "" && len(current)+len(para)+2 > opts.MaxChars {
			flush()
			if opts.OverlapChars > 0 && len(current) > opts.OverlapChars {
				current = current[len(current)-opts.OverlapChars:]
			} else {
				current = ""
			}
		}

		if current != "" {
			current += "\n\n" + para
		} else {
			current = para
		}
	}

	if strings.TrimSpace(current) != "" {
		flush()
	}

	return chunks
}
