// Package model holds the data types shared by the chunker, the dual
// store, and the retriever.
package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Chunk is a single unit of searchable content: a scope-delimited slice of
// a code file, or a paragraph-bounded slice of a document page.
type Chunk struct {
	FilePath      string // relative to the folder root
	StartLine     int    // 1-indexed; page/slide number for document chunks
	EndLine       int    // 1-indexed, inclusive
	Content       string // raw text
	Scope         string // e.g. "function validate_token", "page 3"
	Language      string // e.g. "python", "pdf", "docx"
	ContextHeader string // prepended before embedding

	contentHash string
}

// NewChunk builds a Chunk and derives its content hash from Content. Callers
// never set ContentHash directly — it always follows from Content, the same
// way the dataclass computes it in __post_init__.
func NewChunk(filePath string, startLine, endLine int, content, scope, language, contextHeader string) Chunk {
	sum := sha256.Sum256([]byte(content))
	return Chunk{
		FilePath:      filePath,
		StartLine:     startLine,
		EndLine:       endLine,
		Content:       content,
		Scope:         scope,
		Language:      language,
		ContextHeader: contextHeader,
		contentHash:   hex.EncodeToString(sum[:])[:16],
	}
}

// ContentHash is the first 16 hex characters of the SHA-256 of Content.
func (c Chunk) ContentHash() string { return c.contentHash }

// EmbeddingText is the text sent to the embedding model: the context header
// followed by the raw content.
func (c Chunk) EmbeddingText() string {
	return c.ContextHeader + "\n" + c.Content
}

// ChunkID is the content-addressed identifier: file path, line range, and
// content hash. It changes whenever the content changes, which is exactly
// what makes unchanged-chunk skipping and upsert-by-ID work.
func (c Chunk) ChunkID() string {
	return fmt.Sprintf("%s:%d-%d:%s", c.FilePath, c.StartLine, c.EndLine, c.contentHash)
}

// RepoMeta is the small key/value metadata record kept per indexed folder.
type RepoMeta struct {
	EmbeddingModel     string
	LastIndexedAt      int64 // unix seconds; 0 means never indexed
	LastCommit         string
	RepoCanonicalPath  string
}
