// Package codesight holds error kinds shared across the indexing and
// retrieval pipeline, so callers can branch on errors.Is regardless of
// which component raised them.
package codesight

import "errors"

// Sentinel error kinds. Each component wraps one of these with
// fmt.Errorf("...: %w", ErrX) so callers can test with errors.Is while still
// getting a specific message.
var (
	// ErrWalk covers filesystem traversal failures (unreadable directory,
	// permission denied). Fatal: aborts the whole index run.
	ErrWalk = errors.New("walk error")

	// ErrExtractor covers a single document failing to parse (corrupt PDF,
	// malformed DOCX/PPTX). Logged and skipped; never fatal.
	ErrExtractor = errors.New("extractor failure")

	// ErrChunker covers a single file failing to chunk. Logged and skipped.
	ErrChunker = errors.New("chunker failure")

	// ErrEmbedder covers the embedding provider failing for a batch. Fatal
	// for the run: an index without vectors for some chunks is inconsistent.
	ErrEmbedder = errors.New("embedder failure")

	// ErrStore covers the dual-store backend failing to read or write.
	// Fatal.
	ErrStore = errors.New("store failure")

	// ErrRetriever covers the hybrid retriever failing (either sub-search
	// erroring). Propagated to the caller.
	ErrRetriever = errors.New("retriever failure")

	// ErrConfig covers invalid configuration (unknown backend name, missing
	// required credential). Fatal, caught before a run starts.
	ErrConfig = errors.New("config error")

	// ErrLLM covers the answer-generation backend failing (request error,
	// non-2xx response, malformed reply). Propagated to the ask caller.
	ErrLLM = errors.New("llm failure")
)
