// Package engine is CodeSight's single entry point: it owns one folder's
// Store and embedding Provider, and exposes Index, Search, Ask, and Status
// as the four operations both the CLI and any embedding caller drive.
// Grounded on original_source/api.py's CodeSight class, with the
// teacher's explicit-construction-over-global-singleton style.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/codesight/codesight/internal/cache"
	"github.com/codesight/codesight/internal/codesight"
	"github.com/codesight/codesight/internal/config"
	"github.com/codesight/codesight/internal/embed"
	"github.com/codesight/codesight/internal/indexer"
	"github.com/codesight/codesight/internal/llm"
	"github.com/codesight/codesight/internal/logging"
	"github.com/codesight/codesight/internal/retrieve"
	"github.com/codesight/codesight/internal/store"
)

var providerCache *cache.ProviderCache[embed.Provider]

func init() {
	pc, err := cache.NewProviderCache[embed.Provider]()
	if err != nil {
		panic(err) // fixed capacity, only fails on otter misconfiguration
	}
	providerCache = pc
}

// Engine is the opened handle to one folder's index.
type Engine struct {
	cfg      *config.Config
	root     string
	store    *store.Store
	provider embed.Provider
	log      *logging.Logger
	progress indexer.ProgressReporter
}

// Open resolves the data directory for root, opens its Store, and builds
// (or reuses, via the process-wide cache) the configured embedding
// provider. It does not index anything — call Index explicitly, or rely
// on Search/Ask's staleness check to trigger one.
func Open(cfg *config.Config, root string, log *logging.Logger) (*Engine, error) {
	dbPath, err := config.RepoMetadataDBPath(cfg.DataDir, root)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dbPath, cfg.EmbeddingDim)
	if err != nil {
		return nil, err
	}

	key := cache.Key(cfg.EmbeddingModel, cfg.EmbeddingDim, cfg.EmbeddingBackend)
	provider, err := providerCache.GetOrCreate(key, func() (embed.Provider, error) {
		return embed.NewProvider(embed.Config{
			Backend:  cfg.EmbeddingBackend,
			Endpoint: cfg.EmbeddingEndpoint,
			Model:    cfg.EmbeddingModel,
			Dim:      cfg.EmbeddingDim,
		})
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", codesight.ErrEmbedder, err)
	}

	return &Engine{cfg: cfg, root: root, store: s, provider: provider, log: log}, nil
}

// Close releases the Store handle. The embedding provider is process-wide
// cached and is not closed here.
func (e *Engine) Close() error { return e.store.Close() }

func (e *Engine) indexerOptions(forceRebuild bool) indexer.Options {
	return indexer.Options{
		ChunkMaxLines:   e.cfg.ChunkMaxLines,
		ChunkOverlap:    e.cfg.ChunkOverlapLines,
		DocMaxChars:     e.cfg.DocChunkMaxChars,
		DocOverlapChars: e.cfg.DocChunkOverlapChars,
		ForceRebuild:    forceRebuild,
		EmbeddingModel:  e.cfg.EmbeddingModel,
		Progress:        e.progress,
	}
}

// Index runs a full indexing pass over root. forceRebuild re-embeds every
// chunk regardless of content-hash match (used both for an explicit
// `--force` and for the automatic rebuild Search/Ask trigger on an
// embedding-model change).
func (e *Engine) Index(ctx context.Context, forceRebuild bool) (indexer.Stats, error) {
	return indexer.Run(ctx, e.root, e.store, e.provider, e.log, e.indexerOptions(forceRebuild))
}

// SetProgress installs a progress reporter used by subsequent Index calls.
// Optional — callers that don't care about progress (a library caller, a
// test) never need to call this.
func (e *Engine) SetProgress(p indexer.ProgressReporter) { e.progress = p }

// ensureIndexed implements spec's staleness policy: if the folder has
// never been indexed, if the last index predates StaleThresholdSeconds,
// or if the configured embedding model no longer matches what the store
// was built with, a (forced, on model change) index run happens before
// the caller's search/ask proceeds.
func (e *Engine) ensureIndexed(ctx context.Context) error {
	meta, err := e.store.Meta()
	if err != nil {
		return err
	}

	if meta.LastIndexedAt == 0 {
		e.log.Info("folder has never been indexed: indexing")
		_, err := e.Index(ctx, false)
		return err
	}

	modelChanged := meta.EmbeddingModel != "" && meta.EmbeddingModel != e.cfg.EmbeddingModel
	if modelChanged {
		e.log.Warn("embedding model changed (%s -> %s): forcing full rebuild", meta.EmbeddingModel, e.cfg.EmbeddingModel)
		_, err := e.Index(ctx, true)
		return err
	}

	age := time.Now().Unix() - meta.LastIndexedAt
	if age > int64(e.cfg.StaleThresholdSeconds) {
		e.log.Info("index is stale (last indexed %ds ago): re-indexing", age)
		_, err := e.Index(ctx, false)
		return err
	}

	return nil
}

// Search runs the hybrid retriever, first ensuring the index is fresh.
func (e *Engine) Search(ctx context.Context, query string, topK int, filePathGlob string) ([]retrieve.Result, error) {
	if err := e.ensureIndexed(ctx); err != nil {
		return nil, err
	}
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	return retrieve.Search(ctx, e.store, e.provider, query, retrieve.Options{
		TopK:                topK,
		CandidateMultiplier: e.cfg.BM25CandidateMultiplier,
		FilePathGlob:        filePathGlob,
	})
}

// AskResult is Ask's return value: the generated answer plus the sources
// it was grounded on.
type AskResult struct {
	Answer  string
	Sources []retrieve.Result
}

// Ask runs Search, then feeds the retrieved snippets and the question to
// the configured LLM backend.
func (e *Engine) Ask(ctx context.Context, question string, topK int, llmCfg llm.Config) (AskResult, error) {
	results, err := e.Search(ctx, question, topK, "")
	if err != nil {
		return AskResult{}, err
	}
	if len(results) == 0 {
		return AskResult{Answer: "No relevant source snippets were found for this question.", Sources: results}, nil
	}

	backend, err := llm.NewBackend(llmCfg)
	if err != nil {
		return AskResult{}, err
	}

	sources := make([]llm.Source, len(results))
	for i, r := range results {
		sources[i] = llm.Source{FilePath: r.FilePath, Scope: r.Scope, Snippet: r.Snippet}
	}

	prompt := llm.BuildUserPrompt(question, sources)
	answer, err := backend.Complete(ctx, prompt)
	if err != nil {
		return AskResult{}, err
	}

	return AskResult{Answer: answer, Sources: results}, nil
}

// Status reports the folder's index state without triggering a rebuild.
type Status struct {
	Indexed        bool   `json:"indexed"`
	ChunkCount     int    `json:"chunk_count"`
	FilesIndexed   int    `json:"files_indexed"`
	LastIndexedAt  int64  `json:"last_indexed_at"`
	LastCommit     string `json:"last_commit"`
	EmbeddingModel string `json:"embedding_model"`
	Stale          bool   `json:"stale"`
}

// Status returns the current index state for root, including whether the
// next Search/Ask call would trigger a rebuild.
func (e *Engine) Status(ctx context.Context) (Status, error) {
	meta, err := e.store.Meta()
	if err != nil {
		return Status{}, err
	}
	chunkCount, err := e.store.ChunkCount()
	if err != nil {
		return Status{}, err
	}
	fileCount, err := e.store.FileCount()
	if err != nil {
		return Status{}, err
	}

	stale := meta.LastIndexedAt == 0 ||
		time.Now().Unix()-meta.LastIndexedAt > int64(e.cfg.StaleThresholdSeconds) ||
		(meta.EmbeddingModel != "" && meta.EmbeddingModel != e.cfg.EmbeddingModel)

	return Status{
		Indexed:        chunkCount > 0,
		ChunkCount:     chunkCount,
		FilesIndexed:   fileCount,
		LastIndexedAt:  meta.LastIndexedAt,
		LastCommit:     meta.LastCommit,
		EmbeddingModel: meta.EmbeddingModel,
		Stale:          stale,
	}, nil
}
