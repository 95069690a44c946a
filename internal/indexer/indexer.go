// Package indexer runs the full or incremental index of a folder: walk,
// route, chunk, diff against the store, embed, and write. Grounded on
// original_source/indexer.py's index_repo, restructured into Go's
// explicit-error idiom and the teacher's batch-then-flush style.
package indexer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/codesight/codesight/internal/chunk"
	"github.com/codesight/codesight/internal/codesight"
	"github.com/codesight/codesight/internal/embed"
	"github.com/codesight/codesight/internal/extract"
	"github.com/codesight/codesight/internal/gitmeta"
	"github.com/codesight/codesight/internal/logging"
	"github.com/codesight/codesight/internal/model"
	"github.com/codesight/codesight/internal/store"
	"github.com/codesight/codesight/internal/walk"
)

const batchSize = 64

// Options configures one Run.
type Options struct {
	ChunkMaxLines   int
	ChunkOverlap    int
	DocMaxChars     int
	DocOverlapChars int
	ForceRebuild    bool
	EmbeddingModel  string

	// Progress, when set, drives a caller-owned progress indicator:
	// Start is called once with the discovered file count, Step once per
	// file as the walk loop reaches it (whether or not it was skipped).
	Progress ProgressReporter
}

// ProgressReporter receives indexing progress callbacks. Both methods are
// optional to implement meaningfully — a no-op implementation is valid.
type ProgressReporter interface {
	Start(total int)
	Step()
}

// Stats summarizes one index run, mirroring the original's IndexStats.
type Stats struct {
	FilesIndexed           int     `json:"files_indexed"`
	ChunksCreated          int     `json:"chunks_created"`
	ChunksSkippedUnchanged int     `json:"chunks_skipped_unchanged"`
	ChunksDeleted          int     `json:"chunks_deleted"`
	TotalChunks            int     `json:"total_chunks"`
	ElapsedSeconds         float64 `json:"elapsed_seconds"`
}

// Run walks root, chunks every indexable file, skips chunks whose content
// hash already matches the store, embeds and writes everything else in
// batches, and updates repo_meta. Cancelling ctx stops the walk/embed loop
// at the next file boundary; work already written to the store is not
// rolled back (matches spec §5: "no dirty partial state you need to clean
// up — the store simply reflects however much was written").
func Run(ctx context.Context, root string, s *store.Store, provider embed.Provider, log *logging.Logger, opts Options) (Stats, error) {
	start := time.Now()

	w, err := walk.New(root)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %v", codesight.ErrWalk, err)
	}
	files, err := w.Discover()
	if err != nil {
		return Stats{}, err
	}
	log.Info("found %d indexable files in %s", len(files), root)
	if opts.Progress != nil {
		opts.Progress.Start(len(files))
	}

	stats := Stats{}
	var batch []model.Chunk

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := embedAndStore(ctx, batch, provider, s); err != nil {
			return err
		}
		stats.ChunksCreated += len(batch)
		batch = batch[:0]
		return nil
	}

	for _, f := range files {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}
		if opts.Progress != nil {
			opts.Progress.Step()
		}

		if !opts.ForceRebuild {
			if info, err := os.Stat(f.AbsPath); err == nil {
				if storedMtime, known, err := s.FileMtime(f.RelPath); err == nil && known && storedMtime == info.ModTime().Unix() {
					// mtime fast path: unchanged since last index, skip read+chunk
					// entirely, but still account for the file and its chunks so
					// IndexStats reflects reality (files_indexed/chunks_skipped_unchanged
					// must hold even when the skip never reaches the hash diff below).
					existingHashes, err := s.ChunkHashesForFile(f.RelPath)
					if err != nil {
						return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
					}
					stats.FilesIndexed++
					stats.ChunksSkippedUnchanged += len(existingHashes)
					continue
				}
			}
		}

		chunks, err := chunkFile(f, opts)
		if err != nil {
			log.Warn("skipping %s: %v", f.RelPath, err)
			continue
		}
		if len(chunks) == 0 {
			continue
		}

		existingHashes, err := s.ChunkHashesForFile(f.RelPath)
		if err != nil {
			return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
		}

		newIDs := map[string]bool{}
		for _, c := range chunks {
			newIDs[c.ChunkID()] = true
		}
		changed := len(newIDs) != len(existingHashes)
		if !changed {
			for id := range existingHashes {
				if !newIDs[id] {
					changed = true
					break
				}
			}
		}
		if changed {
			deleted, err := s.DeleteFileChunks(f.RelPath)
			if err != nil {
				return stats, err
			}
			stats.ChunksDeleted += deleted
			existingHashes = map[string]string{}
		}

		stats.FilesIndexed++

		for _, c := range chunks {
			if !opts.ForceRebuild && hasMatchingHash(existingHashes, c) {
				stats.ChunksSkippedUnchanged++
				continue
			}
			batch = append(batch, c)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return stats, err
				}
			}
		}

		// Mtimes are compared at one-second resolution, so one is recorded
		// only after its second has passed: a rewrite within that same
		// second would otherwise look unchanged to the fast path.
		if info, err := os.Stat(f.AbsPath); err == nil && info.ModTime().Unix() < time.Now().Unix() {
			_ = s.SetFileMtime(f.RelPath, info.ModTime())
		}
	}

	if err := flush(); err != nil {
		return stats, err
	}

	if err := pruneDeletedFiles(s, files, &stats); err != nil {
		return stats, err
	}

	if gitmeta.IsRepo(root) {
		if commit := gitmeta.CurrentCommit(root); commit != "" {
			if err := s.SetMeta("last_commit", commit); err != nil {
				return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
			}
		}
	}
	if err := s.TouchIndexed(); err != nil {
		return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	if err := s.SetMeta("embedding_model", opts.EmbeddingModel); err != nil {
		return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}

	total, err := s.ChunkCount()
	if err != nil {
		return stats, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	stats.TotalChunks = total
	stats.ElapsedSeconds = roundSeconds(time.Since(start))

	log.Info("indexed %s: %d files, %d chunks created, %d skipped in %.1fs",
		root, stats.FilesIndexed, stats.ChunksCreated, stats.ChunksSkippedUnchanged, stats.ElapsedSeconds)

	return stats, nil
}

// pruneDeletedFiles removes chunks for files the store knows about but the
// walk no longer found on disk, adding each removal to stats.ChunksDeleted.
func pruneDeletedFiles(s *store.Store, walked []walk.File, stats *Stats) error {
	known, err := s.KnownFiles()
	if err != nil {
		return fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	walkedSet := map[string]bool{}
	for _, f := range walked {
		walkedSet[f.RelPath] = true
	}
	for _, relPath := range known {
		if walkedSet[relPath] {
			continue
		}
		deleted, err := s.DeleteFileChunks(relPath)
		if err != nil {
			return err
		}
		stats.ChunksDeleted += deleted
	}
	return nil
}

func hasMatchingHash(existing map[string]string, c model.Chunk) bool {
	for _, hash := range existing {
		if hash == c.ContentHash() {
			return true
		}
	}
	return false
}

// chunkFile reads, routes, and chunks one file.
func chunkFile(f walk.File, opts Options) ([]model.Chunk, error) {
	if extract.IsDocument(f.RelPath) {
		pages, err := extract.Text(f.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", codesight.ErrExtractor, err)
		}
		if len(pages) == 0 {
			return nil, nil
		}
		return chunk.Document(pages, f.RelPath, chunk.DocOptions{
			MaxChars:     opts.DocMaxChars,
			OverlapChars: opts.DocOverlapChars,
		}), nil
	}

	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", codesight.ErrChunker, f.RelPath, err)
	}

	return chunk.File(string(content), f.RelPath, chunk.CodeOptions{
		MaxLines:     opts.ChunkMaxLines,
		OverlapLines: opts.ChunkOverlap,
	}), nil
}

func embedAndStore(ctx context.Context, chunks []model.Chunk, provider embed.Provider, s *store.Store) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.EmbeddingText()
	}

	vectors, err := provider.Embed(ctx, texts, embed.ModePassage)
	if err != nil {
		return fmt.Errorf("%w: %v", codesight.ErrEmbedder, err)
	}

	if err := s.UpsertChunks(chunks, vectors); err != nil {
		return err
	}
	return nil
}

func roundSeconds(d time.Duration) float64 {
	return float64(int(d.Seconds()*100)) / 100
}
