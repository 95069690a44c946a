package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/codesight/codesight/internal/codesight"
	"github.com/codesight/codesight/internal/model"
)

// Store is the dual-store persistence handle for one folder's index: a
// single SQLite connection hosting both the chunks/FTS5 tables and the
// vec0 vector table, kept consistent by writing both on every
// upsert/delete.
type Store struct {
	db  *sql.DB
	dim int
}

// Open opens (creating if necessary) the sidecar database at path.
func Open(path string, dim int) (*Store, error) {
	db, err := openSchema(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	return &Store{db: db, dim: dim}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// UpsertChunks writes chunk metadata, FTS text, and vectors for a batch.
// chunks and embeddings must be parallel slices. Vector and FTS writes are
// not a single transaction (vec0 and FTS5 virtual tables can't always share
// one), so on partial failure the two indexes are kept consistent by
// idempotent writes keyed by chunk_id (an ON CONFLICT upsert for chunk rows,
// delete-then-insert for vectors) — a retry converges to the same state.
func (s *Store) UpsertChunks(chunks []model.Chunk, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("%w: chunk/embedding count mismatch (%d vs %d)", codesight.ErrStore, len(chunks), len(embeddings))
	}
	if err := UpsertChunks(s.db, chunks); err != nil {
		return fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	for i, c := range chunks {
		if err := UpsertVector(s.db, s.dim, c.ChunkID(), embeddings[i]); err != nil {
			return fmt.Errorf("%w: %v", codesight.ErrStore, err)
		}
	}
	return nil
}

// DeleteFileChunks removes every chunk (FTS metadata + vector) for relPath,
// returning the number of chunks deleted.
func (s *Store) DeleteFileChunks(relPath string) (int, error) {
	ids, err := DeleteChunksForFile(s.db, relPath)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	if err := DeleteVectors(s.db, ids); err != nil {
		return 0, fmt.Errorf("%w: %v", codesight.ErrStore, err)
	}
	if err := DeleteFileMtime(s.db, relPath); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// ChunkHashesForFile exposes the per-file content-hash map used by the
// incremental indexer's diff step.
func (s *Store) ChunkHashesForFile(relPath string) (map[string]string, error) {
	return ChunkHashesForFile(s.db, relPath)
}

// KnownFiles returns every file with at least one indexed chunk.
func (s *Store) KnownFiles() ([]string, error) { return KnownFiles(s.db) }

// VectorSearch returns the k nearest chunk IDs to query.
func (s *Store) VectorSearch(query []float32, k int) ([]ScoredID, error) {
	return VectorSearch(s.db, query, k)
}

// BM25Search returns the top k chunk IDs for a keyword query.
func (s *Store) BM25Search(query string, k int) ([]ScoredID, error) {
	return BM25Search(s.db, query, k)
}

// Hydrate resolves chunk IDs to their full metadata.
func (s *Store) Hydrate(ids []string) (map[string]ChunkMetadata, error) {
	return ChunksByIDs(s.db, ids)
}

// ChunkCount returns the total indexed chunk count.
func (s *Store) ChunkCount() (int, error) { return ChunkCount(s.db) }

// FileCount returns the number of distinct indexed files.
func (s *Store) FileCount() (int, error) { return FileCount(s.db) }

// FileMtime returns the last recorded mtime for relPath.
func (s *Store) FileMtime(relPath string) (int64, bool, error) { return FileMtime(s.db, relPath) }

// SetFileMtime records relPath's mtime for the next run's fast path.
func (s *Store) SetFileMtime(relPath string, mtime time.Time) error {
	return SetFileMtime(s.db, relPath, mtime.Unix())
}

// Meta returns the RepoMeta record, defaulting zero-value fields when
// unset (a never-indexed folder).
func (s *Store) Meta() (model.RepoMeta, error) {
	model_, err := s.GetMeta("embedding_model")
	if err != nil {
		return model.RepoMeta{}, err
	}
	lastIndexedRaw, err := s.GetMeta("last_indexed_at")
	if err != nil {
		return model.RepoMeta{}, err
	}
	lastCommit, err := s.GetMeta("last_commit")
	if err != nil {
		return model.RepoMeta{}, err
	}
	canonicalPath, err := s.GetMeta("repo_canonical_path")
	if err != nil {
		return model.RepoMeta{}, err
	}

	var lastIndexed int64
	if lastIndexedRaw != "" {
		fmt.Sscanf(lastIndexedRaw, "%d", &lastIndexed)
	}

	return model.RepoMeta{
		EmbeddingModel:    model_,
		LastIndexedAt:     lastIndexed,
		LastCommit:        lastCommit,
		RepoCanonicalPath: canonicalPath,
	}, nil
}

// TouchIndexed records the current time as last_indexed_at.
func (s *Store) TouchIndexed() error {
	return s.SetMeta("last_indexed_at", fmt.Sprintf("%d", time.Now().Unix()))
}

// SetMeta upserts a repo_meta key/value pair.
func (s *Store) SetMeta(key, value string) error { return SetMeta(s.db, key, value) }

// GetMeta returns a repo_meta value, "" if unset.
func (s *Store) GetMeta(key string) (string, error) { return GetMeta(s.db, key) }
