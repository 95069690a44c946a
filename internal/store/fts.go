package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/codesight/codesight/internal/model"
)

// UpsertChunks writes metadata rows for chunks, replacing any existing row
// with the same chunk_id. The FTS5 shadow index stays in sync via the
// chunks_ai/chunks_ad triggers.
func UpsertChunks(db *sql.DB, chunks []model.Chunk) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("starting upsert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO chunks(chunk_id, file_path, start_line, end_line, scope, language, content_hash, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			file_path = excluded.file_path,
			start_line = excluded.start_line,
			end_line = excluded.end_line,
			scope = excluded.scope,
			language = excluded.language,
			content_hash = excluded.content_hash,
			content = excluded.content
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if _, err := stmt.Exec(c.ChunkID(), c.FilePath, c.StartLine, c.EndLine, c.Scope, c.Language, c.ContentHash(), c.Content); err != nil {
			return fmt.Errorf("upserting chunk %s: %w", c.ChunkID(), err)
		}
	}

	return tx.Commit()
}

// DeleteChunksForFile removes every chunk row for relPath and returns the
// deleted chunk IDs, so the caller can also clear them from the vector
// table.
func DeleteChunksForFile(db *sql.DB, relPath string) ([]string, error) {
	rows, err := db.Query(`SELECT chunk_id FROM chunks WHERE file_path = ?`, relPath)
	if err != nil {
		return nil, fmt.Errorf("listing chunks for %s: %w", relPath, err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, err
		}
		ids = append(ids, id)
	}
	rows.Close()

	if _, err := db.Exec(`DELETE FROM chunks WHERE file_path = ?`, relPath); err != nil {
		return nil, fmt.Errorf("deleting chunks for %s: %w", relPath, err)
	}
	return ids, nil
}

// ChunkHashesForFile returns chunk_id -> content_hash for every chunk
// currently stored for relPath, the basis for the indexer's unchanged-chunk
// skip and stale chunk-set diff.
func ChunkHashesForFile(db *sql.DB, relPath string) (map[string]string, error) {
	rows, err := db.Query(`SELECT chunk_id, content_hash FROM chunks WHERE file_path = ?`, relPath)
	if err != nil {
		return nil, fmt.Errorf("reading chunk hashes for %s: %w", relPath, err)
	}
	defer rows.Close()

	hashes := map[string]string{}
	for rows.Next() {
		var id, hash string
		if err := rows.Scan(&id, &hash); err != nil {
			return nil, err
		}
		hashes[id] = hash
	}
	return hashes, rows.Err()
}

// BM25Search returns the top candidateCount chunk IDs matching query,
// ranked by SQLite FTS5's bm25() function (lower is more relevant; scores
// are negated here so higher is better, matching vector scores).
func BM25Search(db *sql.DB, query string, candidateCount int) ([]ScoredID, error) {
	rows, err := db.Query(`
		SELECT c.chunk_id, bm25(chunks_fts) AS rank
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, candidateCount)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}
	defer rows.Close()

	var results []ScoredID
	for rows.Next() {
		var id string
		var rank float64
		if err := rows.Scan(&id, &rank); err != nil {
			return nil, err
		}
		results = append(results, ScoredID{ChunkID: id, Score: -rank})
	}
	return results, rows.Err()
}

// ChunkMetadata is the hydrated row behind a chunk_id, used to build
// SearchResults after fusion.
type ChunkMetadata struct {
	ChunkID   string
	FilePath  string
	StartLine int
	EndLine   int
	Scope     string
	Language  string
	Content   string
}

// ChunksByIDs hydrates metadata for a set of chunk IDs, preserving no
// particular order — callers re-order by their own ranking.
func ChunksByIDs(db *sql.DB, ids []string) (map[string]ChunkMetadata, error) {
	if len(ids) == 0 {
		return map[string]ChunkMetadata{}, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := db.Query(fmt.Sprintf(
		`SELECT chunk_id, file_path, start_line, end_line, scope, language, content FROM chunks WHERE chunk_id IN (%s)`,
		placeholders,
	), args...)
	if err != nil {
		return nil, fmt.Errorf("hydrating chunks: %w", err)
	}
	defer rows.Close()

	out := map[string]ChunkMetadata{}
	for rows.Next() {
		var m ChunkMetadata
		if err := rows.Scan(&m.ChunkID, &m.FilePath, &m.StartLine, &m.EndLine, &m.Scope, &m.Language, &m.Content); err != nil {
			return nil, err
		}
		out[m.ChunkID] = m
	}
	return out, rows.Err()
}

// ChunkCount returns the total number of indexed chunks.
func ChunkCount(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT count(*) FROM chunks`).Scan(&n)
	return n, err
}

// FileCount returns the number of distinct files with at least one chunk.
func FileCount(db *sql.DB) (int, error) {
	var n int
	err := db.QueryRow(`SELECT count(DISTINCT file_path) FROM chunks`).Scan(&n)
	return n, err
}

// SetMeta upserts a repo_meta key/value pair.
func SetMeta(db *sql.DB, key, value string) error {
	_, err := db.Exec(`INSERT INTO repo_meta(key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("setting meta %s: %w", key, err)
	}
	return nil
}

// GetMeta returns a repo_meta value, or "" if unset.
func GetMeta(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow(`SELECT value FROM repo_meta WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading meta %s: %w", key, err)
	}
	return value, nil
}

// FileMtime returns the last recorded mtime for relPath, and whether a
// record exists at all — the mtime fast-path the indexer uses to skip
// reading and chunking unchanged files without hashing their content.
func FileMtime(db *sql.DB, relPath string) (int64, bool, error) {
	var mtime int64
	err := db.QueryRow(`SELECT mtime_unix FROM file_stats WHERE file_path = ?`, relPath).Scan(&mtime)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return mtime, true, nil
}

// SetFileMtime records relPath's mtime for the next run's fast path.
func SetFileMtime(db *sql.DB, relPath string, mtimeUnix int64) error {
	_, err := db.Exec(`INSERT INTO file_stats(file_path, mtime_unix) VALUES (?, ?)
		ON CONFLICT(file_path) DO UPDATE SET mtime_unix = excluded.mtime_unix`, relPath, mtimeUnix)
	return err
}

// DeleteFileMtime removes the mtime record for a file that no longer
// exists on disk (or whose chunks were fully deleted).
func DeleteFileMtime(db *sql.DB, relPath string) error {
	_, err := db.Exec(`DELETE FROM file_stats WHERE file_path = ?`, relPath)
	return err
}

// KnownFiles returns every distinct file_path with at least one chunk,
// used to detect files deleted from disk since the last index run.
func KnownFiles(db *sql.DB) ([]string, error) {
	rows, err := db.Query(`SELECT DISTINCT file_path FROM chunks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
