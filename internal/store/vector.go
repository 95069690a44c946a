package store

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// ScoredID pairs a chunk_id with a similarity/relevance score. Used by both
// the vector and FTS searches so the retriever can fuse them uniformly.
type ScoredID struct {
	ChunkID string
	Score   float64
}

func vectorTableName() string { return "vec_chunks" }

// ensureVectorTable creates the vec0 virtual table sized for dim, once,
// the first time a vector is upserted. vec0 fixes its column width at
// creation time, which is why this can't live in the static schema.
func ensureVectorTable(db *sql.DB, dim int) error {
	_, err := db.Exec(fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS %s USING vec0(chunk_id TEXT PRIMARY KEY, embedding FLOAT[%d])`,
		vectorTableName(), dim,
	))
	if err != nil {
		return fmt.Errorf("creating vector table: %w", err)
	}
	return nil
}

// UpsertVector replaces chunkID's embedding. vec0 has no INSERT OR REPLACE,
// so this is delete-then-insert, the same pattern the teacher's
// UpdateVectorIndex uses.
func UpsertVector(db *sql.DB, dim int, chunkID string, embedding []float32) error {
	if err := ensureVectorTable(db, dim); err != nil {
		return err
	}
	blob, err := sqlite_vec.SerializeFloat32(embedding)
	if err != nil {
		return fmt.Errorf("serializing embedding for %s: %w", chunkID, err)
	}
	if _, err := db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE chunk_id = ?`, vectorTableName()), chunkID); err != nil {
		return fmt.Errorf("deleting stale vector for %s: %w", chunkID, err)
	}
	if _, err := db.Exec(fmt.Sprintf(`INSERT INTO %s(chunk_id, embedding) VALUES (?, ?)`, vectorTableName()), chunkID, blob); err != nil {
		return fmt.Errorf("inserting vector for %s: %w", chunkID, err)
	}
	return nil
}

// DeleteVectors removes the rows for the given chunk IDs, if the vector
// table exists yet.
func DeleteVectors(db *sql.DB, chunkIDs []string) error {
	if len(chunkIDs) == 0 || !tableExists(db, vectorTableName()) {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(chunkIDs)), ",")
	args := make([]any, len(chunkIDs))
	for i, id := range chunkIDs {
		args[i] = id
	}
	_, err := db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE chunk_id IN (%s)`, vectorTableName(), placeholders), args...)
	if err != nil {
		return fmt.Errorf("deleting vectors: %w", err)
	}
	return nil
}

// VectorSearch returns the k nearest chunk IDs to query using vec0's KNN
// MATCH, which ranks by the table's default L2 distance. Embeddings are
// expected to already be L2-normalized, so L2 distance, cosine distance and
// dot product all rank identically. Score is 1 - distance (higher is
// closer).
func VectorSearch(db *sql.DB, query []float32, k int) ([]ScoredID, error) {
	if !tableExists(db, vectorTableName()) {
		return nil, nil
	}
	blob, err := sqlite_vec.SerializeFloat32(query)
	if err != nil {
		return nil, fmt.Errorf("serializing query vector: %w", err)
	}

	rows, err := db.Query(fmt.Sprintf(
		`SELECT chunk_id, distance FROM %s WHERE embedding MATCH ? AND k = ? ORDER BY distance`,
		vectorTableName(),
	), blob, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []ScoredID
	for rows.Next() {
		var id string
		var distance float64
		if err := rows.Scan(&id, &distance); err != nil {
			return nil, fmt.Errorf("scanning vector search row: %w", err)
		}
		results = append(results, ScoredID{ChunkID: id, Score: 1 - distance})
	}
	return results, rows.Err()
}

func tableExists(db *sql.DB, name string) bool {
	var n int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type IN ('table','virtual table') AND name = ?`, name).Scan(&n)
	return err == nil && n > 0
}
