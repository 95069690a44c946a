// Package store is CodeSight's dual-store persistence layer: a SQLite FTS5
// sidecar for BM25 keyword search and metadata, and a sqlite-vec virtual
// table for cosine vector search, sharing chunk_id as their join key.
// Grounded on the teacher's internal/storage/schema.go and
// internal/storage/vector_index.go bootstrap pattern.
package store

import (
	"database/sql"
	"fmt"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

const schemaSQL = `
PRAGMA journal_mode = WAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS chunks (
	rowid        INTEGER PRIMARY KEY,
	chunk_id     TEXT UNIQUE NOT NULL,
	file_path    TEXT NOT NULL,
	start_line   INTEGER NOT NULL,
	end_line     INTEGER NOT NULL,
	scope        TEXT,
	language     TEXT,
	content_hash TEXT NOT NULL,
	content      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path);

CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
	content, scope, file_path,
	content = 'chunks',
	content_rowid = 'rowid',
	tokenize = 'porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
	INSERT INTO chunks_fts(rowid, content, scope, file_path)
	VALUES (new.rowid, new.content, new.scope, new.file_path);
END;

CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
	INSERT INTO chunks_fts(chunks_fts, rowid, content, scope, file_path)
	VALUES ('delete', old.rowid, old.content, old.scope, old.file_path);
END;

CREATE TABLE IF NOT EXISTS repo_meta (
	key   TEXT PRIMARY KEY,
	value TEXT
);

CREATE TABLE IF NOT EXISTS file_stats (
	file_path  TEXT PRIMARY KEY,
	mtime_unix INTEGER NOT NULL
);
`

// openSchema opens the SQLite sidecar at path and ensures the schema
// exists. The vec0 vector table is created lazily once the embedding
// dimension is known (see vector.go), since its column width is fixed at
// creation time.
func openSchema(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite + WAL: one writer at a time, matches the teacher's pattern

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return db, nil
}
