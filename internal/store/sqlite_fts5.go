//go:build fts5 || sqlite_fts5

// This file documents the build tag chunks_fts (schema.go) requires:
// build with -tags="fts5" or -tags="sqlite_fts5" so mattn/go-sqlite3 links
// its FTS5 extension into the compiled SQLite amalgamation. Without one of
// these tags, CREATE VIRTUAL TABLE ... USING fts5 fails at runtime with
// "no such module: fts5" the first time openSchema runs.
// See: github.com/mattn/go-sqlite3/sqlite3_opt_fts5.go
package store

import (
	_ "github.com/mattn/go-sqlite3"
)
