package indexer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/codesight/codesight/internal/embed"
	"github.com/codesight/codesight/internal/logging"
	"github.com/codesight/codesight/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		ChunkMaxLines:  60,
		ChunkOverlap:   5,
		DocMaxChars:    2000,
		DocOverlapChars: 200,
		EmbeddingModel: "test-model",
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.db")
	s, err := store.Open(path, 384)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func silentLogger() *logging.Logger { return logging.New(io.Discard, false) }

func TestRunIndexesFilesAndSkipsUnchangedOnRerun(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("func A() int {\n\treturn 1\n}\n"), 0o644))

	s := newTestStore(t)
	provider := embed.NewMockProvider(384)

	stats, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Greater(t, stats.ChunksCreated, 0)
	assert.Equal(t, stats.TotalChunks, stats.ChunksCreated)

	stats2, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, stats2.ChunksCreated)
	assert.Greater(t, stats2.ChunksSkippedUnchanged, 0)
}

func TestRunForceRebuildReembedsEverything(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("func A() int {\n\treturn 1\n}\n"), 0o644))

	s := newTestStore(t)
	provider := embed.NewMockProvider(384)

	_, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)

	opts := testOptions()
	opts.ForceRebuild = true
	stats, err := Run(context.Background(), root, s, provider, silentLogger(), opts)
	require.NoError(t, err)
	assert.Greater(t, stats.ChunksCreated, 0)
	assert.Equal(t, 0, stats.ChunksSkippedUnchanged)
}

func TestRunDeletesChunksForRemovedFiles(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(filePath, []byte("func A() int {\n\treturn 1\n}\n"), 0o644))

	s := newTestStore(t)
	provider := embed.NewMockProvider(384)

	_, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)

	require.NoError(t, os.Remove(filePath))

	stats, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)
	assert.Greater(t, stats.ChunksDeleted, 0)
	assert.Equal(t, 0, stats.TotalChunks)
}

func TestRunMtimeFastPathSkipsUnchangedFileRead(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(filePath, []byte("func A() int {\n\treturn 1\n}\n"), 0o644))

	s := newTestStore(t)
	provider := embed.NewMockProvider(384)

	_, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filePath, past, past))
	require.NoError(t, s.SetFileMtime("a.go", past))

	stats, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)
	assert.Greater(t, stats.ChunksSkippedUnchanged, 0)
	assert.Equal(t, 0, stats.ChunksCreated)
}

func TestRunChangedContentReplacesChunks(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "a.go")
	require.NoError(t, os.WriteFile(filePath, []byte("func A() int {\n\treturn 1\n}\n"), 0o644))

	s := newTestStore(t)
	provider := embed.NewMockProvider(384)

	_, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filePath, []byte("func A() int {\n\treturn 2\n}\n\nfunc B() int {\n\treturn 3\n}\n"), 0o644))

	stats, err := Run(context.Background(), root, s, provider, silentLogger(), testOptions())
	require.NoError(t, err)
	assert.Greater(t, stats.ChunksCreated, 0)
}
