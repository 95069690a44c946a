package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/codesight/codesight/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "metadata.db")
	s, err := Open(path, 4)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertChunksAndHydrate(t *testing.T) {
	s := openTestStore(t)

	c := model.NewChunk("a.go", 1, 5, "func A() {}", "function A", "go", "# File: a.go")
	require.NoError(t, s.UpsertChunks([]model.Chunk{c}, [][]float32{{1, 0, 0, 0}}))

	count, err := s.ChunkCount()
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	hashes, err := s.ChunkHashesForFile("a.go")
	require.NoError(t, err)
	assert.Equal(t, c.ContentHash(), hashes[c.ChunkID()])

	metas, err := s.Hydrate([]string{c.ChunkID()})
	require.NoError(t, err)
	require.Contains(t, metas, c.ChunkID())
	assert.Equal(t, "function A", metas[c.ChunkID()].Scope)
}

func TestUpsertChunksRejectsLengthMismatch(t *testing.T) {
	s := openTestStore(t)
	c := model.NewChunk("a.go", 1, 5, "func A() {}", "function A", "go", "")
	err := s.UpsertChunks([]model.Chunk{c}, nil)
	assert.Error(t, err)
}

func TestDeleteFileChunksRemovesEverything(t *testing.T) {
	s := openTestStore(t)
	c := model.NewChunk("a.go", 1, 5, "func A() {}", "function A", "go", "")
	require.NoError(t, s.UpsertChunks([]model.Chunk{c}, [][]float32{{1, 0, 0, 0}}))

	deleted, err := s.DeleteFileChunks("a.go")
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	count, err := s.ChunkCount()
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorSearchRanksByCosine(t *testing.T) {
	s := openTestStore(t)
	near := model.NewChunk("near.go", 1, 1, "near", "x", "go", "")
	far := model.NewChunk("far.go", 1, 1, "far", "x", "go", "")
	require.NoError(t, s.UpsertChunks(
		[]model.Chunk{near, far},
		[][]float32{{1, 0, 0, 0}, {0, 1, 0, 0}},
	))

	results, err := s.VectorSearch([]float32{1, 0, 0, 0}, 2)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, near.ChunkID(), results[0].ChunkID)
}

func TestBM25SearchFindsKeywordMatch(t *testing.T) {
	s := openTestStore(t)
	c := model.NewChunk("auth.go", 1, 3, "func validateToken() bool { return true }", "function validateToken", "go", "")
	require.NoError(t, s.UpsertChunks([]model.Chunk{c}, [][]float32{{1, 0, 0, 0}}))

	results, err := s.BM25Search("validateToken", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, c.ChunkID(), results[0].ChunkID)
}

func TestMetaRoundTrip(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.SetMeta("embedding_model", "test-model"))
	require.NoError(t, s.TouchIndexed())
	require.NoError(t, s.SetMeta("last_commit", "deadbeef"))

	meta, err := s.Meta()
	require.NoError(t, err)
	assert.Equal(t, "test-model", meta.EmbeddingModel)
	assert.Equal(t, "deadbeef", meta.LastCommit)
	assert.NotZero(t, meta.LastIndexedAt)
}

func TestFileMtimeRoundTrip(t *testing.T) {
	s := openTestStore(t)
	_, known, err := s.FileMtime("a.go")
	require.NoError(t, err)
	assert.False(t, known)

	mtime := time.Unix(1700000000, 0)
	require.NoError(t, s.SetFileMtime("a.go", mtime))
	got, known, err := s.FileMtime("a.go")
	require.NoError(t, err)
	assert.True(t, known)
	assert.Equal(t, int64(1700000000), got)
}
