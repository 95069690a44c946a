package engine

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/codesight/codesight/internal/config"
	"github.com/codesight/codesight/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.EmbeddingBackend = "mock"
	cfg.EmbeddingDim = 384
	cfg.StaleThresholdSeconds = 300
	return cfg
}

func newTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("func main() {\n\tprintln(\"hi\")\n}\n"), 0o644))
	return root
}

func TestOpenIndexAndSearch(t *testing.T) {
	root := newTestRepo(t)
	cfg := testConfig(t)
	log := logging.New(io.Discard, false)

	eng, err := Open(cfg, root, log)
	require.NoError(t, err)
	defer eng.Close()

	stats, err := eng.Index(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesIndexed)

	results, err := eng.Search(context.Background(), "main", 5, "")
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestSearchTriggersAutoIndexWhenNeverIndexed(t *testing.T) {
	root := newTestRepo(t)
	cfg := testConfig(t)
	log := logging.New(io.Discard, false)

	eng, err := Open(cfg, root, log)
	require.NoError(t, err)
	defer eng.Close()

	status, err := eng.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Stale)

	results, err := eng.Search(context.Background(), "main", 5, "")
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	status, err = eng.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Stale)
}

func TestStatusReportsModelChangeAsStale(t *testing.T) {
	root := newTestRepo(t)
	cfg := testConfig(t)
	log := logging.New(io.Discard, false)

	eng, err := Open(cfg, root, log)
	require.NoError(t, err)
	_, err = eng.Index(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, eng.Close())

	cfg2 := testConfig(t)
	cfg2.DataDir = cfg.DataDir
	cfg2.EmbeddingModel = "a-different-model"

	eng2, err := Open(cfg2, root, log)
	require.NoError(t, err)
	defer eng2.Close()

	status, err := eng2.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Stale)
}
