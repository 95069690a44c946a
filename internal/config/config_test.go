package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPopulatesLiteralDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultEmbeddingModel, cfg.EmbeddingModel)
	assert.Equal(t, DefaultEmbeddingDim, cfg.EmbeddingDim)
	assert.Equal(t, DefaultTopK, cfg.TopK)
}

func TestResolveEmbeddingDimKnownAndUnknownModel(t *testing.T) {
	assert.Equal(t, 1024, ResolveEmbeddingDim("mixedbread-ai/mxbai-embed-large-v1"))
	assert.Equal(t, 384, ResolveEmbeddingDim("some-custom-self-hosted-model"))
}

func TestLoadLayersEnvOverDefaults(t *testing.T) {
	t.Setenv("CODESIGHT_EMBEDDING_MODEL", "nomic-ai/nomic-embed-text-v1.5")

	v := viper.New()
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "nomic-ai/nomic-embed-text-v1.5", cfg.EmbeddingModel)
	assert.Equal(t, 768, cfg.EmbeddingDim)
}

func TestRepoDataDirIsDeterministicPerPath(t *testing.T) {
	dataDir := t.TempDir()
	repo := t.TempDir()

	dir1, err := RepoDataDir(dataDir, repo)
	require.NoError(t, err)
	dir2, err := RepoDataDir(dataDir, repo)
	require.NoError(t, err)
	assert.Equal(t, dir1, dir2)
	assert.Len(t, filepath.Base(dir1), 12)
}

func TestIsIndexableExt(t *testing.T) {
	assert.True(t, IsIndexableExt(".go"))
	assert.True(t, IsIndexableExt(".pdf"))
	assert.False(t, IsIndexableExt(".bin"))
}
