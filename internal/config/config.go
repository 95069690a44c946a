// Package config holds CodeSight's layered configuration: hardcoded
// defaults, overridden by an optional YAML file, overridden by
// CODESIGHT_* environment variables, overridden by CLI flags — in that
// order, the same layering internal/cli/root.go used for Cortex.
package config

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codesight/codesight/internal/codesight"
	"github.com/spf13/viper"
)

var errConfig = codesight.ErrConfig

// Numeric and string defaults. These match the original Python
// implementation's config.py literally; they are not re-derived here.
const (
	DefaultEmbeddingModel   = "sentence-transformers/all-MiniLM-L6-v2"
	DefaultEmbeddingBackend = "local"
	DefaultEmbeddingDim     = 384
	DefaultTopK             = 8
	DefaultChunkMaxLines    = 200
	DefaultChunkOverlap     = 50
	DefaultDocMaxChars      = 1500
	DefaultDocOverlapChars  = 200
	StaleThresholdSeconds   = 300
	BM25CandidateMultiplier = 3
	DefaultLLMModel         = "claude-sonnet-4-20250514"
	DefaultLLMBackend       = "claude"
	MaxFileSizeBytes        = 10_000_000
)

// EmbeddingModelRegistry is the allowlist of tested embedding models and
// their vector dimensionality.
var EmbeddingModelRegistry = map[string]int{
	"sentence-transformers/all-MiniLM-L6-v2": 384,
	"nomic-ai/nomic-embed-text-v1.5":         768,
	"mixedbread-ai/mxbai-embed-large-v1":     1024,
	"jinaai/jina-embeddings-v2-base-code":    768,
	"text-embedding-3-large":                 3072,
	"text-embedding-3-small":                 1536,
}

// ResolveEmbeddingDim returns the expected dimension for a model, falling
// back to 384 for unregistered (e.g. self-hosted) models.
func ResolveEmbeddingDim(model string) int {
	if dim, ok := EmbeddingModelRegistry[model]; ok {
		return dim
	}
	return 384
}

var (
	codeExtensions = map[string]bool{
		".py": true, ".js": true, ".ts": true, ".tsx": true, ".jsx": true,
		".go": true, ".rs": true, ".java": true, ".kt": true, ".scala": true,
		".c": true, ".cpp": true, ".h": true, ".hpp": true, ".cs": true,
		".rb": true, ".php": true, ".swift": true, ".m": true,
		".sql": true, ".sh": true, ".bash": true, ".zsh": true,
		".yaml": true, ".yml": true, ".toml": true, ".json": true,
		".html": true, ".css": true, ".scss": true,
		".tf": true, ".hcl": true,
		".proto": true, ".graphql": true,
		".lua": true, ".r": true, ".jl": true,
		".ex": true, ".exs": true, ".erl": true,
		".zig": true, ".nim": true, ".v": true,
		".dockerfile": true,
	}

	textExtensions = map[string]bool{
		".md": true, ".txt": true, ".rst": true, ".csv": true, ".log": true,
	}

	documentExtensions = map[string]bool{
		".pdf": true, ".docx": true, ".pptx": true,
	}

	// AlwaysSkipDirs are never descended into, regardless of gitignore.
	AlwaysSkipDirs = map[string]bool{
		".git": true, "__pycache__": true, "node_modules": true, ".venv": true, "venv": true,
		".tox": true, ".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
		"dist": true, "build": true, ".eggs": true, ".next": true, ".nuxt": true,
		"vendor": true, "target": true, "Pods": true,
	}

	// AlwaysSkipFiles are lockfiles: large, generated, never useful to search.
	AlwaysSkipFiles = map[string]bool{
		"package-lock.json": true, "yarn.lock": true, "pnpm-lock.yaml": true,
		"poetry.lock": true, "Cargo.lock": true, "Gemfile.lock": true,
		"go.sum": true, "composer.lock": true,
	}
)

// IsDocumentExt reports whether ext (lowercase, with leading dot) names a
// binary document format handled by the extractor router.
func IsDocumentExt(ext string) bool { return documentExtensions[ext] }

// IsIndexableExt reports whether ext is code, text, or a document format.
func IsIndexableExt(ext string) bool {
	return codeExtensions[ext] || textExtensions[ext] || documentExtensions[ext]
}

// Config is the fully resolved runtime configuration for one Engine.
type Config struct {
	DataDir                string `mapstructure:"data_dir"`
	EmbeddingModel         string `mapstructure:"embedding_model"`
	EmbeddingBackend       string `mapstructure:"embedding_backend"`
	EmbeddingDim           int    `mapstructure:"embedding_dim"`
	EmbeddingEndpoint      string `mapstructure:"embedding_endpoint"`
	TopK                   int    `mapstructure:"top_k"`
	ChunkMaxLines          int    `mapstructure:"chunk_max_lines"`
	ChunkOverlapLines      int    `mapstructure:"chunk_overlap_lines"`
	DocChunkMaxChars       int    `mapstructure:"doc_chunk_max_chars"`
	DocChunkOverlapChars   int    `mapstructure:"doc_chunk_overlap_chars"`
	StaleThresholdSeconds  int    `mapstructure:"stale_threshold_seconds"`
	BM25CandidateMultiplier int   `mapstructure:"bm25_candidate_multiplier"`
	LLMBackend             string `mapstructure:"llm_backend"`
	LLMModel               string `mapstructure:"llm_model"`
	Verbose                bool   `mapstructure:"verbose"`
}

// Default returns a Config populated with the literal defaults, before any
// file/env/flag layering is applied.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir:                 filepath.Join(home, ".codesight", "data"),
		EmbeddingModel:          DefaultEmbeddingModel,
		EmbeddingBackend:        DefaultEmbeddingBackend,
		EmbeddingDim:            DefaultEmbeddingDim,
		TopK:                    DefaultTopK,
		ChunkMaxLines:           DefaultChunkMaxLines,
		ChunkOverlapLines:       DefaultChunkOverlap,
		DocChunkMaxChars:        DefaultDocMaxChars,
		DocChunkOverlapChars:    DefaultDocOverlapChars,
		StaleThresholdSeconds:   StaleThresholdSeconds,
		BM25CandidateMultiplier: BM25CandidateMultiplier,
		LLMBackend:              DefaultLLMBackend,
		LLMModel:                DefaultLLMModel,
	}
}

// Load resolves a Config by layering: defaults -> optional config file ->
// CODESIGHT_* environment variables -> viper (which already has CLI flags
// bound into it by the cli package). cfgFile may be empty.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := Default()

	v.SetEnvPrefix("codesight")
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: reading config file %s: %v", errConfig, cfgFile, err)
		}
	}

	if v.IsSet("data_dir") {
		cfg.DataDir = v.GetString("data_dir")
	}
	if v.IsSet("embedding_model") {
		cfg.EmbeddingModel = v.GetString("embedding_model")
	}
	if v.IsSet("embedding_backend") {
		cfg.EmbeddingBackend = v.GetString("embedding_backend")
	}
	if v.IsSet("llm_backend") {
		cfg.LLMBackend = v.GetString("llm_backend")
	}
	if v.IsSet("llm_model") {
		cfg.LLMModel = v.GetString("llm_model")
	}
	if v.IsSet("verbose") {
		cfg.Verbose = v.GetBool("verbose")
	}

	cfg.EmbeddingDim = ResolveEmbeddingDim(cfg.EmbeddingModel)

	return cfg, nil
}

// RepoDataDir returns the per-folder data directory:
// <data_dir>/<sha256(realpath)[:12]>, creating it if necessary.
func RepoDataDir(dataDir, repoPath string) (string, error) {
	canonical, err := filepath.EvalSymlinks(repoPath)
	if err != nil {
		// Fall back to the absolute (non-resolved) path: the folder may not
		// exist yet on a fresh `codesight index` run from a symlinked cwd.
		canonical, err = filepath.Abs(repoPath)
		if err != nil {
			return "", fmt.Errorf("%w: resolving folder path %s: %v", errConfig, repoPath, err)
		}
	}
	sum := sha256.Sum256([]byte(canonical))
	short := hex.EncodeToString(sum[:])[:12]
	dir := filepath.Join(dataDir, short)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating data dir %s: %v", errConfig, dir, err)
	}
	return dir, nil
}

// RepoMetadataDBPath returns the SQLite sidecar path within a folder's data
// directory.
func RepoMetadataDBPath(dataDir, repoPath string) (string, error) {
	dir, err := RepoDataDir(dataDir, repoPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "metadata.db"), nil
}
