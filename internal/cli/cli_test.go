package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"), []byte("func main() {\n\tprintln(\"hi\")\n}\n"), 0o644))
	return root
}

func setMockEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CODESIGHT_DATA_DIR", t.TempDir())
	t.Setenv("CODESIGHT_EMBEDDING_BACKEND", "mock")
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestIndexCommandPrintsStats(t *testing.T) {
	setMockEnv(t)
	root := newTestRepo(t)

	out, err := runRoot(t, "index", root, "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "\"files_indexed\"")
}

func TestSearchCommandPrintsResults(t *testing.T) {
	setMockEnv(t)
	root := newTestRepo(t)

	_, err := runRoot(t, "index", root, "--quiet")
	require.NoError(t, err)

	out, err := runRoot(t, "search", "main", root)
	require.NoError(t, err)
	assert.Contains(t, out, "main.go")
}

func TestStatusCommandPrintsJSON(t *testing.T) {
	setMockEnv(t)
	root := newTestRepo(t)

	out, err := runRoot(t, "status", root)
	require.NoError(t, err)
	assert.Contains(t, out, "\"chunk_count\"")
}

func TestIndexCommandRejectsMissingPath(t *testing.T) {
	setMockEnv(t)
	_, err := runRoot(t, "index", filepath.Join(t.TempDir(), "nope"), "--quiet")
	assert.Error(t, err)
}
