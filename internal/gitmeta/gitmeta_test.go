package gitmeta

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

func initRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	runGit(t, dir, "init")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello"), 0o644))
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "initial")
	return dir
}

func TestIsRepoTrueForGitRepo(t *testing.T) {
	dir := initRepo(t)
	assert.True(t, IsRepo(dir))
}

func TestIsRepoFalseForPlainDir(t *testing.T) {
	assert.False(t, IsRepo(t.TempDir()))
}

func TestCurrentCommitReturnsHeadHash(t *testing.T) {
	dir := initRepo(t)
	commit := CurrentCommit(dir)
	assert.Len(t, commit, 40)
}

func TestCurrentCommitEmptyForNonRepo(t *testing.T) {
	assert.Equal(t, "", CurrentCommit(t.TempDir()))
}
