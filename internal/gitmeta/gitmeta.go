// Package gitmeta retrieves the small amount of VCS metadata CodeSight
// tracks: whether a folder is a git repository, and its current commit.
// This metadata is advisory only — it is never used to narrow or drive the
// file walk, only recorded alongside the index. Adapted from the
// teacher's internal/git/operations.go, trimmed to the two calls the spec
// needs and given the soft-fail timeout discipline the original
// implementation's git_utils.py uses.
package gitmeta

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

const commitTimeout = 10 * time.Second
const repoCheckTimeout = 5 * time.Second

// IsRepo reports whether path is inside a git working tree. Failures
// (git not installed, timeout, not a repo) all resolve to false — this is
// advisory metadata, never a hard dependency.
func IsRepo(path string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), repoCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "true"
}

// CurrentCommit returns the current HEAD commit hash, or "" if it can't be
// determined (detached timeout, not a repo, no commits yet).
func CurrentCommit(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), commitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "-C", path, "rev-parse", "HEAD")
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
