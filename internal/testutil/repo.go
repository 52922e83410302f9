// Package testutil provides a throwaway real git repository fixture for
// tests that need actual git plumbing rather than mocks, trimmed from the
// teacher's testhelpers/git_repo.go down to the primitives autosquash's
// own test suites exercise (no CLI-binary building, no GitHub stubbing).
package testutil

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Repo is a scratch git repository rooted at Dir, torn down automatically
// via t.Cleanup.
type Repo struct {
	t   *testing.T
	Dir string
}

// NewRepo initializes a fresh repository with a deterministic test identity
// and an initial empty commit on "main", so merge-base lookups have
// something below every subsequent commit.
func NewRepo(t *testing.T) *Repo {
	t.Helper()

	dir := t.TempDir()
	r := &Repo{t: t, Dir: dir}

	r.run("init", "-q", "-b", "main", dir)
	r.run("config", "user.name", "Test User")
	r.run("config", "user.email", "test@example.com")
	r.run("commit", "--allow-empty", "-q", "-m", "root")

	return r
}

func (r *Repo) run(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	if len(args) > 0 && args[0] != "init" {
		cmd.Dir = r.Dir
	}
	out, err := cmd.CombinedOutput()
	require.NoErrorf(r.t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to a path relative to the repo root, creating
// parent directories as needed.
func (r *Repo) WriteFile(relPath, content string) {
	r.t.Helper()
	full := filepath.Join(r.Dir, relPath)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))
}

// Commit stages everything and commits it, returning the new commit SHA.
func (r *Repo) Commit(message string) string {
	r.t.Helper()
	r.run("add", "-A")
	r.run("commit", "-q", "-m", message)
	return r.Head()
}

// CommitFile is a convenience that writes a single file and commits it.
func (r *Repo) CommitFile(relPath, content, message string) string {
	r.WriteFile(relPath, content)
	return r.Commit(message)
}

// Head returns the current HEAD SHA.
func (r *Repo) Head() string {
	r.t.Helper()
	return r.run("rev-parse", "HEAD")
}

// Branch creates and checks out a new branch at the current HEAD.
func (r *Repo) Branch(name string) {
	r.t.Helper()
	r.run("checkout", "-q", "-b", name)
}

// Log returns the SHAs from mergeBase..HEAD, oldest first.
func (r *Repo) Log(mergeBase string) []string {
	r.t.Helper()
	out := r.run("log", "--format=%H", "--reverse", fmt.Sprintf("%s..HEAD", mergeBase))
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
