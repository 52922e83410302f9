package gitwrap

import (
	"context"
	"os"
	"strings"
)

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WorkingTreeStatus is the coarse working-tree state the precondition
// checks need: clean, staged only, unstaged only, or a mix of both.
type WorkingTreeStatus int

const (
	// StatusClean means no staged or unstaged changes.
	StatusClean WorkingTreeStatus = iota
	// StatusStagedOnly means there are staged changes and no unstaged ones.
	StatusStagedOnly
	// StatusUnstagedOnly means there are unstaged changes and nothing staged.
	StatusUnstagedOnly
	// StatusMixed means both staged and unstaged changes are present.
	StatusMixed
)

// Status reports the working tree's coarse state.
func (r *Repo) Status(ctx context.Context) (WorkingTreeStatus, error) {
	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return StatusClean, err
	}
	unstaged, err := r.HasUnstagedChanges(ctx)
	if err != nil {
		return StatusClean, err
	}
	switch {
	case staged && unstaged:
		return StatusMixed, nil
	case staged:
		return StatusStagedOnly, nil
	case unstaged:
		return StatusUnstagedOnly, nil
	default:
		return StatusClean, nil
	}
}

// HasStagedChanges reports whether the index differs from HEAD.
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	out, err := r.Runner.RunTrim(ctx, "diff", "--cached", "--shortstat")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// HasUnstagedChanges reports whether tracked files differ from the index.
func (r *Repo) HasUnstagedChanges(ctx context.Context) (bool, error) {
	out, err := r.Runner.RunTrim(ctx, "diff", "--name-only")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// InProgressOperation names a rebase/merge/cherry-pick that blocks a new
// autosquash invocation, or "" if none is in progress.
func (r *Repo) InProgressOperation(ctx context.Context) (string, error) {
	gitDir, err := r.Runner.RunTrim(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	checks := []struct {
		path string
		name string
	}{
		{gitDir + "/rebase-merge", "rebase"},
		{gitDir + "/rebase-apply", "rebase"},
		{gitDir + "/MERGE_HEAD", "merge"},
		{gitDir + "/CHERRY_PICK_HEAD", "cherry-pick"},
	}
	for _, c := range checks {
		if exists(c.path) {
			return c.name, nil
		}
	}
	return "", nil
}

// CurrentBranch returns the checked-out branch name, or "" in detached HEAD.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	out, err := r.Runner.RunTrim(ctx, "symbolic-ref", "--short", "-q", "HEAD")
	if err != nil {
		// symbolic-ref fails (non-zero, no subprocess error) in detached HEAD.
		return "", nil
	}
	return strings.TrimSpace(out), nil
}
