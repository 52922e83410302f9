package gitwrap

import (
	"context"
	"fmt"
	"strings"
)

// StashCreate stashes both staged and unstaged changes (including
// untracked files) under message and returns the stash ref, or "" if there
// was nothing to stash. Grounded on the teacher's
// `git stash push -u -m stackit-absorb-temp` call in
// internal/actions/absorb.go.
func (r *Repo) StashCreate(ctx context.Context, message string) (string, error) {
	res, err := r.Runner.Run(ctx, "stash", "push", "-u", "-m", message)
	if err != nil {
		return "", err
	}
	if !res.OK() || strings.Contains(res.Stdout, "No local changes to save") {
		return "", nil
	}
	ref, err := r.Runner.RunTrim(ctx, "rev-parse", "--verify", "stash@{0}")
	if err != nil {
		return "", fmt.Errorf("stashed but failed to resolve stash ref: %w", err)
	}
	return ref, nil
}

// StashApply re-applies ref without dropping it, so a failed apply can be
// retried or the stash inspected manually instead of losing it.
func (r *Repo) StashApply(ctx context.Context, ref string) (Result, error) {
	return r.Runner.Run(ctx, "stash", "apply", ref)
}

// StashDrop removes ref, called only on confirmed success.
func (r *Repo) StashDrop(ctx context.Context, ref string) error {
	res, err := r.Runner.Run(ctx, "stash", "drop", ref)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to drop stash %s: %s", ref, res.Stderr)
	}
	return nil
}
