package gitwrap

import (
	"context"
	"fmt"
)

// WorktreeAdd creates a new worktree at path checked out at rev, in
// detached HEAD. Grounded on the teacher's internal/git/worktree.go
// AddWorktree and cross-checked against
// other_examples/53c69336_Agusx1211-adaf__internal-worktree-worktree.go for
// idiom convergence.
func (r *Repo) WorktreeAdd(ctx context.Context, path, rev string) error {
	res, err := r.Runner.Run(ctx, "worktree", "add", "--detach", path, rev)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to add worktree at %s: %s", path, res.Stderr)
	}
	return nil
}

// WorktreeRemove force-removes the worktree at path. Idempotent: removing a
// worktree that is already gone is not an error, so a rollback path can
// call it unconditionally.
func (r *Repo) WorktreeRemove(ctx context.Context, path string) error {
	res, err := r.Runner.Run(ctx, "worktree", "remove", "--force", path)
	if err != nil {
		return err
	}
	if !res.OK() {
		_, pruneErr := r.Runner.Run(ctx, "worktree", "prune")
		if pruneErr != nil {
			return fmt.Errorf("failed to remove worktree at %s: %s", path, res.Stderr)
		}
	}
	return nil
}

// WorktreeSupported reports whether `git worktree` is usable in this
// repository (some shallow or bare layouts refuse it), used by the
// execution-strategy layer's capability detection.
func (r *Repo) WorktreeSupported(ctx context.Context) bool {
	res, err := r.Runner.Run(ctx, "worktree", "list", "--porcelain")
	return err == nil && res.OK()
}
