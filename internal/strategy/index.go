package strategy

import (
	"context"
	"fmt"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/rebase"
)

// IndexStrategy operates directly in the main working tree: it stashes any
// dirty state, builds the fixup commits and runs the rebase in place, and
// restores from the backup stash on any failure. Chosen when worktree
// support is unavailable.
type IndexStrategy struct {
	MergeBase       string
	OriginalCommits []string
}

func (IndexStrategy) Name() string { return "index" }

func (IndexStrategy) Supported(ctx context.Context, repo *gitwrap.Repo) bool {
	return true
}

func (s IndexStrategy) Execute(ctx context.Context, repo *gitwrap.Repo, patches []Patch) (Result, error) {
	backup, err := Backup(ctx, repo)
	if err != nil {
		return Result{}, err
	}

	groups := groupByTarget(patches)
	result, err := rebase.Run(ctx, repo, s.MergeBase, s.OriginalCommits, groups)
	if err != nil {
		if rbErr := Rollback(ctx, repo, backup); rbErr != nil {
			return Result{}, fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return Result{}, err
	}

	switch result.Outcome {
	case rebase.OutcomeSuccess:
		if err := Commit(ctx, repo, backup); err != nil {
			return Result{}, fmt.Errorf("rebase succeeded but failed to drop backup stash: %w", err)
		}
		return Result{Outcome: OutcomeSuccess}, nil
	case rebase.OutcomeConflict:
		// Left paused for the caller to drive continue/abort/skip through
		// the rebase package; backup is retained until the caller resolves.
		return Result{Outcome: OutcomeConflict, Target: result.ConflictCommit, Files: result.ConflictFiles}, nil
	default:
		if err := Rollback(ctx, repo, backup); err != nil {
			return Result{}, fmt.Errorf("aborted (%s), rollback also failed: %w", result.Reason, err)
		}
		return Result{Outcome: OutcomeAborted, Reason: result.Reason}, nil
	}
}
