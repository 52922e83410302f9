package strategy

import (
	"context"
	"fmt"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// InPlaceStrategy is the simplest variant, for a single-target case: stash
// dirty state, apply the one patch, amend the target commit directly (it
// must be HEAD), drop the backup stash. No rebase is needed since there is nothing
// downstream of the amended commit to replay.
type InPlaceStrategy struct{}

func (InPlaceStrategy) Name() string { return "in_place" }

// Supported always reports true; the requirement that every patch targets
// the current HEAD is checked by Execute, which rejects any other target.
func (InPlaceStrategy) Supported(ctx context.Context, repo *gitwrap.Repo) bool {
	return true
}

func (s InPlaceStrategy) Execute(ctx context.Context, repo *gitwrap.Repo, patches []Patch) (Result, error) {
	head, err := repo.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	for _, p := range patches {
		if p.TargetCommit != head {
			return Result{}, fmt.Errorf("in-place strategy requires every patch to target HEAD (%s), got %s",
				gitwrap.ShortSHA(head), gitwrap.ShortSHA(p.TargetCommit))
		}
	}

	backup, err := Backup(ctx, repo)
	if err != nil {
		return Result{}, err
	}

	for _, p := range patches {
		res, err := repo.Runner.RunWithInput(ctx, p.Text, "apply", "--cached")
		if err != nil || !res.OK() {
			if rbErr := Rollback(ctx, repo, backup); rbErr != nil {
				return Result{}, fmt.Errorf("patch rejected for %s, rollback also failed: %w", p.File, rbErr)
			}
			return Result{Outcome: OutcomeConflict, Target: head, Files: []string{p.File}}, nil
		}
	}

	res, err := repo.Runner.Run(ctx, "commit", "--amend", "--no-edit")
	if err != nil || !res.OK() {
		if rbErr := Rollback(ctx, repo, backup); rbErr != nil {
			return Result{}, fmt.Errorf("amend failed, rollback also failed: %w", rbErr)
		}
		return Result{Outcome: OutcomeAborted, Reason: res.Stderr}, nil
	}

	if err := Commit(ctx, repo, backup); err != nil {
		return Result{}, fmt.Errorf("amend succeeded but failed to drop backup stash: %w", err)
	}
	return Result{Outcome: OutcomeSuccess}, nil
}
