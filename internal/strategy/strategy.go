// Package strategy implements the execution strategies that apply a set of
// generated patches to their target commits atomically, restoring
// the working tree, index, and HEAD on any non-success outcome. Grounded
// on the teacher's stash-before-mutate pattern in internal/actions/absorb.go
// and its worktree lifecycle in internal/git/worktree.go, cross-checked
// against other_examples/53c69336_Agusx1211-adaf__internal-worktree-worktree.go
// for the isolated-worktree idiom.
package strategy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// Outcome tags how Execute concluded.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeConflict
	OutcomeAborted
)

// Result is the outcome of one Execute call.
type Result struct {
	Outcome Outcome
	// Target/Files identify the conflicting commit and files when
	// Outcome == OutcomeConflict.
	Target string
	Files  []string
	// Reason explains an OutcomeAborted result.
	Reason string
}

// Patch is one (target commit, rendered unified diff) unit to apply.
type Patch struct {
	TargetCommit string
	Text         string
	File         string
}

// BackupState is the data model's Backup State: a stash reference plus the
// original HEAD, created before any mutation and consumed on success
// (dropped) or rollback (restored).
type BackupState struct {
	StashRef     string
	OriginalHEAD string
	Branch       string
}

// Strategy executes generated patches against their target commits.
type Strategy interface {
	Name() string
	// Supported reports whether this strategy can run in repo's current
	// state (e.g. worktree strategy needs `git worktree` support).
	Supported(ctx context.Context, repo *gitwrap.Repo) bool
	Execute(ctx context.Context, repo *gitwrap.Repo, patches []Patch) (Result, error)
}

// Backup stashes any dirty state and records HEAD before any mutation, so
// Rollback can restore the repository to exactly this point.
func Backup(ctx context.Context, repo *gitwrap.Repo) (BackupState, error) {
	head, err := repo.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil {
		return BackupState{}, fmt.Errorf("failed to record HEAD: %w", err)
	}
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		branch = ""
	}
	ref, err := repo.StashCreate(ctx, "autosquash-backup")
	if err != nil {
		return BackupState{}, fmt.Errorf("failed to create backup stash: %w", err)
	}
	return BackupState{StashRef: ref, OriginalHEAD: head, Branch: branch}, nil
}

// Rollback restores repo to the state captured in b: resets HEAD back to
// OriginalHEAD and reapplies the stash, if one was created. Idempotent:
// safe to call when nothing was actually mutated.
func Rollback(ctx context.Context, repo *gitwrap.Repo, b BackupState) error {
	if b.OriginalHEAD != "" {
		if b.Branch != "" {
			if _, err := repo.Runner.Run(ctx, "update-ref", "refs/heads/"+b.Branch, b.OriginalHEAD); err != nil {
				return fmt.Errorf("failed to restore branch ref: %w", err)
			}
			if err := repo.CheckoutBranch(ctx, b.Branch); err != nil {
				return fmt.Errorf("failed to check out restored branch: %w", err)
			}
		} else {
			if err := repo.CheckoutDetached(ctx, b.OriginalHEAD); err != nil {
				return fmt.Errorf("failed to restore HEAD: %w", err)
			}
		}
		if res, err := repo.Runner.Run(ctx, "reset", "--hard", b.OriginalHEAD); err != nil || !res.OK() {
			return fmt.Errorf("failed to reset to %s: %s", b.OriginalHEAD, res.Stderr)
		}
	}
	if b.StashRef != "" {
		if res, err := repo.StashApply(ctx, b.StashRef); err != nil || !res.OK() {
			return fmt.Errorf("failed to reapply backup stash %s: %s", b.StashRef, res.Stderr)
		}
	}
	return nil
}

// Commit drops the backup stash, called only on confirmed success.
func Commit(ctx context.Context, repo *gitwrap.Repo, b BackupState) error {
	if b.StashRef == "" {
		return nil
	}
	return repo.StashDrop(ctx, b.StashRef)
}

// scratchDir picks an isolated worktree path under the repository's git
// directory, following the teacher's convention of namespacing scratch
// state under a repo-local directory rather than the system temp dir.
func scratchDir(repoRoot string) (string, func(), error) {
	dir, err := os.MkdirTemp(filepath.Join(repoRoot, ".git"), "autosquash-worktree-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch worktree dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }
	return dir, cleanup, nil
}
