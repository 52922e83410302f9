package strategy

import (
	"context"
	"fmt"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/rebase"
)

// WorktreeStrategy creates a scratch worktree at the branch tip, performs
// the fixup+rebase entirely there, and only fast-forwards the main branch
// ref on success — the main working tree is never touched until the
// rewritten history is ready, giving the cleanest rollback of the three
// strategies.
type WorktreeStrategy struct {
	MergeBase       string
	OriginalCommits []string // oldest-first, the branch's [merge_base..HEAD]
}

func (WorktreeStrategy) Name() string { return "worktree" }

func (WorktreeStrategy) Supported(ctx context.Context, repo *gitwrap.Repo) bool {
	return repo.WorktreeSupported(ctx)
}

func (s WorktreeStrategy) Execute(ctx context.Context, repo *gitwrap.Repo, patches []Patch) (Result, error) {
	head, err := repo.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	dir, cleanup, err := scratchDir(repo.Root)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	if err := repo.WorktreeAdd(ctx, dir, head); err != nil {
		return Result{}, fmt.Errorf("failed to create scratch worktree: %w", err)
	}
	defer func() { _ = repo.WorktreeRemove(ctx, dir) }()

	scratch, err := gitwrap.Open(dir)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open scratch worktree: %w", err)
	}

	groups := groupByTarget(patches)
	result, err := rebase.Run(ctx, scratch, s.MergeBase, s.OriginalCommits, groups)
	if err != nil {
		return Result{}, err
	}
	switch result.Outcome {
	case rebase.OutcomeConflict:
		return Result{Outcome: OutcomeConflict, Target: result.ConflictCommit, Files: result.ConflictFiles}, nil
	case rebase.OutcomeAborted:
		return Result{Outcome: OutcomeAborted, Reason: result.Reason}, nil
	}

	newHead, err := scratch.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil {
		return Result{}, fmt.Errorf("failed to resolve rewritten HEAD: %w", err)
	}

	branch, err := repo.CurrentBranch(ctx)
	if err != nil || branch == "" {
		if err := repo.UpdateRef("HEAD", newHead); err != nil {
			return Result{}, fmt.Errorf("failed to fast-forward detached HEAD: %w", err)
		}
	} else {
		if err := repo.UpdateRef("refs/heads/"+branch, newHead); err != nil {
			return Result{}, fmt.Errorf("failed to fast-forward %s: %w", branch, err)
		}
	}
	if err := repo.CheckoutBranchOrRef(ctx, branch, newHead); err != nil {
		return Result{}, fmt.Errorf("failed to sync main working tree: %w", err)
	}

	return Result{Outcome: OutcomeSuccess}, nil
}

func groupByTarget(patches []Patch) []rebase.Group {
	byTarget := map[string][]string{}
	order := []string{}
	for _, p := range patches {
		if _, ok := byTarget[p.TargetCommit]; !ok {
			order = append(order, p.TargetCommit)
		}
		byTarget[p.TargetCommit] = append(byTarget[p.TargetCommit], p.Text)
	}
	var groups []rebase.Group
	for _, target := range order {
		groups = append(groups, rebase.Group{TargetCommit: target, Patch: mergePatchTexts(byTarget[target])})
	}
	return groups
}

func mergePatchTexts(texts []string) string {
	out := ""
	for _, t := range texts {
		out += t
	}
	return out
}
