package strategy

import (
	"context"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// Select picks a strategy by capability detection and configuration,
// preferring the isolated-workspace strategy when worktrees are supported,
// falling back to index-manipulation otherwise, and using the trivial
// in-place strategy when every patch targets HEAD regardless of worktree
// support.
func Select(ctx context.Context, repo *gitwrap.Repo, mergeBase string, originalCommits []string, patches []Patch, forced string) Strategy {
	if forced != "" {
		return byName(forced, mergeBase, originalCommits)
	}

	if allTargetHEAD(ctx, repo, patches) {
		return InPlaceStrategy{}
	}

	worktree := WorktreeStrategy{MergeBase: mergeBase, OriginalCommits: originalCommits}
	if worktree.Supported(ctx, repo) {
		return worktree
	}
	return IndexStrategy{MergeBase: mergeBase, OriginalCommits: originalCommits}
}

func byName(name, mergeBase string, originalCommits []string) Strategy {
	switch name {
	case "worktree":
		return WorktreeStrategy{MergeBase: mergeBase, OriginalCommits: originalCommits}
	case "index":
		return IndexStrategy{MergeBase: mergeBase, OriginalCommits: originalCommits}
	case "in_place":
		return InPlaceStrategy{}
	default:
		return IndexStrategy{MergeBase: mergeBase, OriginalCommits: originalCommits}
	}
}

func allTargetHEAD(ctx context.Context, repo *gitwrap.Repo, patches []Patch) bool {
	head, err := repo.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil || len(patches) == 0 {
		return false
	}
	for _, p := range patches {
		if p.TargetCommit != head {
			return false
		}
	}
	return true
}
