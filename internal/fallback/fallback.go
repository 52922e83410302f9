// Package fallback provides the three fallback target-selection modes used
// when blame analysis yields no in-scope target. The "recent N" and "last
// commits that touched this file" modes are grounded on the
// teacher's GetCommitRangeSHAs/GetCommitHistorySHAs
// (internal/git/commit_info.go), here applied with a path filter via
// `git log --follow -- <path>` instead of a whole-branch walk.
package fallback

import (
	"context"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/gitwrap"
)

// Mode tags which fallback rule produced a Suggestion.
type Mode int

const (
	ModeRecentCommits Mode = iota
	ModeFileHistory
	ModeConsistency
)

// Suggestion is a fallback's proposed target list (most-recent first) plus
// the confidence that mode carries.
type Suggestion struct {
	Mode       Mode
	Candidates []string // commit SHAs, most-recent first
	Confidence blame.Confidence
}

// DefaultRecentN is how many of the most recent branch commits are offered
// when a hunk touches a brand-new file with no blame history.
const DefaultRecentN = 5

// Provider selects fallback candidates using the Git Primitive Wrapper and
// an in-memory consistency cache of already-confirmed targets.
type Provider struct {
	Repo       *gitwrap.Repo
	RecentN    int
	consistent map[string]string // file -> confirmed commit SHA
}

// New constructs a Provider. RecentN defaults to DefaultRecentN when <= 0.
func New(repo *gitwrap.Repo, recentN int) *Provider {
	if recentN <= 0 {
		recentN = DefaultRecentN
	}
	return &Provider{Repo: repo, RecentN: recentN, consistent: map[string]string{}}
}

// RecordConfirmed records that file's hunks should default to target for
// the remainder of this invocation, feeding Consistency's reuse rule.
func (p *Provider) RecordConfirmed(file, target string) {
	p.consistent[file] = target
}

// Suggest returns fallback candidates for file, preferring (in order):
// 1. an earlier user-confirmed target for the same file (Consistency),
// 2. the in-scope commits that last touched this file (File History),
// 3. the most recent N commits on the branch (New File).
func (p *Provider) Suggest(ctx context.Context, file string, scope gitwrap.BranchScope, isNewFile bool) (Suggestion, error) {
	if target, ok := p.consistent[file]; ok {
		return Suggestion{Mode: ModeConsistency, Candidates: []string{target}, Confidence: blame.ConfidenceMedium}, nil
	}

	if !isNewFile {
		history, err := p.fileHistory(ctx, file, scope)
		if err != nil {
			return Suggestion{}, err
		}
		if len(history) > 0 {
			return Suggestion{Mode: ModeFileHistory, Candidates: history, Confidence: blame.ConfidenceLow}, nil
		}
	}

	recent := scope.Commits
	if len(recent) > p.RecentN {
		recent = recent[:p.RecentN]
	}
	return Suggestion{Mode: ModeRecentCommits, Candidates: recent, Confidence: blame.ConfidenceLow}, nil
}

// fileHistory returns the in-scope commits (most-recent first) that
// modified file, via `git log --follow -- file` restricted to the branch
// scope's commit range.
func (p *Provider) fileHistory(ctx context.Context, file string, scope gitwrap.BranchScope) ([]string, error) {
	args := []string{"log", "--format=%H", "--follow"}
	if scope.MergeBase != "" {
		args = append(args, scope.MergeBase+"..HEAD")
	} else {
		args = append(args, "HEAD")
	}
	args = append(args, "--", file)

	lines, err := p.Repo.Runner.RunLines(ctx, args...)
	if err != nil {
		return nil, err
	}
	var inScope []string
	for _, sha := range lines {
		if scope.Contains(sha) {
			inScope = append(inScope, sha)
		}
	}
	return inScope, nil
}
