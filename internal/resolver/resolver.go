// Package resolver orchestrates the Blame Analysis Engine and Fallback
// Target Provider into the final [Mapping] handed to the approval
// collaborator. Processes hunks in file-then-line order and
// maintains a per-file consistency cache of confirmed targets, reusing the
// teacher's per-hunk sequential-loop shape from internal/actions/absorb.go's
// AbsorbAction.
package resolver

import (
	"context"
	"sort"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/fallback"
	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/hunk"
)

// Source tags how a Mapping's target commit was chosen.
type Source int

const (
	SourceBlameMatch Source = iota
	SourceFallbackRecent
	SourceFallbackFileHistory
	SourceFallbackConsistency
	SourceUserOverride
	SourceIgnore
)

func (s Source) String() string {
	switch s {
	case SourceBlameMatch:
		return "blame_match"
	case SourceFallbackRecent:
		return "fallback_recent"
	case SourceFallbackFileHistory:
		return "fallback_file_history"
	case SourceFallbackConsistency:
		return "fallback_consistency"
	case SourceUserOverride:
		return "user_override"
	default:
		return "ignore"
	}
}

// Mapping is the data model's Hunk-Target Mapping tuple.
type Mapping struct {
	Hunk                  hunk.Hunk
	TargetCommit          string
	Source                Source
	Confidence            blame.Confidence
	NeedsUserConfirmation bool
}

// needsConfirmation is true for every non-blame source, and for blame
// matches whose confidence fell short of high.
func needsConfirmation(source Source, confidence blame.Confidence) bool {
	return source != SourceBlameMatch || confidence != blame.ConfidenceHigh
}

// Resolver wires the blame engine and fallback provider together.
type Resolver struct {
	Repo     *gitwrap.Repo
	Blame    *blame.Engine
	Fallback *fallback.Provider
	Scope    gitwrap.BranchScope
}

// New constructs a Resolver over repo, scoped to scope.
func New(repo *gitwrap.Repo, scope gitwrap.BranchScope) *Resolver {
	return &Resolver{
		Repo:     repo,
		Blame:    blame.New(repo, scope),
		Fallback: fallback.New(repo, 0),
		Scope:    scope,
	}
}

// Resolve maps every hunk to a target commit, in file-then-line order.
// Each hunk is blamed with its own `git blame` call, so the subprocess
// count grows with the number of hunks; BatchBlame is not used here.
func (r *Resolver) Resolve(ctx context.Context, hunks []hunk.Hunk, headRev string) ([]Mapping, error) {
	ordered := make([]hunk.Hunk, len(hunks))
	copy(ordered, hunks)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].File != ordered[j].File {
			return ordered[i].File < ordered[j].File
		}
		return ordered[i].OldStart < ordered[j].OldStart
	})

	var mappings []Mapping
	for _, h := range ordered {
		m, err := r.resolveOne(ctx, h, headRev)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, m)
	}
	return mappings, nil
}

func (r *Resolver) resolveOne(ctx context.Context, h hunk.Hunk, headRev string) (Mapping, error) {
	switch h.Kind {
	case hunk.KindBinary, hunk.KindModeOnly:
		return Mapping{Hunk: h, Source: SourceIgnore, Confidence: blame.ConfidenceLow, NeedsUserConfirmation: true}, nil
	}

	isNewFile := h.Kind == hunk.KindNewFile

	if !isNewFile {
		target, err := r.Blame.Resolve(ctx, h, headRev)
		if err != nil {
			return Mapping{}, err
		}
		if !target.Empty {
			return Mapping{
				Hunk:                  h,
				TargetCommit:          target.CommitSHA,
				Source:                SourceBlameMatch,
				Confidence:            target.Confidence,
				NeedsUserConfirmation: needsConfirmation(SourceBlameMatch, target.Confidence),
			}, nil
		}
	}

	suggestion, err := r.Fallback.Suggest(ctx, h.File, r.Scope, isNewFile)
	if err != nil {
		return Mapping{}, err
	}
	if len(suggestion.Candidates) == 0 {
		return Mapping{Hunk: h, Source: SourceIgnore, Confidence: blame.ConfidenceLow, NeedsUserConfirmation: true}, nil
	}

	source := fallbackSource(suggestion.Mode)
	m := Mapping{
		Hunk:                  h,
		TargetCommit:          suggestion.Candidates[0],
		Source:                source,
		Confidence:            suggestion.Confidence,
		NeedsUserConfirmation: needsConfirmation(source, suggestion.Confidence),
	}
	return m, nil
}

func fallbackSource(mode fallback.Mode) Source {
	switch mode {
	case fallback.ModeFileHistory:
		return SourceFallbackFileHistory
	case fallback.ModeConsistency:
		return SourceFallbackConsistency
	default:
		return SourceFallbackRecent
	}
}

// Confirm records the user's decision for a mapping (acceptance of the
// suggested target, or an override), feeding the fallback provider's
// consistency cache so subsequent hunks in the same file default to it.
func (r *Resolver) Confirm(m Mapping, confirmedTarget string) Mapping {
	if confirmedTarget != m.TargetCommit {
		m.TargetCommit = confirmedTarget
		m.Source = SourceUserOverride
		m.Confidence = blame.ConfidenceHigh
		m.NeedsUserConfirmation = false
	}
	r.Fallback.RecordConfirmed(m.Hunk.File, m.TargetCommit)
	return m
}
