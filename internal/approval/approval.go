// Package approval defines the external approval collaborator interface:
// the core hands over a list of resolver.Mapping records and receives back
// one Decision per mapping. The core's control flow is
// identical whether the collaborator is a terminal prompt, a scripted
// answer file, or the non-interactive --auto-accept adapter, grounded on
// the teacher's TUI/engine separation where internal/engine never imports
// internal/tui directly but talks through a narrow interface.
package approval

import (
	"context"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/resolver"
)

// Verdict is the collaborator's decision for one mapping.
type Verdict int

const (
	// Approve accepts the mapping's suggested target commit unchanged.
	Approve Verdict = iota
	// Override replaces the suggested target with a user-chosen commit.
	Override
	// Ignore drops the hunk: it is left unstaged in the working tree.
	Ignore
)

func (v Verdict) String() string {
	switch v {
	case Approve:
		return "approve"
	case Override:
		return "override"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Decision is the collaborator's answer for a single Mapping.
type Decision struct {
	Verdict   Verdict
	NewTarget string // set only when Verdict == Override
}

// Collaborator reviews proposed hunk-target mappings and decides what to do
// with each one.
type Collaborator interface {
	// Review returns exactly one Decision per element of mappings, in order.
	Review(ctx context.Context, mappings []resolver.Mapping) ([]Decision, error)
}

// Apply folds a Decision back into the resolver's bookkeeping: an Approve
// leaves the mapping as-is, an Override runs it through resolver.Confirm
// (which also records the choice in the fallback provider's consistency
// cache), and an Ignore retags the mapping's source so downstream stages
// skip it.
func Apply(r *resolver.Resolver, m resolver.Mapping, d Decision) resolver.Mapping {
	switch d.Verdict {
	case Override:
		return r.Confirm(m, d.NewTarget)
	case Ignore:
		m.Source = resolver.SourceIgnore
		m.NeedsUserConfirmation = false
		return m
	default:
		m.NeedsUserConfirmation = false
		return m
	}
}

// AutoAccept implements the --auto-accept collaborator: it approves only
// high-confidence blame_match mappings, leaving everything
// else untouched in the working tree rather than guessing on the user's
// behalf.
type AutoAccept struct{}

func (AutoAccept) Review(ctx context.Context, mappings []resolver.Mapping) ([]Decision, error) {
	decisions := make([]Decision, len(mappings))
	for i, m := range mappings {
		if m.Source == resolver.SourceBlameMatch && m.Confidence == blame.ConfidenceHigh {
			decisions[i] = Decision{Verdict: Approve}
		} else {
			decisions[i] = Decision{Verdict: Ignore}
		}
	}
	return decisions, nil
}
