package approval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/fallback"
	"autosquash.dev/autosquash/internal/hunk"
	"autosquash.dev/autosquash/internal/resolver"
)

func TestAutoAccept_ApprovesOnlyHighConfidenceBlameMatch(t *testing.T) {
	t.Parallel()

	mappings := []resolver.Mapping{
		{Source: resolver.SourceBlameMatch, Confidence: blame.ConfidenceHigh},
		{Source: resolver.SourceBlameMatch, Confidence: blame.ConfidenceMedium},
		{Source: resolver.SourceFallbackRecent, Confidence: blame.ConfidenceHigh},
	}

	decisions, err := AutoAccept{}.Review(context.Background(), mappings)
	require.NoError(t, err)
	require.Len(t, decisions, 3)
	require.Equal(t, Approve, decisions[0].Verdict)
	require.Equal(t, Ignore, decisions[1].Verdict)
	require.Equal(t, Ignore, decisions[2].Verdict)
}

func TestApply_OverrideDelegatesToResolverConfirm(t *testing.T) {
	t.Parallel()

	r := &resolver.Resolver{Fallback: fallback.New(nil, 0)}
	m := resolver.Mapping{
		Hunk:         hunk.Hunk{File: "a.go"},
		TargetCommit: "aaa",
		Source:       resolver.SourceFallbackRecent,
		Confidence:   blame.ConfidenceLow,
	}

	got := Apply(r, m, Decision{Verdict: Override, NewTarget: "bbb"})
	require.Equal(t, "bbb", got.TargetCommit)
	require.Equal(t, resolver.SourceUserOverride, got.Source)
	require.False(t, got.NeedsUserConfirmation)
}

func TestApply_IgnoreRetagsSource(t *testing.T) {
	t.Parallel()

	m := resolver.Mapping{Source: resolver.SourceFallbackRecent, NeedsUserConfirmation: true}
	got := Apply(nil, m, Decision{Verdict: Ignore})
	require.Equal(t, resolver.SourceIgnore, got.Source)
	require.False(t, got.NeedsUserConfirmation)
}

func TestApply_ApproveClearsConfirmationFlag(t *testing.T) {
	t.Parallel()

	m := resolver.Mapping{Source: resolver.SourceBlameMatch, NeedsUserConfirmation: true}
	got := Apply(nil, m, Decision{Verdict: Approve})
	require.Equal(t, resolver.SourceBlameMatch, got.Source)
	require.False(t, got.NeedsUserConfirmation)
}
