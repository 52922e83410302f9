package resolver

import (
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/fallback"
)

func TestNeedsConfirmation_HighConfidenceBlameNeedsNone(t *testing.T) {
	t.Parallel()
	require.False(t, needsConfirmation(SourceBlameMatch, blame.ConfidenceHigh))
}

func TestNeedsConfirmation_NonBlameSourceAlwaysNeedsConfirmation(t *testing.T) {
	t.Parallel()
	require.True(t, needsConfirmation(SourceFallbackRecent, blame.ConfidenceHigh))
}

func TestNeedsConfirmation_NonHighConfidenceBlameNeedsConfirmation(t *testing.T) {
	t.Parallel()
	require.True(t, needsConfirmation(SourceBlameMatch, blame.ConfidenceMedium))
}

func TestConfirm_OverrideChangesSourceAndConfidence(t *testing.T) {
	t.Parallel()

	r := &Resolver{Fallback: fallback.New(nil, 0)}
	m := Mapping{TargetCommit: "aaa", Source: SourceFallbackRecent, Confidence: blame.ConfidenceLow, NeedsUserConfirmation: true}
	m.Hunk.File = "a.go"

	out := r.Confirm(m, "bbb")
	require.Equal(t, "bbb", out.TargetCommit)
	require.Equal(t, SourceUserOverride, out.Source)
	require.Equal(t, blame.ConfidenceHigh, out.Confidence)
	require.False(t, out.NeedsUserConfirmation)
}

func TestConfirm_AcceptingSuggestionKeepsSource(t *testing.T) {
	t.Parallel()

	r := &Resolver{Fallback: fallback.New(nil, 0)}
	m := Mapping{TargetCommit: "aaa", Source: SourceFallbackRecent, Confidence: blame.ConfidenceLow, NeedsUserConfirmation: true}
	m.Hunk.File = "a.go"

	out := r.Confirm(m, "aaa")
	require.Equal(t, SourceFallbackRecent, out.Source)
}
