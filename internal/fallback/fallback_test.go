package fallback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/blame"
	"autosquash.dev/autosquash/internal/gitwrap"
)

func TestSuggest_ConsistencyTakesPriority(t *testing.T) {
	t.Parallel()

	p := New(nil, 0)
	p.RecordConfirmed("a.go", "ccc")

	s, err := p.Suggest(context.Background(), "a.go", gitwrap.BranchScope{}, false)
	require.NoError(t, err)
	require.Equal(t, ModeConsistency, s.Mode)
	require.Equal(t, []string{"ccc"}, s.Candidates)
	require.Equal(t, blame.ConfidenceMedium, s.Confidence)
}

func TestSuggest_NewFileUsesRecentCommits(t *testing.T) {
	t.Parallel()

	p := New(nil, 2)
	scope := gitwrap.BranchScope{Commits: []string{"c3", "c2", "c1"}}

	s, err := p.Suggest(context.Background(), "new.go", scope, true)
	require.NoError(t, err)
	require.Equal(t, ModeRecentCommits, s.Mode)
	require.Equal(t, []string{"c3", "c2"}, s.Candidates)
	require.Equal(t, blame.ConfidenceLow, s.Confidence)
}

func TestSuggest_RecentNDefaultsWhenNonPositive(t *testing.T) {
	t.Parallel()

	p := New(nil, 0)
	require.Equal(t, DefaultRecentN, p.RecentN)
}
