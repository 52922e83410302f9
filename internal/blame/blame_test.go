package blame

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/gitwrap"
)

type allScope struct{ allowed map[string]bool }

func (s allScope) Contains(sha string) bool { return s.allowed[sha] }

func TestRank_HighConfidenceSingleCommit(t *testing.T) {
	t.Parallel()

	e := &Engine{Scope: allScope{allowed: map[string]bool{"aaa": true}}}
	target := e.rank(context.Background(), []gitwrap.BlameLine{
		{Line: 1, CommitSHA: "aaa"},
		{Line: 2, CommitSHA: "aaa"},
		{Line: 3, CommitSHA: "aaa"},
	})
	require.False(t, target.Empty)
	require.Equal(t, "aaa", target.CommitSHA)
	require.Equal(t, ConfidenceHigh, target.Confidence)
}

func TestRank_MediumConfidenceMajority(t *testing.T) {
	t.Parallel()

	e := &Engine{Scope: allScope{allowed: map[string]bool{"aaa": true, "bbb": true}}}
	target := e.rank(context.Background(), []gitwrap.BlameLine{
		{Line: 1, CommitSHA: "aaa"},
		{Line: 2, CommitSHA: "aaa"},
		{Line: 3, CommitSHA: "aaa"},
		{Line: 4, CommitSHA: "bbb"},
	})
	require.Equal(t, "aaa", target.CommitSHA)
	require.Equal(t, ConfidenceMedium, target.Confidence)
}

func TestRank_LowConfidenceNoMajority(t *testing.T) {
	t.Parallel()

	e := &Engine{Scope: allScope{allowed: map[string]bool{"aaa": true, "bbb": true}}}
	target := e.rank(context.Background(), []gitwrap.BlameLine{
		{Line: 1, CommitSHA: "aaa"},
		{Line: 2, CommitSHA: "bbb"},
	})
	require.Equal(t, ConfidenceLow, target.Confidence)
}

func TestRank_EmptyWhenNothingInScope(t *testing.T) {
	t.Parallel()

	e := &Engine{Scope: allScope{allowed: map[string]bool{}}}
	target := e.rank(context.Background(), []gitwrap.BlameLine{
		{Line: 1, CommitSHA: "aaa"},
	})
	require.True(t, target.Empty)
}

func TestRank_FiltersOutOfScopeCommitsBeforeRanking(t *testing.T) {
	t.Parallel()

	// "outside" dominates the raw histogram but is out of scope, so it must
	// never be selected or counted toward the majority threshold.
	e := &Engine{Scope: allScope{allowed: map[string]bool{"inscope": true}}}
	target := e.rank(context.Background(), []gitwrap.BlameLine{
		{Line: 1, CommitSHA: "outside"},
		{Line: 2, CommitSHA: "outside"},
		{Line: 3, CommitSHA: "outside"},
		{Line: 4, CommitSHA: "inscope"},
	})
	require.Equal(t, "inscope", target.CommitSHA)
	require.Equal(t, ConfidenceHigh, target.Confidence)
}

func TestBreakTie_PicksMostRecentAuthorTime(t *testing.T) {
	t.Parallel()

	meta := map[string]gitwrap.CommitMetadata{
		"old": {SHA: "old", AuthorTime: "1000"},
		"new": {SHA: "new", AuthorTime: "2000"},
	}
	winner := BreakTie([]string{"old", "new"}, meta)
	require.Equal(t, "new", winner)
}
