package blame

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/hunk"
	"autosquash.dev/autosquash/internal/testutil"
)

func TestResolve_TieBreaksByMostRecentAuthorTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	mergeBase := tr.Head()
	tr.Branch("feature")
	older := tr.CommitFile("a.txt", "one\ntwo\n", "add a")
	newer := tr.CommitFile("b.txt", "x\n", "unrelated add b")
	// Re-touch line 1 of a.txt so the pre-image range has one line from
	// each of two distinct in-scope commits with equal counts. Author times
	// have one-second resolution, so wait for the reword to be strictly newer.
	time.Sleep(1100 * time.Millisecond)
	tr.WriteFile("a.txt", "ONE\ntwo\n")
	tr.Commit("reword line one")
	finalHead := tr.Head()

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)
	commits := tr.Log(mergeBase)
	require.Len(t, commits, 3)

	scope := gitwrap.BranchScope{MergeBase: mergeBase, Commits: commits, IsFeature: true}
	e := New(repo, scope)

	h := hunk.Hunk{File: "a.txt", OldStart: 1, OldCount: 2}
	target, err := e.Resolve(ctx, h, finalHead)
	require.NoError(t, err)
	require.False(t, target.Empty)
	// Line 1 belongs to the reword commit (newest), line 2 still to the
	// original add-a commit: a plain tie, broken toward the more recent one.
	require.NotEqual(t, newer, target.CommitSHA)
	require.Equal(t, finalHead, target.CommitSHA)
}
