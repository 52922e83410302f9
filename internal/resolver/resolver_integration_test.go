package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/hunk"
	"autosquash.dev/autosquash/internal/testutil"
)

func TestResolve_BlameMatchOnDirtyWorkingTreeEdit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	mergeBase := tr.Head()
	tr.Branch("feature")
	target := tr.CommitFile("a.txt", "one\ntwo\nthree\n", "add a")

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)
	scope, err := repo.ComputeBranchScope(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, mergeBase, scope.MergeBase)

	r := New(repo, scope)

	h := hunk.Hunk{
		File:     "a.txt",
		Kind:     hunk.KindText,
		OldStart: 2,
		OldCount: 1,
		NewStart: 2,
		NewCount: 1,
		Lines: []hunk.Line{
			{Tag: hunk.LineRemoved, Text: "two", OldLine: 2},
			{Tag: hunk.LineAdded, Text: "TWO", NewLine: 2},
		},
	}

	mappings, err := r.Resolve(ctx, []hunk.Hunk{h}, tr.Head())
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	require.Equal(t, target, mappings[0].TargetCommit)
	require.Equal(t, SourceBlameMatch, mappings[0].Source)
	require.False(t, mappings[0].NeedsUserConfirmation)
}
