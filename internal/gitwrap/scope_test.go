package gitwrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/testutil"
)

func TestComputeBranchScope_FeatureBranchAboveTrunk(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	trunkHead := tr.Head()
	tr.Branch("feature")
	tr.CommitFile("a.txt", "one\n", "first")
	tr.CommitFile("a.txt", "two\n", "second")

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	scope, err := repo.ComputeBranchScope(ctx, "main")
	require.NoError(t, err)
	require.Equal(t, trunkHead, scope.MergeBase)
	require.True(t, scope.IsFeature)
	require.Len(t, scope.Commits, 2)
	require.True(t, scope.Contains(scope.Commits[0]))
}

func TestComputeBranchScope_NoCommitsAboveTrunk(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	tr.Branch("feature")

	repo, err := Open(tr.Dir)
	require.NoError(t, err)

	scope, err := repo.ComputeBranchScope(ctx, "main")
	require.NoError(t, err)
	require.False(t, scope.IsFeature)
	require.Empty(t, scope.Commits)
}
