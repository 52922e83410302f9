package strategy

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/testutil"
)

func TestBackupRollbackCommit_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	tr.CommitFile("a.txt", "one\n", "add a")
	head := tr.Head()

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)

	// Dirty the working tree so Backup has something to stash.
	require.NoError(t, os.WriteFile(filepath.Join(tr.Dir, "a.txt"), []byte("dirty\n"), 0o644))

	backup, err := Backup(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, head, backup.OriginalHEAD)
	require.NotEmpty(t, backup.StashRef)

	// Working tree should now be clean (stash created).
	content, err := os.ReadFile(filepath.Join(tr.Dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "one\n", string(content))

	require.NoError(t, Rollback(ctx, repo, backup))

	content, err = os.ReadFile(filepath.Join(tr.Dir, "a.txt"))
	require.NoError(t, err)
	require.Equal(t, "dirty\n", string(content))
}

func TestInPlaceStrategy_RequiresPatchesTargetHEAD(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	tr.CommitFile("a.txt", "one\n", "add a")

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)

	_, err = InPlaceStrategy{}.Execute(ctx, repo, []Patch{{TargetCommit: "deadbeef", Text: "", File: "a.txt"}})
	require.Error(t, err)
}

func TestSelect_AllTargetHEADPicksInPlace(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	tr.CommitFile("a.txt", "one\n", "add a")
	head := tr.Head()

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)

	s := Select(ctx, repo, head, nil, []Patch{{TargetCommit: head}}, "")
	require.Equal(t, "in_place", s.Name())
}
