package strategy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByName_UnknownFallsBackToIndex(t *testing.T) {
	t.Parallel()

	s := byName("bogus", "merge-base", nil)
	require.Equal(t, "index", s.Name())
}

func TestByName_Worktree(t *testing.T) {
	t.Parallel()

	s := byName("worktree", "merge-base", nil)
	require.Equal(t, "worktree", s.Name())
}

func TestByName_InPlace(t *testing.T) {
	t.Parallel()

	s := byName("in_place", "merge-base", nil)
	require.Equal(t, "in_place", s.Name())
}
