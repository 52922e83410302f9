package rebase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildTodo_InterleavesFixupsAfterTarget(t *testing.T) {
	t.Parallel()

	originals := []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"}
	fixups := map[string][]string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": {"1111111111111111111111111111111111111111"},
	}
	todo := BuildTodo(originals, fixups)
	lines := strings.Split(strings.TrimSpace(todo), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "pick aaaaaaaa"))
	require.True(t, strings.HasPrefix(lines[1], "fixup 11111111"))
	require.True(t, strings.HasPrefix(lines[2], "pick bbbbbbbb"))
}

func TestBuildTodo_MultipleFixupsSameTargetOrderedNewestFirst(t *testing.T) {
	t.Parallel()

	originals := []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	fixups := map[string][]string{
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa": {
			"1111111111111111111111111111111111111111",
			"2222222222222222222222222222222222222222",
		},
	}
	todo := BuildTodo(originals, fixups)
	lines := strings.Split(strings.TrimSpace(todo), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "fixup 22222222"))
	require.True(t, strings.HasPrefix(lines[2], "fixup 11111111"))
}

func TestBuildTodo_NoFixupsIsJustPicks(t *testing.T) {
	t.Parallel()

	originals := []string{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}
	todo := BuildTodo(originals, map[string][]string{})
	require.Equal(t, "pick aaaaaaaa\n", todo)
}
