package patchgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/hunk"
)

// TestPlace_DualIdenticalEditsBindToDistinctLines covers two separate
// source hunks that both change "#if FOO" to "#if BAR", where the target
// file contains the text twice. Each change must claim a different line;
// the lower line wins first since changes are processed in source order.
func TestPlace_DualIdenticalEditsBindToDistinctLines(t *testing.T) {
	t.Parallel()

	fileContent := strings.Join([]string{
		"top",
		"#if FOO",
		"middle",
		"#if FOO",
		"bottom",
	}, "\n")

	changes := []hunk.Change{
		{HasRemoved: true, Removed: "#if FOO", HasAdded: true, Added: "#if BAR"},
		{HasRemoved: true, Removed: "#if FOO", HasAdded: true, Added: "#if BAR"},
	}

	result := Place(fileContent, changes)
	require.Empty(t, result.Unplaceable)
	require.Len(t, result.Placements, 2)
	require.Equal(t, 2, result.Placements[0].Line)
	require.Equal(t, 4, result.Placements[1].Line)

	newLines := strings.Split(result.NewContent, "\n")
	require.Equal(t, "#if BAR", newLines[1])
	require.Equal(t, "#if BAR", newLines[3])
}

// TestPlace_SecondChangeUnplaceableWhenOnlyOneCandidateExists covers
// the case where the target commit's file only contains the text once
// (the second edit's line didn't exist yet at that point in history): the
// first change claims the only candidate, the second becomes unplaceable.
func TestPlace_SecondChangeUnplaceableWhenOnlyOneCandidateExists(t *testing.T) {
	t.Parallel()

	fileContent := "top\n#if FOO\nbottom"
	changes := []hunk.Change{
		{HasRemoved: true, Removed: "#if FOO", HasAdded: true, Added: "#if BAR"},
		{HasRemoved: true, Removed: "#if FOO", HasAdded: true, Added: "#if BAR"},
	}

	result := Place(fileContent, changes)
	require.Len(t, result.Placements, 1)
	require.Len(t, result.Unplaceable, 1)
}

func TestPlace_PureRemoval(t *testing.T) {
	t.Parallel()

	fileContent := "a\nb\nc"
	changes := []hunk.Change{
		{HasRemoved: true, Removed: "b"},
	}
	result := Place(fileContent, changes)
	require.Len(t, result.Placements, 1)
	require.Equal(t, "a\nc", result.NewContent)
}

func TestPlace_PureAdditionUsesContextAnchor(t *testing.T) {
	t.Parallel()

	fileContent := "a\nb\nc"
	changes := []hunk.Change{
		{HasAdded: true, Added: "inserted", ContextBefore: []string{"a", "b"}},
	}
	result := Place(fileContent, changes)
	require.Len(t, result.Placements, 1)
	require.Equal(t, 2, result.Placements[0].Line)
	require.Equal(t, "a\nb\ninserted\nc", result.NewContent)
}

func TestPlace_WhitespacePolicyTrimsOuterOnly(t *testing.T) {
	t.Parallel()

	fileContent := "  #if FOO  \nrest"
	changes := []hunk.Change{
		{HasRemoved: true, Removed: "#if FOO", HasAdded: true, Added: "#if BAR"},
	}
	result := Place(fileContent, changes)
	require.Len(t, result.Placements, 1)
}

func TestRenderUnifiedDiff_NoChangeReturnsEmpty(t *testing.T) {
	t.Parallel()
	require.Empty(t, RenderUnifiedDiff("a.go", "same", "same"))
}

func TestRenderUnifiedDiff_SingleLineChange(t *testing.T) {
	t.Parallel()

	old := "one\ntwo\nthree\nfour\nfive"
	updated := "one\ntwo\nTHREE\nfour\nfive"

	patch := RenderUnifiedDiff("a.go", old, updated)
	require.Contains(t, patch, "diff --git a/a.go b/a.go")
	require.Contains(t, patch, "-three")
	require.Contains(t, patch, "+THREE")
	require.Contains(t, patch, "@@")
}

func TestRenderUnifiedDiff_DistantChangesProduceSeparateHunks(t *testing.T) {
	t.Parallel()

	oldLines := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		oldLines = append(oldLines, "line")
	}
	newLines := append([]string(nil), oldLines...)
	newLines[0] = "changed-start"
	newLines[29] = "changed-end"

	patch := RenderUnifiedDiff("a.go", strings.Join(oldLines, "\n"), strings.Join(newLines, "\n"))
	require.Equal(t, 2, strings.Count(patch, "@@ -"))
}
