package hunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitLineByLine_SingleChangeHunkYieldsOneHunk(t *testing.T) {
	t.Parallel()

	hunks, err := Parse(sampleDiff)
	require.NoError(t, err)
	split := SplitLineByLine(hunks[0])
	require.Len(t, split, 1)
}

func TestSplitLineByLine_MultipleChanges(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,5 +1,5 @@
 ctx1
-old one
+new one
 ctx2
-old two
+new two
 ctx3
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)

	split := SplitLineByLine(hunks[0])
	require.Len(t, split, 2)
	for _, sub := range split {
		require.Equal(t, "a.go", sub.File)
		changes := sub.Changes()
		require.Len(t, changes, 1)
	}
}

func TestSplitLineByLine_NonTextPassesThrough(t *testing.T) {
	t.Parallel()

	h := Hunk{File: "image.png", Kind: KindBinary}
	split := SplitLineByLine(h)
	require.Len(t, split, 1)
	require.Equal(t, KindBinary, split[0].Kind)
}
