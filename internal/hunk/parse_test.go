package hunk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/main.c b/main.c
index 1111111..2222222 100644
--- a/main.c
+++ b/main.c
@@ -88,7 +88,7 @@ int run(void) {
 int run(void) {
     int x = 1;
-#if FOO
+#if BAR
     do_thing();
 #endif
     return x;
 }
`

func TestParse_SingleTextHunk(t *testing.T) {
	t.Parallel()

	hunks, err := Parse(sampleDiff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)

	h := hunks[0]
	require.Equal(t, "main.c", h.File)
	require.Equal(t, KindText, h.Kind)
	require.Equal(t, 88, h.OldStart)
	require.Equal(t, 7, h.OldCount)
	require.Equal(t, 88, h.NewStart)
	require.Equal(t, 7, h.NewCount)

	var removed, added int
	for _, l := range h.Lines {
		switch l.Tag {
		case LineRemoved:
			removed++
		case LineAdded:
			added++
		}
	}
	require.Equal(t, 1, removed)
	require.Equal(t, 1, added)
}

func TestParse_EmptyDiff(t *testing.T) {
	t.Parallel()

	hunks, err := Parse("")
	require.NoError(t, err)
	require.Empty(t, hunks)
}

func TestParse_BinaryFile(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/image.png b/image.png
index 1111111..2222222 100644
Binary files a/image.png and b/image.png differ
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	require.Equal(t, KindBinary, hunks[0].Kind)
	require.Equal(t, "image.png", hunks[0].File)
}

func TestParse_ModeOnlyChange(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/run.sh b/run.sh
old mode 100644
new mode 100755
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	require.Equal(t, KindModeOnly, hunks[0].Kind)
}

func TestParse_NewFile(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..1111111
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+line one
+line two
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	require.Equal(t, KindNewFile, hunks[0].Kind)
	require.Equal(t, "new.txt", hunks[0].File)
}

func TestParse_DeletedFile(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index 1111111..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-line one
-line two
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	require.Equal(t, KindDeletedFile, hunks[0].Kind)
}

func TestParse_MultipleHunksSameFile(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,2 +1,2 @@
-old one
+new one
 context
@@ -50,2 +50,2 @@
-old two
+new two
 context
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	require.Len(t, hunks, 2)
	require.Equal(t, 1, hunks[0].OldStart)
	require.Equal(t, 50, hunks[1].OldStart)
}

func TestHunk_Changes_SingleReplacement(t *testing.T) {
	t.Parallel()

	hunks, err := Parse(sampleDiff)
	require.NoError(t, err)
	changes := hunks[0].Changes()
	require.Len(t, changes, 1)
	require.True(t, changes[0].IsReplacement())
	require.Equal(t, "#if FOO", changes[0].Removed)
	require.Equal(t, "#if BAR", changes[0].Added)
	require.NotEmpty(t, changes[0].ContextBefore)
}

func TestHunk_Changes_ReplacementThenPureAddition(t *testing.T) {
	t.Parallel()

	const diff = `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -1,3 +1,4 @@
 ctx1
-removed only
+added only
+added extra
 ctx2
`
	hunks, err := Parse(diff)
	require.NoError(t, err)
	changes := hunks[0].Changes()
	require.Len(t, changes, 2)
	require.True(t, changes[0].IsReplacement())
	require.True(t, changes[1].IsPureAddition())
}

func TestValidatePath_RejectsTraversal(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	h := Hunk{File: "../../etc/passwd"}
	err := h.ValidatePath(tmp)
	require.Error(t, err)
}

func TestValidatePath_AcceptsOrdinaryPath(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	h := Hunk{File: "src/main.go"}
	err := h.ValidatePath(tmp)
	require.NoError(t, err)
}
