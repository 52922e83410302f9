package rebase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/testutil"
)

// appendLinePatch is a minimal single-hunk unified diff appending "two" to a.txt,
// whose parent blob is exactly the target commit's tree so it applies
// cleanly against a scratch index built from that commit alone.
const appendLinePatch = `diff --git a/a.txt b/a.txt
index 5626abf..f719efd 100644
--- a/a.txt
+++ b/a.txt
@@ -1,1 +1,2 @@
 one
+two
`

func TestBuildFixupCommit_ProducesCommitParentedOnTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	target := tr.CommitFile("a.txt", "one\n", "add a")

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)

	fixup, err := BuildFixupCommit(ctx, repo, target, appendLinePatch)
	require.NoError(t, err)
	require.NotEmpty(t, fixup)

	parents, err := repo.Runner.RunTrim(ctx, "log", "-1", "--format=%P", fixup)
	require.NoError(t, err)
	require.Equal(t, target, parents)

	msg, err := repo.Runner.RunTrim(ctx, "log", "-1", "--format=%s", fixup)
	require.NoError(t, err)
	require.Equal(t, "fixup! add a", msg)
}

func TestBuildTodo_EndToEnd_SquashesFixupIntoTarget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tr := testutil.NewRepo(t)
	mergeBase := tr.Head()
	tr.Branch("feature")
	target := tr.CommitFile("a.txt", "one\n", "add a")
	tr.CommitFile("b.txt", "unrelated\n", "add b")

	repo, err := gitwrap.Open(tr.Dir)
	require.NoError(t, err)

	originalCommits := tr.Log(mergeBase)
	require.Len(t, originalCommits, 2)

	result, err := Run(ctx, repo, mergeBase, originalCommits, []Group{
		{TargetCommit: target, Patch: appendLinePatch},
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeSuccess, result.Outcome)

	content, err := repo.Runner.RunTrim(ctx, "show", "HEAD~1:a.txt")
	require.NoError(t, err)
	require.Equal(t, "one\ntwo", content)

	log, err := repo.Runner.RunLines(ctx, "log", "--format=%s", mergeBase+"..HEAD")
	require.NoError(t, err)
	require.Equal(t, []string{"add b", "add a"}, log)
}
