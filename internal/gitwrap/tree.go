package gitwrap

import (
	"context"
	"fmt"
	"strings"
)

// ApplyToIndex applies patch into the index at indexPath (typically a
// scratch index built by ScratchIndexFor) without touching the working
// tree, used by the Rebase Orchestrator to build a fixup commit's tree
// without disturbing the real index.
func (r *Repo) ApplyToIndex(ctx context.Context, indexPath, patch string) (Result, error) {
	env := []string{"GIT_INDEX_FILE=" + indexPath}
	return r.Runner.runInputWithEnv(ctx, patch, env, "apply", "--cached", "-")
}

// WriteTree writes the tree object for the index at indexPath and returns
// its hash.
func (r *Repo) WriteTree(ctx context.Context, indexPath string) (string, error) {
	env := []string{"GIT_INDEX_FILE=" + indexPath}
	res, err := r.Runner.runInputWithEnv(ctx, "", env, "write-tree")
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("failed to write tree: %s", res.Stderr)
	}
	return strings.TrimSpace(res.Stdout), nil
}

// ShortSHA truncates sha to 8 characters for log/error messages, matching
// the truncation length used throughout the error taxonomy.
func ShortSHA(sha string) string {
	if len(sha) <= 8 {
		return sha
	}
	return sha[:8]
}

// CommitTreeRaw creates a commit object directly from tree and parents,
// used by the Rebase Orchestrator to build a `fixup!` commit whose parent
// is the target commit, so its diff against that parent is exactly the
// generated patch regardless of what HEAD's current tree looks like.
func (r *Repo) CommitTreeRaw(ctx context.Context, tree string, parents []string, message string, author Author) (string, error) {
	args := []string{"commit-tree", tree}
	for _, p := range parents {
		args = append(args, "-p", p)
	}
	args = append(args, "-m", message)

	env := []string{
		"GIT_AUTHOR_NAME=" + author.Name,
		"GIT_AUTHOR_EMAIL=" + author.Email,
		"GIT_AUTHOR_DATE=" + author.When.Format("2006-01-02T15:04:05-0700"),
		"GIT_COMMITTER_NAME=" + author.Name,
		"GIT_COMMITTER_EMAIL=" + author.Email,
		"GIT_COMMITTER_DATE=" + author.When.Format("2006-01-02T15:04:05-0700"),
	}
	res, err := r.Runner.runInputWithEnv(ctx, "", env, args...)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("failed to create commit-tree: %s", res.Stderr)
	}
	return strings.TrimSpace(res.Stdout), nil
}
