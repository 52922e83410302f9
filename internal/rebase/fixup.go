// Package rebase constructs fixup commits from generated patches and
// drives the non-interactive rebase that squashes them onto their target
// commits. Grounded on the teacher's internal/git/rebase.go
// (rebase invocation plumbing, conflict/continue/abort shape) and
// cross-checked against other_examples' abhinav-git-spice fixup/squash
// handlers for the fixup-commit-construction idiom.
package rebase

import (
	"context"
	"fmt"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// BuildFixupCommit creates a commit whose sole parent is target and whose
// tree is target's tree with patch applied, so diff(target, fixup) is
// exactly the generated patch — independent of what HEAD's current tree
// looks like. The commit floats off target until the todo built by
// BuildTodo splices it into the rebase.
func BuildFixupCommit(ctx context.Context, repo *gitwrap.Repo, target, patch string) (string, error) {
	indexPath, cleanup, err := repo.ScratchIndexFor(ctx, target)
	if err != nil {
		return "", fmt.Errorf("failed to build scratch index for %s: %w", gitwrap.ShortSHA(target), err)
	}
	defer cleanup()

	if res, err := repo.ApplyToIndex(ctx, indexPath, patch); err != nil || !res.OK() {
		msg := ""
		if res.Stderr != "" {
			msg = res.Stderr
		}
		return "", fmt.Errorf("patch rejected against %s: %s", gitwrap.ShortSHA(target), msg)
	}

	tree, err := repo.WriteTree(ctx, indexPath)
	if err != nil {
		return "", err
	}

	author, err := repo.CommitAuthor(ctx, target)
	if err != nil {
		return "", err
	}
	subject, err := repo.CommitMessage(ctx, target)
	if err != nil {
		return "", err
	}

	message := "fixup! " + firstLine(subject)
	return repo.CommitTreeRaw(ctx, tree, []string{target}, message, author)
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}
