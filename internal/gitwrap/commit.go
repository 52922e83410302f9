package gitwrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// Author is a commit's author or committer identity and timestamp.
type Author struct {
	Name  string
	Email string
	When  time.Time
}

// CommitAuthor returns the author identity of rev.
func (r *Repo) CommitAuthor(ctx context.Context, rev string) (Author, error) {
	commit, err := r.CommitObject(ctx, rev)
	if err != nil {
		return Author{}, err
	}
	return Author{Name: commit.Author.Name, Email: commit.Author.Email, When: commit.Author.When}, nil
}

// CommitMessage returns the full, trimmed commit message of rev.
func (r *Repo) CommitMessage(ctx context.Context, rev string) (string, error) {
	commit, err := r.CommitObject(ctx, rev)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(commit.Message), nil
}

// CheckoutDetached checks out rev with a detached HEAD, used by the
// execution strategies to rewrite history without touching a branch ref
// until the rewritten commit is ready to be swung into place.
func (r *Repo) CheckoutDetached(ctx context.Context, rev string) error {
	res, err := r.Runner.Run(ctx, "checkout", "--detach", rev)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to checkout %s: %s", rev, res.Stderr)
	}
	return nil
}

// CheckoutBranch checks out an existing branch.
func (r *Repo) CheckoutBranch(ctx context.Context, branch string) error {
	res, err := r.Runner.Run(ctx, "checkout", branch)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to checkout %s: %s", branch, res.Stderr)
	}
	return nil
}

// CheckoutBranchOrRef syncs the working tree and index to rev: if branch
// is non-empty it resets that branch (assumed already checked out, as is
// the case for the strategy layer's main worktree) to rev via a hard
// reset; otherwise it detaches HEAD at rev. Used after a worktree strategy
// fast-forwards the branch ref, to bring the main working tree in step.
func (r *Repo) CheckoutBranchOrRef(ctx context.Context, branch, rev string) error {
	if branch == "" {
		return r.CheckoutDetached(ctx, rev)
	}
	res, err := r.Runner.Run(ctx, "reset", "--hard", rev)
	if err != nil {
		return err
	}
	if !res.OK() {
		return fmt.Errorf("failed to reset %s to %s: %s", branch, rev, res.Stderr)
	}
	return nil
}

// CommitOptions configures CommitTree.
type CommitOptions struct {
	Message string
	Author  Author
	// Committer defaults to Author when zero.
	Committer Author
}

// CommitTree creates a commit object over the current index (`git
// commit-tree` needs an explicit tree; this wrapper commits the currently
// staged index via `git commit` with author/committer env vars pinned, the
// same approach the teacher uses in internal/git/absorb.go's
// ApplyHunksToCommit so the recreated commit preserves the original
// author/date instead of stamping "now").
func (r *Repo) CommitTree(ctx context.Context, parent string, opts CommitOptions) (string, error) {
	committer := opts.Committer
	if committer.Name == "" {
		committer = opts.Author
	}
	env := []string{
		"GIT_AUTHOR_NAME=" + opts.Author.Name,
		"GIT_AUTHOR_EMAIL=" + opts.Author.Email,
		"GIT_AUTHOR_DATE=" + opts.Author.When.Format("2006-01-02T15:04:05-0700"),
		"GIT_COMMITTER_NAME=" + committer.Name,
		"GIT_COMMITTER_EMAIL=" + committer.Email,
		"GIT_COMMITTER_DATE=" + committer.When.Format("2006-01-02T15:04:05-0700"),
	}
	res, err := r.Runner.runInputWithEnv(ctx, "", env, "commit", "--no-verify", "-m", opts.Message)
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("failed to commit: %s", res.Stderr)
	}
	return r.Runner.RunTrim(ctx, "rev-parse", "HEAD")
}

// CommitWithHooks is CommitTree without --no-verify, so pre-commit hooks
// run; used by the Rebase Orchestrator, which needs to observe and retry
// when a hook modifies files before committing.
func (r *Repo) CommitWithHooks(ctx context.Context, opts CommitOptions) (Result, error) {
	committer := opts.Committer
	if committer.Name == "" {
		committer = opts.Author
	}
	env := []string{
		"GIT_AUTHOR_NAME=" + opts.Author.Name,
		"GIT_AUTHOR_EMAIL=" + opts.Author.Email,
		"GIT_AUTHOR_DATE=" + opts.Author.When.Format("2006-01-02T15:04:05-0700"),
		"GIT_COMMITTER_NAME=" + committer.Name,
		"GIT_COMMITTER_EMAIL=" + committer.Email,
		"GIT_COMMITTER_DATE=" + committer.When.Format("2006-01-02T15:04:05-0700"),
	}
	return r.Runner.runInputWithEnv(ctx, "", env, "commit", "-m", opts.Message)
}

// CherryPick cherry-picks commitSHA onto the current HEAD.
func (r *Repo) CherryPick(ctx context.Context, commitSHA string) (Result, error) {
	return r.Runner.Run(ctx, "cherry-pick", commitSHA)
}

// CherryPickAbort aborts an in-progress cherry-pick.
func (r *Repo) CherryPickAbort(ctx context.Context) error {
	_, err := r.Runner.Run(ctx, "cherry-pick", "--abort")
	return err
}

// CreateBlob writes content as a loose blob object and returns its SHA.
func (r *Repo) CreateBlob(ctx context.Context, content string) (string, error) {
	res, err := r.Runner.RunWithInput(ctx, content, "hash-object", "-w", "--stdin")
	if err != nil {
		return "", err
	}
	if !res.OK() {
		return "", fmt.Errorf("hash-object failed: %s", strings.TrimSpace(res.Stderr))
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Env returns the process environment with git passthrough variables
// (GIT_DIR, GIT_WORK_TREE, editor vars) preserved unchanged.
func Env() []string {
	return os.Environ()
}
