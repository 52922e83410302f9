package gitwrap

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Repo wraps a Runner (for porcelain mutation) and a go-git *gogit.Repository
// (for object-level reads), mirroring the teacher's split between
// exec.Command-based porcelain (internal/git/runner.go) and go-git object
// access (internal/git/absorb.go's use of repo.CommitObject / c1.Patch).
// go-git serves commit-object reads such as CommitObject; file contents at a
// target commit (Show) and blob writes (CreateBlob) run a `git show` /
// `git hash-object` subprocess through the Runner.
type Repo struct {
	Runner *Runner
	Root   string
	repo   *gogit.Repository
}

// Open finds the repository containing dir and returns a Repo rooted at its
// worktree. Fails with a wrapped "not a git repository" error if dir is not
// inside a git repository; the CLI reports that as a precondition failure.
func Open(dir string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("not a git repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	root := wt.Filesystem.Root()
	return &Repo{
		Runner: NewRunner(root),
		Root:   root,
		repo:   repo,
	}, nil
}

// CommitObject resolves rev (any revision go-git's revision parser accepts:
// a SHA, HEAD, a branch name) to its commit object.
func (r *Repo) CommitObject(ctx context.Context, rev string) (*object.Commit, error) {
	hash, err := r.resolve(ctx, rev)
	if err != nil {
		return nil, err
	}
	return r.repo.CommitObject(hash)
}

// resolve turns any revision string git understands into a plumbing.Hash,
// shelling out to `git rev-parse` since go-git's own revision grammar is a
// strict subset of git's (it doesn't cover every relative ref form autosquash
// may see from the blame/fallback layers).
func (r *Repo) resolve(ctx context.Context, rev string) (plumbing.Hash, error) {
	sha, err := r.Runner.RunTrim(ctx, "rev-parse", "--verify", rev+"^{commit}")
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("failed to resolve %q: %w", rev, err)
	}
	return plumbing.NewHash(sha), nil
}

// FileAtCommit returns the full content of path as it exists in rev's tree.
func (r *Repo) FileAtCommit(ctx context.Context, rev, path string) (string, error) {
	commit, err := r.CommitObject(ctx, rev)
	if err != nil {
		return "", err
	}
	file, err := commit.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s at %s: %w", path, rev, err)
	}
	return file.Contents()
}

// ParentHash returns the first parent hash of rev, or the zero hash if rev
// is a root commit.
func (r *Repo) ParentHash(ctx context.Context, rev string) (string, error) {
	commit, err := r.CommitObject(ctx, rev)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		return "", nil
	}
	return commit.ParentHashes[0].String(), nil
}

// UpdateRef points refName (e.g. "refs/heads/feature") at sha, grounded on
// the teacher's UpdateBranchRef (internal/git/absorb.go).
func (r *Repo) UpdateRef(refName, sha string) error {
	ref := plumbing.NewHashReference(plumbing.ReferenceName(refName), plumbing.NewHash(sha))
	if err := r.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("failed to update %s: %w", refName, err)
	}
	return nil
}
