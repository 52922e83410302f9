package gitwrap

import "context"

// Diff returns the raw unified diff for paths. When staged is true this is
// `git diff --cached`; otherwise the working-tree diff against the index.
// An empty paths slice diffs the whole tree.
func (r *Repo) Diff(ctx context.Context, paths []string, staged bool) (string, error) {
	args := []string{"diff", "--no-color", "--no-ext-diff"}
	if staged {
		args = append(args, "--cached")
	}
	if len(paths) > 0 {
		args = append(args, "--")
		args = append(args, paths...)
	}
	res, err := r.Runner.Run(ctx, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// WorkingTreeDiff returns the unified diff of every uncommitted
// modification — staged and unstaged combined — against HEAD, the input
// the hunk parser consumes.
func (r *Repo) WorkingTreeDiff(ctx context.Context) (string, error) {
	res, err := r.Runner.Run(ctx, "diff", "--no-color", "--no-ext-diff", "HEAD")
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// Show returns the raw bytes of rev:path, e.g. the content of a file as it
// existed at a target commit, via `git show` rather than go-git when the
// path may be binary (go-git's object.File().Contents() assumes text).
func (r *Repo) Show(ctx context.Context, rev, path string) ([]byte, error) {
	res, err := r.Runner.Run(ctx, "show", rev+":"+path)
	if err != nil {
		return nil, err
	}
	return []byte(res.Stdout), nil
}

// ApplyOptions configures a `git apply` invocation.
type ApplyOptions struct {
	Cached     bool // apply to the index without touching the working tree
	CheckOnly  bool // --check: validate without applying
	ThreeWay   bool // -3: fall back to a three-way merge on context mismatch
	Directory  string
	WorkingDir string
}

// Apply applies patch text and returns the tagged Result (never erroring on
// rejection — callers inspect Result.OK()).
func (r *Repo) Apply(ctx context.Context, patch string, opts ApplyOptions) (Result, error) {
	args := []string{"apply"}
	if opts.Cached {
		args = append(args, "--cached")
	}
	if opts.CheckOnly {
		args = append(args, "--check")
	}
	if opts.ThreeWay {
		args = append(args, "-3")
	}
	if opts.Directory != "" {
		args = append(args, "--directory", opts.Directory)
	}
	runner := r.Runner
	if opts.WorkingDir != "" {
		runner = NewRunner(opts.WorkingDir)
	}
	return runner.RunWithInput(ctx, patch, args...)
}

// ApplyCheck runs `git apply --check` against target's tree by applying the
// patch into a throwaway index built from that tree. This is invariant 2
// from the testable properties: "git apply --check P against T's file
// state succeeds" for every generated patch.
func (r *Repo) ApplyCheck(ctx context.Context, patch, targetRev string) (Result, error) {
	args := []string{"apply", "--check"}
	res, err := r.runAgainstTree(ctx, targetRev, patch, args)
	return res, err
}

// runAgainstTree stages targetRev into a scratch index (GIT_INDEX_FILE) and
// runs `git <args> <patch>` against it, so apply --check can validate a
// patch against a historical commit without touching HEAD or the real
// index. Grounded on the teacher's checkout-detached pattern in
// internal/git/absorb.go, adapted to avoid moving HEAD at all for a
// read-only check.
func (r *Repo) runAgainstTree(ctx context.Context, targetRev, patch string, args []string) (Result, error) {
	scratchIndex, cleanup, err := r.ScratchIndexFor(ctx, targetRev)
	if err != nil {
		return Result{}, err
	}
	defer cleanup()

	cmd := NewRunner(r.Root)
	env := []string{"GIT_INDEX_FILE=" + scratchIndex}
	return cmd.runInputWithEnv(ctx, patch, env, args...)
}
