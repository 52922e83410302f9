package gitwrap

import "context"

// BranchScope is the ordered list of commits reachable from HEAD but not
// from the merge-base with the integration branch, newest first, as defined
// in the data model's Branch Scope entry.
type BranchScope struct {
	MergeBase string
	Commits   []string // mergeBase..HEAD, newest first
	IsFeature bool     // HEAD is on a feature branch with >=1 commit above merge-base
}

// Contains reports whether sha is within branch scope.
func (s BranchScope) Contains(sha string) bool {
	for _, c := range s.Commits {
		if c == sha {
			return true
		}
	}
	return false
}

// ComputeBranchScope computes the branch scope once per invocation, per the
// resource model ("Branch Scope... Computed once per invocation").
// integrationBranch is typically the repository's trunk (main/master);
// callers resolve it via config before calling this.
func (r *Repo) ComputeBranchScope(ctx context.Context, integrationBranch string) (BranchScope, error) {
	mergeBase, err := r.MergeBase(ctx, "HEAD", integrationBranch)
	if err != nil {
		return BranchScope{}, err
	}
	commits, err := r.RevList(ctx, mergeBase, "HEAD")
	if err != nil {
		return BranchScope{}, err
	}
	return BranchScope{
		MergeBase: mergeBase,
		Commits:   commits,
		IsFeature: len(commits) > 0,
	}, nil
}

// MergeBase returns the merge-base commit of a and b.
func (r *Repo) MergeBase(ctx context.Context, a, b string) (string, error) {
	return r.Runner.RunTrim(ctx, "merge-base", a, b)
}

// RevList returns the commits in (from..to], newest first.
func (r *Repo) RevList(ctx context.Context, from, to string) ([]string, error) {
	return r.Runner.RunLines(ctx, "rev-list", from+".."+to)
}

// IsAncestor reports whether ancestor is an ancestor of (or equal to)
// descendant.
func (r *Repo) IsAncestor(ctx context.Context, ancestor, descendant string) (bool, error) {
	res, err := r.Runner.Run(ctx, "merge-base", "--is-ancestor", ancestor, descendant)
	if err != nil {
		return false, err
	}
	return res.OK(), nil
}
