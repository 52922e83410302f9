package gitwrap

import (
	"context"
	"fmt"
	"os"
)

// ScratchIndexFor builds a temporary git index file populated from rev's
// tree and returns its path plus a cleanup func. Used by ApplyCheck so a
// patch can be validated against a historical commit's file state without
// disturbing HEAD, the real index, or the working tree — the read-only
// sibling of the teacher's checkout-detached mutation pattern — and by the
// Rebase Orchestrator to build fixup commit trees the same way.
func (r *Repo) ScratchIndexFor(ctx context.Context, rev string) (string, func(), error) {
	f, err := os.CreateTemp("", "autosquash-index-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create scratch index: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	_ = os.Remove(path) // git refuses to initialize a non-empty/malformed existing file

	cleanup := func() { _ = os.Remove(path) }

	env := []string{"GIT_INDEX_FILE=" + path}
	res, err := r.Runner.runInputWithEnv(ctx, "", env, "read-tree", rev)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to populate scratch index from %s: %w", rev, err)
	}
	if !res.OK() {
		cleanup()
		return "", nil, fmt.Errorf("failed to populate scratch index from %s: %s", rev, res.Stderr)
	}
	return path, cleanup, nil
}
