package rebase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"autosquash.dev/autosquash/internal/gitwrap"
)

// Group is one target commit's accumulated patch, the unit BuildFixupCommit
// and the todo builder operate on.
type Group struct {
	TargetCommit string
	Patch        string
}

// Outcome mirrors the execution-strategy outcome vocabulary for the
// rebase's own conflict surface.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeConflict
	OutcomeAborted
)

// Result reports how Run concluded.
type Result struct {
	Outcome        Outcome
	ConflictCommit string
	ConflictFiles  []string
	SkippedTargets []string
	Reason         string
}

// BuildTodo renders a non-interactive rebase todo list that interleaves
// originalCommits (oldest-first, as `git rev-list --reverse` would order
// them) with `fixup <sha>` entries immediately after the commit they
// target: within the todo (which itself plays oldest-to-newest), a
// commit's fixups are emitted immediately after it, and when a single
// target has more than one fixup (multiple files resolved to the same
// commit) they are ordered most-recently-constructed-first.
func BuildTodo(originalCommits []string, fixupsByTarget map[string][]string) string {
	var b strings.Builder
	for _, sha := range originalCommits {
		fmt.Fprintf(&b, "pick %s\n", gitwrap.ShortSHA(sha))
		fixups := fixupsByTarget[sha]
		for i := len(fixups) - 1; i >= 0; i-- {
			fmt.Fprintf(&b, "fixup %s\n", gitwrap.ShortSHA(fixups[i]))
		}
	}
	return b.String()
}

// Run builds one fixup commit per group, constructs the rebase todo, and
// drives a non-interactive `git rebase -i` via a scripted sequence editor
// that overwrites git's generated todo file with ours — the standard
// scripting technique for a non-interactive interactive-rebase, since git
// has no plumbing-level "apply this todo" command.
func Run(ctx context.Context, repo *gitwrap.Repo, mergeBase string, originalCommits []string, groups []Group) (Result, error) {
	fixupsByTarget := map[string][]string{}
	for _, g := range groups {
		sha, err := BuildFixupCommit(ctx, repo, g.TargetCommit, g.Patch)
		if err != nil {
			return Result{}, fmt.Errorf("building fixup for %s: %w", gitwrap.ShortSHA(g.TargetCommit), err)
		}
		fixupsByTarget[g.TargetCommit] = append(fixupsByTarget[g.TargetCommit], sha)
	}

	todo := BuildTodo(originalCommits, fixupsByTarget)
	todoFile, err := os.CreateTemp("", "autosquash-todo-*")
	if err != nil {
		return Result{}, fmt.Errorf("failed to write rebase todo: %w", err)
	}
	defer os.Remove(todoFile.Name())
	if _, err := todoFile.WriteString(todo); err != nil {
		_ = todoFile.Close()
		return Result{}, fmt.Errorf("failed to write rebase todo: %w", err)
	}
	_ = todoFile.Close()

	env := []string{
		"GIT_SEQUENCE_EDITOR=cp " + todoFile.Name(),
		"GIT_EDITOR=true",
	}
	res, err := repo.Runner.RunWithEnv(ctx, env, "rebase", "-i", mergeBase)
	if err != nil {
		return Result{}, err
	}
	if res.OK() {
		return Result{Outcome: OutcomeSuccess}, nil
	}
	return classifyFailure(ctx, repo, res)
}

// classifyFailure inspects a non-zero rebase invocation to distinguish a
// genuine merge conflict from any other stoppage.
func classifyFailure(ctx context.Context, repo *gitwrap.Repo, res gitwrap.Result) (Result, error) {
	conflicted, err := repo.Runner.RunLines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return Result{}, err
	}
	if len(conflicted) == 0 {
		return Result{Outcome: OutcomeAborted, Reason: res.Stderr}, nil
	}
	commit, _ := repo.Runner.RunTrim(ctx, "rev-parse", "--short", "REBASE_HEAD")
	return Result{Outcome: OutcomeConflict, ConflictCommit: commit, ConflictFiles: conflicted}, nil
}

// Continue resumes a paused rebase after manual conflict resolution,
// retrying once on a pre-commit-hook file-modification failure: re-stage
// everything the hook changed and retry the amend a single time before
// treating it as a conflict.
func Continue(ctx context.Context, repo *gitwrap.Repo) (Result, error) {
	env := []string{"GIT_EDITOR=true"}
	res, err := repo.Runner.RunWithEnv(ctx, env, "rebase", "--continue")
	if err != nil {
		return Result{}, err
	}
	if res.OK() {
		return Result{Outcome: OutcomeSuccess}, nil
	}
	if strings.Contains(res.Stdout, "files were modified by this hook") ||
		strings.Contains(res.Stderr, "files were modified by this hook") {
		if _, err := repo.Runner.Run(ctx, "add", "-A"); err != nil {
			return Result{}, err
		}
		retry, err := repo.Runner.RunWithEnv(ctx, env, "rebase", "--continue")
		if err != nil {
			return Result{}, err
		}
		if retry.OK() {
			return Result{Outcome: OutcomeSuccess}, nil
		}
		result, err := classifyFailure(ctx, repo, retry)
		if err != nil || result.Outcome == OutcomeConflict {
			return result, err
		}
		commit, _ := repo.Runner.RunTrim(ctx, "rev-parse", "--short", "REBASE_HEAD")
		return Result{Outcome: OutcomeConflict, ConflictCommit: commit, Reason: retry.Stderr}, nil
	}
	return classifyFailure(ctx, repo, res)
}

// Abort invokes `git rebase --abort`, the caller's signal to also run the
// strategy-level rollback.
func Abort(ctx context.Context, repo *gitwrap.Repo) error {
	_, err := repo.Runner.Run(ctx, "rebase", "--abort")
	return err
}

// Skip drops the current (conflicting) commit from the rebase and
// continues, recording it as unapplied in Result.SkippedTargets.
func Skip(ctx context.Context, repo *gitwrap.Repo) (Result, error) {
	var skipped []string
	if commit, err := repo.Runner.RunTrim(ctx, "rev-parse", "--short", "REBASE_HEAD"); err == nil && commit != "" {
		skipped = []string{commit}
	}
	env := []string{"GIT_EDITOR=true"}
	res, err := repo.Runner.RunWithEnv(ctx, env, "rebase", "--skip")
	if err != nil {
		return Result{}, err
	}
	if res.OK() {
		return Result{Outcome: OutcomeSuccess, SkippedTargets: skipped}, nil
	}
	result, err := classifyFailure(ctx, repo, res)
	result.SkippedTargets = skipped
	return result, err
}
