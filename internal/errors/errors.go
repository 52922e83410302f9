// Package errors provides the sentinel and typed error taxonomy used across
// autosquash. Use errors.Is() and errors.As() to check for specific kinds.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per taxonomy kind from the error handling design.
var (
	// ErrPrecondition indicates the repository is not in a state autosquash
	// can safely operate on (not a repo, detached HEAD, no commits above
	// merge-base, an in-progress rebase/merge/cherry-pick, mixed state).
	ErrPrecondition = errors.New("precondition")

	// ErrUnsafePath indicates a diff entry referenced a path outside the
	// repository root via traversal or a symlink escape.
	ErrUnsafePath = errors.New("unsafe_path")

	// ErrBlameEmpty indicates blame produced no in-scope commits for a hunk.
	// This drives fallback; it is not surfaced to the user on its own.
	ErrBlameEmpty = errors.New("blame_empty")

	// ErrUnplaceableChange indicates the patch generator could not find any
	// unused candidate line for a change.
	ErrUnplaceableChange = errors.New("unplaceable_change")

	// ErrPatchReject indicates `git apply --check` failed on a generated
	// patch.
	ErrPatchReject = errors.New("patch_reject")

	// ErrRebaseConflict indicates a merge conflict occurred while the
	// orchestrator was applying fixups.
	ErrRebaseConflict = errors.New("rebase_conflict")

	// ErrHookFailure indicates a pre-commit hook modified files during an
	// amend and the retried amend also failed.
	ErrHookFailure = errors.New("hook_failure")

	// ErrInterrupted indicates a signal was received mid-execution.
	ErrInterrupted = errors.New("interrupted")
)

// ExitCode maps a taxonomy error to the process exit code from the external
// interfaces section: 0 success, 1 precondition/git failure, 130 cancelled.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrInterrupted) {
		return 130
	}
	return 1
}

// UnsafePathError carries the offending path.
type UnsafePathError struct {
	Path   string
	Reason string
}

func (e *UnsafePathError) Error() string {
	return fmt.Sprintf("unsafe path %q: %s", e.Path, e.Reason)
}

// Is returns true if the target error is ErrUnsafePath.
func (e *UnsafePathError) Is(target error) bool { return target == ErrUnsafePath }

// NewUnsafePathError creates a new UnsafePathError.
func NewUnsafePathError(path, reason string) *UnsafePathError {
	return &UnsafePathError{Path: path, Reason: reason}
}

// UnplaceableChangeError carries the file, target commit, and the removed
// line text that could not be matched against an unused target-file line.
type UnplaceableChangeError struct {
	File         string
	TargetCommit string
	RemovedLine  string
}

func (e *UnplaceableChangeError) Error() string {
	return fmt.Sprintf("unplaceable change in %s against %s: no unused line matches %q",
		e.File, short(e.TargetCommit), e.RemovedLine)
}

// Is returns true if the target error is ErrUnplaceableChange.
func (e *UnplaceableChangeError) Is(target error) bool { return target == ErrUnplaceableChange }

// NewUnplaceableChangeError creates a new UnplaceableChangeError.
func NewUnplaceableChangeError(file, targetCommit, removedLine string) *UnplaceableChangeError {
	return &UnplaceableChangeError{File: file, TargetCommit: targetCommit, RemovedLine: removedLine}
}

// PatchRejectError carries the file/target and git's stderr from the failed
// `git apply --check`.
type PatchRejectError struct {
	File         string
	TargetCommit string
	Stderr       string
}

func (e *PatchRejectError) Error() string {
	return fmt.Sprintf("git apply --check rejected patch for %s against %s: %s",
		e.File, short(e.TargetCommit), e.Stderr)
}

// Is returns true if the target error is ErrPatchReject.
func (e *PatchRejectError) Is(target error) bool { return target == ErrPatchReject }

// NewPatchRejectError creates a new PatchRejectError.
func NewPatchRejectError(file, targetCommit, stderr string) *PatchRejectError {
	return &PatchRejectError{File: file, TargetCommit: targetCommit, Stderr: stderr}
}

// RebaseConflictError carries the conflicting commit and the file list,
// as surfaced to the user per the conflict-handling contract.
type RebaseConflictError struct {
	CommitSHA string
	Files     []string
}

func (e *RebaseConflictError) Error() string {
	return fmt.Sprintf("rebase conflict at %s in %d file(s)", short(e.CommitSHA), len(e.Files))
}

// Is returns true if the target error is ErrRebaseConflict.
func (e *RebaseConflictError) Is(target error) bool { return target == ErrRebaseConflict }

// NewRebaseConflictError creates a new RebaseConflictError.
func NewRebaseConflictError(commitSHA string, files []string) *RebaseConflictError {
	return &RebaseConflictError{CommitSHA: commitSHA, Files: files}
}

// HookFailureError carries the hook name and both attempts' stderr.
type HookFailureError struct {
	Hook          string
	FirstAttempt  string
	SecondAttempt string
}

func (e *HookFailureError) Error() string {
	return fmt.Sprintf("pre-commit hook %s failed twice: %s", e.Hook, e.SecondAttempt)
}

// Is returns true if the target error is ErrHookFailure.
func (e *HookFailureError) Is(target error) bool { return target == ErrHookFailure }

// NewHookFailureError creates a new HookFailureError.
func NewHookFailureError(hook, first, second string) *HookFailureError {
	return &HookFailureError{Hook: hook, FirstAttempt: first, SecondAttempt: second}
}

// GitCommandError represents a failed invocation of a git subprocess.
// gitwrap's Runner.Run never raises this for a plain non-zero exit (it
// returns a tagged result and lets the caller decide); Runner.RunTrim does.
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("%s %v failed", e.Command, e.Args)
	if e.Stderr != "" {
		msg += fmt.Sprintf(": %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error { return e.Err }

// NewGitCommandError creates a new GitCommandError.
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{Command: command, Args: args, Stdout: stdout, Stderr: stderr, Err: err}
}

func short(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
