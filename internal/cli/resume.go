package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	taxonomy "autosquash.dev/autosquash/internal/errors"
	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/output"
	"autosquash.dev/autosquash/internal/rebase"
)

// newContinueCmd resumes a rebase paused on a conflict after the user has
// resolved it in the working tree.
func newContinueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "continue",
		Short: "resume a paused redistribution after resolving a conflict",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resumeAction(cmd.Context(), rebase.Continue)
		},
	}
}

func newAbortCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abort",
		Short: "cancel a paused redistribution and restore the original history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openHere()
			if err != nil {
				return err
			}
			return rebase.Abort(ctxOrBackground(cmd), repo)
		},
	}
}

func newSkipCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "skip",
		Short: "drop the conflicting fixup and continue redistributing the rest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return resumeAction(cmd.Context(), rebase.Skip)
		},
	}
}

func resumeAction(ctx context.Context, step func(context.Context, *gitwrap.Repo) (rebase.Result, error)) error {
	repo, err := openHere()
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	result, err := step(ctx, repo)
	if err != nil {
		return err
	}
	log := output.New()
	switch result.Outcome {
	case rebase.OutcomeSuccess:
		log.Info("redistribution complete")
	case rebase.OutcomeConflict:
		log.Failure(taxonomy.ErrRebaseConflict, result.ConflictCommit, "resolve conflicts then run `git-autosquash continue`", "")
	default:
		log.Failure(taxonomy.ErrRebaseConflict, "", result.Reason, "")
	}
	return nil
}

func openHere() (*gitwrap.Repo, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return gitwrap.Open(wd)
}

func ctxOrBackground(cmd *cobra.Command) context.Context {
	if cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
