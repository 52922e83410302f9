// Package cli provides the git-autosquash command-line surface: a single
// default action plus continue/abort/skip for resuming a paused rebase,
// grounded on the teacher's thin cobra.Command-per-file layout in its own
// internal/cli package.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the root command. version/commit/date feed --version
// output, matching the teacher's root.go convention.
func NewRootCmd(version, commit, date string) *cobra.Command {
	root := &cobra.Command{
		Use:     "git-autosquash",
		Short:   "Redistribute working-tree hunks into the commits that introduced the lines they touch",
		Version: version,
		Long: `git-autosquash splits your working-tree changes into per-hunk fixups and
folds each one into the commit most likely responsible for the lines it
touches, using blame history within the current branch.

Version: ` + version + `
Commit:  ` + commit + `
Date:    ` + date,
		RunE: runDefault,
	}

	root.Flags().Bool("line-by-line", false, "split hunks into single-line changes before resolving targets")
	root.Flags().Bool("auto-accept", false, "skip interactive review; accept only high-confidence blame matches")
	root.Flags().Bool("dry-run", false, "print the resolved hunk-target mappings without mutating the repository")
	root.Flags().String("target", "", "integration branch to compute merge-base against (default: repository trunk)")

	root.AddCommand(newContinueCmd())
	root.AddCommand(newAbortCmd())
	root.AddCommand(newSkipCmd())

	return root
}
