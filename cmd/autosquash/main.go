// Command git-autosquash redistributes uncommitted working-tree hunks into
// the feature-branch commits whose surrounding lines they touch.
package main

import (
	"os"

	"autosquash.dev/autosquash/internal/cli"
	taxonomy "autosquash.dev/autosquash/internal/errors"
)

// version, commit, and date are set via -ldflags at release build time,
// matching the teacher's build-info injection convention.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	root := cli.NewRootCmd(version, commit, date)
	if err := root.Execute(); err != nil {
		os.Exit(taxonomy.ExitCode(err))
	}
}
