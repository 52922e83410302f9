// Package config resolves autosquash's environment-variable configuration,
// grounded on the teacher's env-overridable settings in
// internal/config/repo_config.go and internal/tui/splog.go.
package config

import "os"

// Strategy selects which execution strategy autosquash runs.
type Strategy string

const (
	// StrategyAuto lets the execution layer detect worktree support and
	// choose the best available strategy.
	StrategyAuto Strategy = "auto"
	// StrategyWorktree forces the isolated-workspace strategy.
	StrategyWorktree Strategy = "worktree"
	// StrategyIndex forces the index-manipulation strategy.
	StrategyIndex Strategy = "index"
)

// Config holds the environment inputs autosquash honors, built once per
// invocation and threaded through the CLI's run call chain.
type Config struct {
	Strategy Strategy
	LogLevel string
	// LineByLine mirrors the --line-by-line CLI flag.
	LineByLine bool
	// AutoAccept mirrors the --auto-accept CLI flag.
	AutoAccept bool
	// DryRun mirrors the supplemented --dry-run flag.
	DryRun bool
	// TargetRev, when set, replaces the integration branch that branch
	// scope's merge-base is computed against: scope becomes
	// merge-base(HEAD, TargetRev)..HEAD (supplemented --target flag).
	TargetRev string
}

// FromEnvironment builds a Config from GIT_AUTOSQUASH_* environment
// variables. CLI flags (set by internal/cli) override these afterward.
func FromEnvironment() Config {
	cfg := Config{
		Strategy: StrategyAuto,
		LogLevel: "info",
	}
	if v := Strategy(os.Getenv("GIT_AUTOSQUASH_STRATEGY")); v == StrategyWorktree || v == StrategyIndex || v == StrategyAuto {
		cfg.Strategy = v
	}
	if v := os.Getenv("GIT_AUTOSQUASH_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg
}
