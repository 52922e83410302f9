package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"autosquash.dev/autosquash/internal/approval"
	"autosquash.dev/autosquash/internal/config"
	taxonomy "autosquash.dev/autosquash/internal/errors"
	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/hunk"
	"autosquash.dev/autosquash/internal/output"
	"autosquash.dev/autosquash/internal/patchgen"
	"autosquash.dev/autosquash/internal/resolver"
	"autosquash.dev/autosquash/internal/strategy"
)

func runDefault(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lineByLine, _ := cmd.Flags().GetBool("line-by-line")
	autoAccept, _ := cmd.Flags().GetBool("auto-accept")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	target, _ := cmd.Flags().GetString("target")

	cfg := config.FromEnvironment()
	cfg.LineByLine = lineByLine
	cfg.AutoAccept = autoAccept
	cfg.DryRun = dryRun
	if target != "" {
		cfg.TargetRev = target
	}

	log := output.New()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	repo, err := gitwrap.Open(wd)
	if err != nil {
		return fmt.Errorf("%w: %s", taxonomy.ErrPrecondition, err)
	}

	return run(ctx, repo, cfg, log, chooseCollaborator(cfg, repo))
}

func chooseCollaborator(cfg config.Config, repo *gitwrap.Repo) approval.Collaborator {
	if cfg.AutoAccept || !stdioIsTerminal() {
		return approval.AutoAccept{}
	}
	return approval.Interactive{Repo: repo}
}

// stdioIsTerminal reports whether both stdin and stdout are attached to a
// terminal. A piped or redirected invocation can't drive survey prompts, so
// it falls back to auto-accept rather than hanging on an unanswerable
// question, matching the teacher's pre-prompt terminal check in
// internal/tui/tui.go.
func stdioIsTerminal() bool {
	in := os.Stdin.Fd()
	out := os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}

// run is the linear dataflow: working tree -> hunk parser -> (blame/
// fallback) -> resolver -> approval -> patch generator -> execution
// strategy -> rebase orchestrator -> updated history.
func run(ctx context.Context, repo *gitwrap.Repo, cfg config.Config, log *output.Logger, collab approval.Collaborator) error {
	if op, err := repo.InProgressOperation(ctx); err != nil {
		return err
	} else if op != "" {
		return fmt.Errorf("%w: a %s is already in progress", taxonomy.ErrPrecondition, op)
	}

	integrationBranch := cfg.TargetRev
	if integrationBranch == "" {
		integrationBranch = detectTrunk(ctx, repo)
	}
	scope, err := repo.ComputeBranchScope(ctx, integrationBranch)
	if err != nil {
		return fmt.Errorf("%w: %s", taxonomy.ErrPrecondition, err)
	}
	if !scope.IsFeature {
		return fmt.Errorf("%w: no commits above merge-base with %s", taxonomy.ErrPrecondition, integrationBranch)
	}

	diffText, err := repo.WorkingTreeDiff(ctx)
	if err != nil {
		return err
	}
	if diffText == "" {
		log.Info("no uncommitted changes to redistribute")
		return nil
	}

	hunks, err := hunk.Parse(diffText)
	if err != nil {
		return err
	}
	for _, h := range hunks {
		if err := h.ValidatePath(repo.Root); err != nil {
			return err
		}
	}
	if cfg.LineByLine {
		var split []hunk.Hunk
		for _, h := range hunks {
			split = append(split, hunk.SplitLineByLine(h)...)
		}
		hunks = split
	}

	res := resolver.New(repo, scope)
	head, err := repo.Runner.RunTrim(ctx, "rev-parse", "HEAD")
	if err != nil {
		return err
	}
	mappings, err := res.Resolve(ctx, hunks, head)
	if err != nil {
		return err
	}

	decisions, err := collab.Review(ctx, mappings)
	if err != nil {
		return fmt.Errorf("%w: %s", taxonomy.ErrInterrupted, err)
	}
	for i, d := range decisions {
		mappings[i] = approval.Apply(res, mappings[i], d)
	}

	var approved, ignored []resolver.Mapping
	for _, m := range mappings {
		if m.Source == resolver.SourceIgnore || m.TargetCommit == "" {
			ignored = append(ignored, m)
		} else {
			approved = append(approved, m)
		}
	}

	if len(approved) == 0 {
		log.Info("nothing to redistribute")
		return nil
	}

	patches, err := generatePatches(ctx, repo, approved)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		for _, m := range approved {
			log.Info("%s -> %s (%s, %s)", m.Hunk.File, gitwrap.ShortSHA(m.TargetCommit), m.Source, m.Confidence)
		}
		return nil
	}

	backup, err := strategy.Backup(ctx, repo)
	if err != nil {
		return err
	}
	log.Debug("backup: HEAD %s, stash %q", gitwrap.ShortSHA(backup.OriginalHEAD), backup.StashRef)

	forced := ""
	if cfg.Strategy != config.StrategyAuto {
		forced = string(cfg.Strategy)
	}
	s := strategy.Select(ctx, repo, scope.MergeBase, reversed(scope.Commits), patches, forced)
	result, err := s.Execute(ctx, repo, patches)
	if err != nil {
		if rbErr := strategy.Rollback(ctx, repo, backup); rbErr != nil {
			return fmt.Errorf("execution failed (%w), rollback also failed: %s", err, rbErr)
		}
		return err
	}

	switch result.Outcome {
	case strategy.OutcomeConflict:
		log.Failure(taxonomy.ErrRebaseConflict, fmt.Sprintf("%s (%v)", gitwrap.ShortSHA(result.Target), result.Files),
			"awaiting user: resolve conflicts then run `git-autosquash continue`, or `abort`/`skip`", backup.StashRef)
		return fmt.Errorf("%w", taxonomy.ErrRebaseConflict)
	case strategy.OutcomeAborted:
		if rbErr := strategy.Rollback(ctx, repo, backup); rbErr != nil {
			return fmt.Errorf("rebase aborted (%s), rollback also failed: %s", result.Reason, rbErr)
		}
		return fmt.Errorf("rebase aborted: %s", result.Reason)
	}

	if err := restoreIgnored(ctx, repo, ignored); err != nil {
		log.Warn("failed to restore ignored hunks to the working tree: %s", err)
	}
	if err := strategy.Commit(ctx, repo, backup); err != nil {
		return err
	}

	log.Info("redistributed %d hunk(s) across %d commit(s)", len(approved), countTargets(patches))
	return nil
}

// generatePatches runs the Context-Aware Patch Generator for every approved
// mapping, grouped by (file, target) so changes destined for the same file
// and commit share one used-line set.
func generatePatches(ctx context.Context, repo *gitwrap.Repo, approved []resolver.Mapping) ([]strategy.Patch, error) {
	type key struct{ file, target string }
	groups := map[key][]hunk.Change{}
	var order []key
	for _, m := range approved {
		for _, c := range m.Hunk.Changes() {
			k := key{m.Hunk.File, m.TargetCommit}
			if _, ok := groups[k]; !ok {
				order = append(order, k)
			}
			groups[k] = append(groups[k], c)
		}
	}

	var patches []strategy.Patch
	for _, k := range order {
		content, err := repo.Show(ctx, k.target, k.file)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s at %s", taxonomy.ErrPatchReject, k.file, gitwrap.ShortSHA(k.target))
		}
		placed := patchgen.Place(string(content), groups[k])
		if len(placed.Unplaceable) > 0 {
			return nil, taxonomy.NewUnplaceableChangeError(k.file, k.target, placed.Unplaceable[0].Change.Removed)
		}
		patchText := patchgen.RenderUnifiedDiff(k.file, string(content), placed.NewContent)
		if patchText == "" {
			continue
		}
		if check, err := repo.ApplyCheck(ctx, patchText, k.target); err != nil || !check.OK() {
			return nil, fmt.Errorf("%w: %s against %s: %s", taxonomy.ErrPatchReject, k.file, gitwrap.ShortSHA(k.target), check.Stderr)
		}
		patches = append(patches, strategy.Patch{TargetCommit: k.target, Text: patchText, File: k.file})
	}
	return patches, nil
}

// restoreIgnored re-applies the hunks the user chose to leave in the
// working tree, grouped by file so each file gets one `git apply` call.
func restoreIgnored(ctx context.Context, repo *gitwrap.Repo, ignored []resolver.Mapping) error {
	if len(ignored) == 0 {
		return nil
	}
	byFile := map[string][]hunk.Hunk{}
	var order []string
	for _, m := range ignored {
		if _, ok := byFile[m.Hunk.File]; !ok {
			order = append(order, m.Hunk.File)
		}
		byFile[m.Hunk.File] = append(byFile[m.Hunk.File], m.Hunk)
	}
	for _, file := range order {
		patch := hunk.RenderPatch(file, byFile[file])
		res, err := repo.Apply(ctx, patch, gitwrap.ApplyOptions{})
		if err != nil {
			return err
		}
		if !res.OK() {
			return fmt.Errorf("failed to restore ignored hunks in %s: %s", file, res.Stderr)
		}
	}
	return nil
}

func countTargets(patches []strategy.Patch) int {
	seen := map[string]bool{}
	for _, p := range patches {
		seen[p.TargetCommit] = true
	}
	return len(seen)
}

// reversed returns scope.Commits (newest-first) in oldest-first order, the
// order BuildTodo and rebase -i expect.
func reversed(commits []string) []string {
	out := make([]string, len(commits))
	for i, c := range commits {
		out[len(commits)-1-i] = c
	}
	return out
}

// detectTrunk guesses the integration branch the way a lightweight git tool
// typically does: the remote HEAD symref, falling back to main/master.
func detectTrunk(ctx context.Context, repo *gitwrap.Repo) string {
	if ref, err := repo.Runner.RunTrim(ctx, "symbolic-ref", "--short", "-q", "refs/remotes/origin/HEAD"); err == nil && ref != "" {
		const prefix = "origin/"
		if len(ref) > len(prefix) {
			return ref[len(prefix):]
		}
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := repo.Runner.RunTrim(ctx, "rev-parse", "--verify", "--quiet", candidate); err == nil {
			return candidate
		}
	}
	return "main"
}
