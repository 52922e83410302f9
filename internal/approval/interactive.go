package approval

import (
	"context"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"autosquash.dev/autosquash/internal/gitwrap"
	"autosquash.dev/autosquash/internal/resolver"
)

// Interactive prompts the user on the terminal for each mapping that needs
// confirmation, grounded on the survey.Select idiom in split_prompts.go.
// Mappings that are already high-confidence blame_match are auto-approved
// without prompting.
type Interactive struct {
	Repo *gitwrap.Repo
}

func (ia Interactive) Review(ctx context.Context, mappings []resolver.Mapping) ([]Decision, error) {
	decisions := make([]Decision, len(mappings))
	for i, m := range mappings {
		if !m.NeedsUserConfirmation {
			decisions[i] = Decision{Verdict: Approve}
			continue
		}

		d, err := ia.ask(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("canceled")
		}
		decisions[i] = d
	}
	return decisions, nil
}

func (ia Interactive) ask(ctx context.Context, m resolver.Mapping) (Decision, error) {
	options := []string{"approve", "override", "ignore"}
	defaultOpt := "approve"
	if m.TargetCommit == "" {
		defaultOpt = "ignore"
	}

	var choice string
	prompt := &survey.Select{
		Message: fmt.Sprintf("%s: suggested target %s (%s, %s)", m.Hunk.File, shortOrNone(m.TargetCommit), m.Source, m.Confidence),
		Options: options,
		Default: defaultOpt,
	}
	if err := survey.AskOne(prompt, &choice); err != nil {
		return Decision{}, err
	}

	switch choice {
	case "override":
		var target string
		if err := survey.AskOne(&survey.Input{Message: "Target commit SHA"}, &target); err != nil {
			return Decision{}, err
		}
		return Decision{Verdict: Override, NewTarget: target}, nil
	case "ignore":
		return Decision{Verdict: Ignore}, nil
	default:
		return Decision{Verdict: Approve}, nil
	}
}

func shortOrNone(sha string) string {
	if sha == "" {
		return "<none>"
	}
	return gitwrap.ShortSHA(sha)
}
