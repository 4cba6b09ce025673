package bump

import (
	"context"
	"errors"
	"fmt"

	"github.com/bcomnes/bump/pkg/prompt"
)

// Menu values of the version prompt that are not release types.
const (
	choiceConfig = "config"
	choiceAsIs   = "none"
	choiceCustom = "custom"
)

const choicePadding = 13

// getNewVersion sets the new version from the release: an explicit version is
// normalized, a release type is applied to the current version, and the
// prompt asks the user.
func getNewVersion(ctx context.Context, op *Operation) error {
	release := op.Options.Release

	switch release.Kind {
	case ReleasePrompt:
		return promptForNewVersion(ctx, op)

	case ReleaseVersion:
		v, err := CleanVersion(release.Version)
		if err != nil {
			return err
		}
		op.setNewVersion(v, "")
		return nil

	default:
		v, err := NextVersion(op.State.CurrentVersion, release.Type, release.PreID)
		if err != nil {
			return err
		}
		op.setNewVersion(v, release.Type)
		return nil
	}
}

func choiceTitle(label, version string) string {
	return fmt.Sprintf("%*s %s", choicePadding, label, version)
}

// versionChoices builds the prompt menu. The config entry is only offered when
// the custom version hook suggested something.
func versionChoices(current string, next map[ReleaseType]string, configVersion string) []prompt.Choice {
	choices := []prompt.Choice{
		{Value: string(Major), Title: choiceTitle("major", next[Major])},
		{Value: string(Minor), Title: choiceTitle("minor", next[Minor])},
		{Value: string(Patch), Title: choiceTitle("patch", next[Patch])},
		{Value: string(Next), Title: choiceTitle("next", next[Next])},
	}
	if configVersion != "" {
		choices = append(choices, prompt.Choice{Value: choiceConfig, Title: choiceTitle("from config", configVersion)})
	}
	return append(choices,
		prompt.Choice{Value: string(PrePatch), Title: choiceTitle("pre-patch", next[PrePatch])},
		prompt.Choice{Value: string(PreMinor), Title: choiceTitle("pre-minor", next[PreMinor])},
		prompt.Choice{Value: string(PreMajor), Title: choiceTitle("pre-major", next[PreMajor])},
		prompt.Choice{Value: choiceAsIs, Title: choiceTitle("as-is", current)},
		prompt.Choice{Value: choiceCustom, Title: fmt.Sprintf("%*s", choicePadding+4, "custom ...")},
	)
}

func promptForNewVersion(ctx context.Context, op *Operation) error {
	current := op.State.CurrentVersion
	ui := op.Options.Interface

	next, err := NextVersions(current, op.Options.Release.PreID)
	if err != nil {
		return err
	}

	var configVersion string
	if op.Options.CustomVersion != nil {
		suggested, err := op.Options.CustomVersion(ctx, current)
		if err != nil {
			return fmt.Errorf("custom version: %w", err)
		}
		if suggested != "" {
			if configVersion, err = CleanVersion(suggested); err != nil {
				op.log.Warn("ignoring invalid custom version", "version", suggested, "error", err)
			}
		}
	}

	if op.Options.PrintCommits {
		if err := printRecentCommits(ctx, op, ui.Output); err != nil {
			op.log.Debug("commit digest unavailable", "error", err)
		}
	}

	initial := string(Next)
	if configVersion != "" {
		initial = choiceConfig
	}

	answer, err := ui.Prompter.Select(ctx, prompt.Select{
		Message: "Current version " + current,
		Choices: versionChoices(current, next, configVersion),
		Initial: initial,
	})
	if err != nil {
		return err
	}

	switch answer {
	case choiceAsIs:
		op.setNewVersion(current, "")
	case choiceConfig:
		op.setNewVersion(configVersion, "")
	case choiceCustom:
		custom, err := ui.Prompter.Text(ctx, prompt.Text{
			Message: "Enter the new version number:",
			Initial: current,
			Validate: func(s string) error {
				if !IsValidVersion(s) {
					return errors.New("that's not a valid version number")
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		v, err := CleanVersion(custom)
		if err != nil {
			return err
		}
		op.setNewVersion(v, "")
	case string(Next):
		op.setNewVersion(next[Next], "")
	default:
		t := ReleaseType(answer)
		v, ok := next[t]
		if !ok {
			return fmt.Errorf("unknown version choice %q", answer)
		}
		op.setNewVersion(v, t)
	}
	return nil
}
