package bump

import (
	"context"
	"errors"
)

// ErrNotConfirmed is returned when the user declines the confirmation prompt.
var ErrNotConfirmed = errors.New("version bump was not confirmed")

// VersionBump bumps the version across the configured files and optionally
// commits, tags and pushes the result.
//
// The steps run in order: discover the current version, determine the new one
// (possibly prompting), confirm, run the preversion script, update the files,
// run the execute command and the version script, commit, tag, run the
// postversion script and push. The first failing step aborts the rest.
func VersionBump(ctx context.Context, options Options) (Results, error) {
	op, err := NewOperation(ctx, options)
	if err != nil {
		return Results{}, err
	}
	if err := Run(ctx, op); err != nil {
		return op.Results(), err
	}
	return op.Results(), nil
}

// VersionBumpInfo determines the current and new versions without changing
// anything.
func VersionBumpInfo(ctx context.Context, options Options) (Results, error) {
	op, err := NewOperation(ctx, options)
	if err != nil {
		return Results{}, err
	}
	if err := ResolveVersions(ctx, op); err != nil {
		return op.Results(), err
	}
	return op.Results(), nil
}

// ResolveVersions fills in the current and new versions of op.
func ResolveVersions(ctx context.Context, op *Operation) error {
	if err := getCurrentVersion(ctx, op); err != nil {
		return err
	}
	op.log.Debug("current version", "version", op.State.CurrentVersion, "source", op.State.CurrentVersionSource)

	if err := getNewVersion(ctx, op); err != nil {
		return err
	}
	op.log.Debug("new version", "version", op.State.NewVersion, "release", op.State.Release)
	return nil
}

// Run carries op through every step of a version bump.
func Run(ctx context.Context, op *Operation) error {
	if err := ResolveVersions(ctx, op); err != nil {
		return err
	}

	if op.Options.Confirm {
		ui := op.Options.Interface
		printSummary(ui.Output, op)
		ok, err := ui.Prompter.Confirm(ctx, "Bump?", true)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotConfirmed
		}
	}

	if op.Options.DryRun {
		return updateFiles(ctx, op)
	}

	if op.Options.Commit != nil && !op.Options.Commit.All && !op.Options.NoGitCheck {
		if err := CheckGitStatus(ctx, op.Options.Cwd); err != nil {
			return err
		}
	}
	if op.Options.Commit != nil || op.Options.Push {
		if err := checkGit(ctx); err != nil {
			return err
		}
	}

	steps := []func(context.Context, *Operation) error{
		func(ctx context.Context, op *Operation) error { return runNpmScript(ctx, op, ScriptPreVersion) },
		updateFiles,
		runExecute,
		func(ctx context.Context, op *Operation) error { return runNpmScript(ctx, op, ScriptVersion) },
		gitCommit,
		gitTag,
		func(ctx context.Context, op *Operation) error { return runNpmScript(ctx, op, ScriptPostVersion) },
		gitPush,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := step(ctx, op); err != nil {
			return err
		}
	}
	return nil
}
