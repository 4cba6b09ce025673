package bump

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// checkGit verifies that git is available on the system.
func checkGit(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "--version")
	if err := cmd.Run(); err != nil {
		return errors.New("git is not available on the system")
	}
	return nil
}

// runGit runs git in dir and returns its trimmed stdout. Failures carry git's
// stderr.
func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %v, detail: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CheckGitStatus fails when the working tree in dir has uncommitted changes.
func CheckGitStatus(ctx context.Context, dir string) error {
	out, err := runGit(ctx, dir, "status", "--porcelain")
	if err != nil {
		return fmt.Errorf("failed to check git status: %w", err)
	}
	if out != "" {
		return fmt.Errorf("git working tree is not clean:\n%s", out)
	}
	return nil
}

// formatVersionString replaces every "%s" in template with version, or appends
// version when there is none.
func formatVersionString(template, version string) string {
	if strings.Contains(template, "%s") {
		return strings.ReplaceAll(template, "%s", version)
	}
	return template + version
}

// gitCommit commits the updated files (or everything, with All) using the
// formatted commit message.
func gitCommit(ctx context.Context, op *Operation) error {
	commit := op.Options.Commit
	if commit == nil {
		return nil
	}

	args := []string{"commit"}
	if commit.All {
		args = append(args, "--all")
	}
	if commit.NoVerify {
		args = append(args, "--no-verify")
	}
	if op.Options.Sign {
		args = append(args, "--gpg-sign")
	}
	args = append(args, "--message", op.State.CommitMessage)
	if !commit.All {
		args = append(args, "--")
		args = append(args, op.State.UpdatedFiles...)
	}

	if _, err := runGit(ctx, op.Options.Cwd, args...); err != nil {
		return err
	}
	op.emit(Progress{Event: ProgressGitCommit})
	return nil
}

// gitTag creates an annotated tag whose message is the commit message.
func gitTag(ctx context.Context, op *Operation) error {
	if op.Options.Tag == nil {
		return nil
	}

	args := []string{"tag", "--annotate", "--message", op.State.CommitMessage}
	if op.Options.Sign {
		args = append(args, "--sign")
	}
	args = append(args, op.State.TagName)

	if _, err := runGit(ctx, op.Options.Cwd, args...); err != nil {
		return err
	}
	op.emit(Progress{Event: ProgressGitTag})
	return nil
}

// gitPush pushes the commit, then the tags when a tag was created.
func gitPush(ctx context.Context, op *Operation) error {
	if !op.Options.Push {
		return nil
	}

	if _, err := runGit(ctx, op.Options.Cwd, "push"); err != nil {
		return err
	}
	if op.Options.Tag != nil {
		if _, err := runGit(ctx, op.Options.Cwd, "push", "--tags"); err != nil {
			return err
		}
	}
	op.emit(Progress{Event: ProgressGitPush})
	return nil
}

// versionCommit returns the commit tagged "v<version>" or, failing that,
// "<version>".
func versionCommit(ctx context.Context, dir, version string) (string, error) {
	for _, ref := range []string{"v" + version, version} {
		sha, err := runGit(ctx, dir, "rev-list", "-n", "1", ref)
		if err == nil && sha != "" {
			return sha, nil
		}
	}
	return "", fmt.Errorf("failed to locate the previous tag v%s", version)
}

// commitsSince returns the "<hash> <subject>" lines of the commits after sha.
func commitsSince(ctx context.Context, dir, sha string) ([]string, error) {
	out, err := runGit(ctx, dir, "--no-pager", "log", sha+"..HEAD", "--oneline")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}
