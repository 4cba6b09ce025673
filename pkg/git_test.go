package bump

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a git repository in a temporary directory. The test is
// skipped when git is not available.
func initRepo(t *testing.T) string {
	t.Helper()
	if err := checkGit(context.Background()); err != nil {
		t.Skip("git is not available on system")
	}
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "Test User")
	t.Setenv("GIT_COMMITTER_EMAIL", "test@example.com")
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)

	dir := t.TempDir()
	git(t, dir, "init", "--initial-branch=main")
	git(t, dir, "config", "commit.gpgsign", "false")
	git(t, dir, "config", "tag.gpgsign", "false")
	return dir
}

// git runs a git command in dir and returns its trimmed output.
func git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
	return strings.TrimSpace(string(out))
}

func commitFile(t *testing.T, dir, name, content, message string) {
	t.Helper()
	writeFile(t, dir, name, content)
	git(t, dir, "add", name)
	git(t, dir, "commit", "-m", message)
}

func TestFormatVersionString(t *testing.T) {
	tests := []struct {
		template, expected string
	}{
		{"v", "v1.2.3"},
		{"chore: release v", "chore: release v1.2.3"},
		{"release %s", "release 1.2.3"},
		{"%s: %s", "1.2.3: 1.2.3"},
		{"", "1.2.3"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, formatVersionString(tc.template, "1.2.3"), tc.template)
	}
}

func TestCheckGitStatus(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "package.json", `{"version": "1.0.0"}`, "initial commit")
	require.NoError(t, CheckGitStatus(context.Background(), dir))

	writeFile(t, dir, "package.json", `{"version": "1.0.1"}`)
	err := CheckGitStatus(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git working tree is not clean")
	assert.Contains(t, err.Error(), "package.json")
}

func TestRunGitCarriesStderr(t *testing.T) {
	dir := initRepo(t)
	_, err := runGit(context.Background(), dir, "rev-parse", "--verify", "no-such-ref")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git rev-parse failed")
	assert.Contains(t, err.Error(), "detail:")
}

func TestCommitAndTag(t *testing.T) {
	dir := initRepo(t)
	commitFile(t, dir, "package.json", `{"version": "1.0.0"}`, "initial commit")
	writeFile(t, dir, "notes.txt", "untracked")

	var events []ProgressEvent
	op := newTestOperation(t, dir, Options{
		Release:  "minor",
		Tag:      true,
		Files:    []string{"package.json"},
		Progress: func(p Progress) { events = append(events, p.Event) },
	})
	require.NoError(t, ResolveVersions(context.Background(), op))
	require.NoError(t, updateFiles(context.Background(), op))
	require.NoError(t, gitCommit(context.Background(), op))
	require.NoError(t, gitTag(context.Background(), op))

	assert.Equal(t, "chore: release v1.1.0", git(t, dir, "log", "-1", "--format=%s"))
	assert.Equal(t, "v1.1.0", git(t, dir, "tag", "--points-at", "HEAD"))
	assert.Equal(t, "chore: release v1.1.0", git(t, dir, "tag", "-l", "--format=%(contents:subject)", "v1.1.0"))
	// Only the updated files are committed.
	assert.Equal(t, "?? notes.txt", git(t, dir, "status", "--porcelain"))
	assert.Equal(t, []ProgressEvent{ProgressFileUpdated, ProgressGitCommit, ProgressGitTag}, events)

	sha, err := versionCommit(context.Background(), dir, "1.1.0")
	require.NoError(t, err)
	assert.Equal(t, git(t, dir, "rev-parse", "HEAD"), sha)
}

func TestGitPushToRemote(t *testing.T) {
	remote := initRepo(t)
	git(t, remote, "config", "receive.denyCurrentBranch", "ignore")
	dir := t.TempDir()
	git(t, dir, "clone", remote, ".")
	git(t, dir, "symbolic-ref", "HEAD", "refs/heads/main")
	git(t, dir, "config", "commit.gpgsign", "false")

	commitFile(t, dir, "package.json", `{"version": "0.1.0"}`, "initial commit")
	git(t, dir, "push", "origin", "HEAD:main")
	git(t, dir, "branch", "--set-upstream-to=origin/main")

	op := newTestOperation(t, dir, Options{Release: "patch", Push: true, Tag: true})
	require.NoError(t, Run(context.Background(), op))

	assert.Equal(t, "chore: release v0.1.1", git(t, remote, "log", "-1", "--format=%s", "main"))
	assert.Equal(t, "v0.1.1", git(t, remote, "tag"))
}
