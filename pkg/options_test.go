package bump

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bcomnes/bump/pkg/prompt"
)

func TestNormalizeOptionsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)
	writeFile(t, dir, "deno.jsonc", `{"version": "1.0.0"}`)
	writeFile(t, dir, "README.md", "1.0.0")

	opts, err := NormalizeOptions(context.Background(), Options{Release: "prerelease", Cwd: dir, Interface: Interface{Disabled: true}})
	require.NoError(t, err)

	assert.Equal(t, Release{Kind: ReleaseBump, Type: PreRelease, PreID: "beta"}, opts.Release)
	assert.Equal(t, []string{"package.json", "deno.jsonc"}, opts.Files)
	assert.Nil(t, opts.Commit)
	assert.Nil(t, opts.Tag)
	assert.Equal(t, dir, opts.Cwd)
	assert.True(t, opts.Interface.Disabled)
}

func TestNormalizeOptionsGitTemplates(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		in     Options
		commit *CommitOptions
		tag    *TagOptions
	}{
		{"nothing", Options{}, nil, nil},
		{"commit", Options{Commit: true, NoVerify: true}, &CommitOptions{Message: DefaultCommitMessage, NoVerify: true}, nil},
		{"message", Options{CommitMessage: "release %s", All: true}, &CommitOptions{Message: "release %s", All: true}, nil},
		{"tag implies commit", Options{Tag: true}, &CommitOptions{Message: DefaultCommitMessage}, &TagOptions{Name: DefaultTagName}},
		{"tag name", Options{TagName: "release-%s"}, &CommitOptions{Message: DefaultCommitMessage}, &TagOptions{Name: "release-%s"}},
		{"push implies commit", Options{Push: true}, &CommitOptions{Message: DefaultCommitMessage}, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			in.Release = "patch"
			in.Cwd = dir
			in.Interface = Interface{Disabled: true}
			opts, err := NormalizeOptions(context.Background(), in)
			require.NoError(t, err)
			assert.Equal(t, tc.commit, opts.Commit)
			assert.Equal(t, tc.tag, opts.Tag)
		})
	}
}

func TestNormalizeOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		in    Options
		check func(t *testing.T, err error)
	}{
		{
			name: "prompt without interface",
			in:   Options{Release: "prompt", Interface: Interface{Disabled: true}},
			check: func(t *testing.T, err error) {
				var cfg *ConfigError
				assert.True(t, errors.As(err, &cfg), "got %v", err)
			},
		},
		{
			name: "confirm without interface",
			in:   Options{Release: "patch", Confirm: true, Interface: Interface{Disabled: true}},
			check: func(t *testing.T, err error) {
				var cfg *ConfigError
				assert.True(t, errors.As(err, &cfg), "got %v", err)
			},
		},
		{
			name: "invalid explicit version",
			in:   Options{Release: "1.2", Interface: Interface{Disabled: true}},
			check: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.True(t, errors.As(err, &parseErr), "got %v", err)
				assert.Equal(t, "1.2", parseErr.Input)
			},
		},
		{
			name: "invalid current version",
			in:   Options{Release: "patch", CurrentVersion: "latest", Interface: Interface{Disabled: true}},
			check: func(t *testing.T, err error) {
				var parseErr *ParseError
				require.True(t, errors.As(err, &parseErr), "got %v", err)
				assert.Equal(t, "latest", parseErr.Input)
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := tc.in
			in.Cwd = dir
			_, err := NormalizeOptions(context.Background(), in)
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}

func TestNormalizeOptionsInterface(t *testing.T) {
	in := strings.NewReader("")
	var out bytes.Buffer
	opts, err := NormalizeOptions(context.Background(), Options{Cwd: t.TempDir(), Interface: Interface{Input: in, Output: &out}})
	require.NoError(t, err)

	assert.Equal(t, ReleasePrompt, opts.Release.Kind)
	assert.IsType(t, &prompt.Line{}, opts.Interface.Prompter)
	assert.Same(t, &out, opts.Interface.Output)
}

func TestExpandFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", "{}")
	writeFile(t, dir, "packages/a/package.json", "{}")
	writeFile(t, dir, "packages/b/package.json", "{}")
	writeFile(t, dir, "packages/b/node_modules/dep/package.json", "{}")
	writeFile(t, dir, "packages/fixtures/package.json", "{}")
	writeFile(t, dir, "src/version.ts", "")

	files, err := expandFiles(context.Background(), dir, []string{"./package.json", "packages/**/package.json", "package.json", "missing.json", "src/*.ts", "!packages/b/**"})
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "packages/a/package.json", "src/version.ts"}, files)
}

func TestRecursiveFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)
	writeFile(t, dir, "pnpm-workspace.yaml", "packages:\n  - apps/*\n  - '!apps/legacy'\n")
	writeFile(t, dir, "apps/web/package.json", `{"version": "1.0.0"}`)
	writeFile(t, dir, "packages/core/package.json", `{"version": "1.0.0"}`)

	opts, err := NormalizeOptions(context.Background(), Options{Release: "patch", Recursive: true, Cwd: dir, Interface: Interface{Disabled: true}})
	require.NoError(t, err)
	assert.Equal(t, []string{"package.json", "packages/core/package.json", "apps/web/package.json"}, opts.Files)

	ws, err := workspacePackages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"apps/*/package.json"}, ws)
}
