package bump

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestOperation normalizes opts against dir with prompting disabled.
func newTestOperation(t *testing.T, dir string, opts Options) *Operation {
	t.Helper()
	opts.Cwd = dir
	if opts.Interface == (Interface{}) {
		opts.Interface = Interface{Disabled: true}
	}
	op, err := NewOperation(context.Background(), opts)
	require.NoError(t, err)
	return op
}

func TestVersionCandidates(t *testing.T) {
	tests := []struct {
		files    []string
		expected []string
	}{
		{nil, []string{"package.json", "deno.json", "deno.jsonc"}},
		{[]string{"package.json", "package-lock.json"}, []string{"package.json", "package-lock.json", "deno.json", "deno.jsonc"}},
		{[]string{"README.md", "jsr.jsonc", "deno.json"}, []string{"jsr.jsonc", "deno.json", "package.json", "deno.jsonc"}},
		{[]string{"packages/a/package.json"}, []string{"packages/a/package.json", "package.json", "deno.json", "deno.jsonc"}},
	}
	for _, tc := range tests {
		if diff := cmp.Diff(tc.expected, versionCandidates(tc.files)); diff != "" {
			t.Errorf("versionCandidates(%q) mismatch (-want +got):\n%s", tc.files, diff)
		}
	}
}

func TestGetCurrentVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "README.md", "v0.0.1")
	writeFile(t, dir, "jsr.json", `{"name": "@demo/x"}`)
	writeFile(t, dir, "package.json", `{"version": "not a version"}`)
	writeFile(t, dir, "deno.json", `{"version": "v2.3.4"}`)
	writeFile(t, dir, "deno.jsonc", `{"version": "9.9.9"}`)

	op := newTestOperation(t, dir, Options{Release: "patch", Files: []string{"README.md", "jsr.json", "package.json"}})
	require.NoError(t, getCurrentVersion(context.Background(), op))

	assert.Equal(t, "2.3.4", op.State.CurrentVersion)
	assert.Equal(t, "deno.json", op.State.CurrentVersionSource)
}

func TestGetCurrentVersionStopsAtFirstMatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)
	writeFile(t, dir, "deno.json", `{not json`)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	op := newTestOperation(t, dir, Options{Release: "patch", Logger: logger})
	require.NoError(t, getCurrentVersion(context.Background(), op))

	assert.Equal(t, "1.0.0", op.State.CurrentVersion)
	assert.Contains(t, logs.String(), "found current version")
	assert.NotContains(t, logs.String(), "deno.json")
}

func TestGetCurrentVersionKeepsKnownVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version": "1.0.0"}`)

	op := newTestOperation(t, dir, Options{Release: "patch", CurrentVersion: "3.0.0"})
	require.NoError(t, getCurrentVersion(context.Background(), op))
	assert.Equal(t, "3.0.0", op.State.CurrentVersion)
	assert.Empty(t, op.State.CurrentVersionSource)

	op.setCurrentVersion("4.0.0", "package.json")
	assert.Equal(t, "3.0.0", op.State.CurrentVersion)
}

func TestGetCurrentVersionNotFound(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "package.json", `{"version": ""}`)
	writeFile(t, dir, "package-lock.json", `{"lockfileVersion": 3}`)

	op := newTestOperation(t, dir, Options{Release: "patch"})
	err := getCurrentVersion(context.Background(), op)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound), "got %v", err)
	assert.Equal(t, []string{"package.json", "package-lock.json", "deno.json", "deno.jsonc"}, notFound.Checked)
	assert.EqualError(t, err, "Unable to determine the current version number. Checked package.json, package-lock.json, deno.json, deno.jsonc.")
	assert.Empty(t, op.State.CurrentVersion)
}

func TestGetCurrentVersionCancelled(t *testing.T) {
	dir := t.TempDir()
	op := newTestOperation(t, dir, Options{Release: "patch"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, getCurrentVersion(ctx, op), context.Canceled)
}
