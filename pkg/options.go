package bump

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/bcomnes/bump/pkg/prompt"
)

// DefaultFiles are bumped when Options.Files is empty.
var DefaultFiles = []string{"package.json", "package-lock.json", "jsr.json", "jsr.jsonc", "deno.json", "deno.jsonc"}

// RecursiveFiles are bumped when Options.Recursive is set and Options.Files is
// empty. Packages listed in pnpm-workspace.yaml are added to these.
var RecursiveFiles = []string{"package.json", "package-lock.json", "packages/**/package.json", "jsr.json", "jsr.jsonc", "deno.json", "deno.jsonc"}

// ignoredDirs are never searched when expanding file patterns.
var ignoredDirs = []string{".git", "node_modules", "bower_components", "__tests__", "fixtures", "fixture"}

const (
	// DefaultPreID labels prerelease versions when Options.PreID is empty.
	DefaultPreID = "beta"
	// DefaultCommitMessage is used when committing without a message.
	DefaultCommitMessage = "chore: release v"
	// DefaultTagName is used when tagging without a name.
	DefaultTagName = "v"
)

// CustomVersionFunc suggests a version for the prompt given the current one.
// An empty suggestion is not offered.
type CustomVersionFunc func(ctx context.Context, currentVersion string) (string, error)

// Interface describes where the prompt reads and writes.
type Interface struct {
	// Disabled turns prompting off; prompting then fails with a ConfigError.
	Disabled bool
	Input    io.Reader // defaults to os.Stdin
	Output   io.Writer // defaults to os.Stdout
	// Prompter overrides the prompt front end built from Input and Output.
	Prompter prompt.Prompter
}

func (i Interface) enabled() bool {
	return !i.Disabled && i.Input != nil && i.Output != nil && i.Prompter != nil
}

// Options configures a version bump.
type Options struct {
	// Release is "prompt" (or empty), a release type such as "minor", or an
	// explicit version such as "1.2.3".
	Release string
	// PreID labels prerelease versions. Defaults to DefaultPreID.
	PreID string
	// CurrentVersion skips discovery when set.
	CurrentVersion string

	// Commit commits the updated files. CommitMessage implies Commit; every
	// "%s" is replaced by the new version, otherwise the version is appended.
	Commit        bool
	CommitMessage string
	NoVerify      bool
	// All commits every tracked change, not only the updated files.
	All bool
	// Tag tags the commit. TagName implies Tag and is formatted like CommitMessage.
	Tag     bool
	TagName string
	Sign    bool
	// Push pushes the commit and tag. Tag and Push imply Commit.
	Push bool

	// Files lists glob patterns, relative to Cwd, of the files to bump.
	Files     []string
	Recursive bool
	Cwd       string

	Interface     Interface
	Confirm       bool
	PrintCommits  bool
	NoGitCheck    bool
	IgnoreScripts bool
	// Execute is run through the shell after the files are updated.
	Execute       string
	CustomVersion CustomVersionFunc
	// DryRun resolves everything but writes no files and runs no git commands
	// or scripts.
	DryRun bool

	Progress func(Progress)
	Logger   *slog.Logger
}

// CommitOptions configures the release commit.
type CommitOptions struct {
	Message  string
	NoVerify bool
	All      bool
}

// TagOptions configures the release tag.
type TagOptions struct {
	Name string
}

// NormalizedOptions are Options with defaults applied and file patterns
// expanded.
type NormalizedOptions struct {
	Release        Release
	Commit         *CommitOptions
	Tag            *TagOptions
	Sign           bool
	Push           bool
	Files          []string
	Cwd            string
	Interface      Interface
	Confirm        bool
	PrintCommits   bool
	NoGitCheck     bool
	IgnoreScripts  bool
	Execute        string
	CustomVersion  CustomVersionFunc
	CurrentVersion string
	DryRun         bool
}

// NormalizeOptions applies defaults, expands file patterns and validates the
// combination of options. It fails before touching any file when a prompt is
// required but the interface is disabled.
func NormalizeOptions(ctx context.Context, raw Options) (NormalizedOptions, error) {
	preid := raw.PreID
	if preid == "" {
		preid = DefaultPreID
	}

	cwd := raw.Cwd
	if cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return NormalizedOptions{}, fmt.Errorf("resolving working directory: %w", err)
		}
		cwd = wd
	}

	opts := NormalizedOptions{
		Release:       ParseRelease(raw.Release, preid),
		Sign:          raw.Sign,
		Push:          raw.Push,
		Cwd:           cwd,
		Confirm:       raw.Confirm,
		PrintCommits:  raw.PrintCommits,
		NoGitCheck:    raw.NoGitCheck,
		IgnoreScripts: raw.IgnoreScripts,
		Execute:       raw.Execute,
		CustomVersion: raw.CustomVersion,
		DryRun:        raw.DryRun,
	}

	if raw.TagName != "" {
		opts.Tag = &TagOptions{Name: raw.TagName}
	} else if raw.Tag {
		opts.Tag = &TagOptions{Name: DefaultTagName}
	}

	switch {
	case raw.CommitMessage != "":
		opts.Commit = &CommitOptions{Message: raw.CommitMessage, NoVerify: raw.NoVerify, All: raw.All}
	case raw.Commit || opts.Tag != nil || raw.Push:
		opts.Commit = &CommitOptions{Message: DefaultCommitMessage, NoVerify: raw.NoVerify, All: raw.All}
	}

	if raw.CurrentVersion != "" {
		if !IsValidVersion(raw.CurrentVersion) {
			return NormalizedOptions{}, &ParseError{Input: raw.CurrentVersion}
		}
		opts.CurrentVersion = raw.CurrentVersion
	}

	if opts.Release.Kind == ReleaseVersion && !IsValidVersion(opts.Release.Version) {
		return NormalizedOptions{}, &ParseError{Input: opts.Release.Version}
	}

	patterns := raw.Files
	if len(patterns) == 0 {
		if raw.Recursive {
			workspaces, err := workspacePackages(cwd)
			if err != nil {
				return NormalizedOptions{}, err
			}
			patterns = append(append([]string(nil), RecursiveFiles...), workspaces...)
		} else {
			patterns = DefaultFiles
		}
	}
	files, err := expandFiles(ctx, cwd, patterns)
	if err != nil {
		return NormalizedOptions{}, err
	}
	opts.Files = files

	opts.Interface = normalizeInterface(raw.Interface)
	if opts.Release.Kind == ReleasePrompt && !opts.Interface.enabled() {
		return NormalizedOptions{}, &ConfigError{Msg: "Cannot prompt for the version number because input or output has been disabled."}
	}
	if opts.Confirm && !opts.Interface.enabled() {
		return NormalizedOptions{}, &ConfigError{Msg: "Cannot confirm the version bump because input or output has been disabled."}
	}

	return opts, nil
}

func normalizeInterface(ui Interface) Interface {
	if ui.Disabled {
		return Interface{Disabled: true}
	}
	if ui.Input == nil {
		ui.Input = os.Stdin
	}
	if ui.Output == nil {
		ui.Output = os.Stdout
	}
	if ui.Prompter == nil {
		ui.Prompter = prompt.New(ui.Input, ui.Output)
	}
	return ui
}

// pnpmWorkspace is the subset of pnpm-workspace.yaml we read.
type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// workspacePackages returns "<workspace>/package.json" for every package glob in
// cwd/pnpm-workspace.yaml, skipping negated entries. A missing file yields none.
func workspacePackages(cwd string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(cwd, "pnpm-workspace.yaml"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading pnpm-workspace.yaml: %w", err)
	}

	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil, fmt.Errorf("parsing pnpm-workspace.yaml: %w", err)
	}

	var out []string
	for _, pkg := range ws.Packages {
		if strings.HasPrefix(pkg, "!") {
			continue
		}
		out = append(out, strings.TrimSuffix(pkg, "/")+"/package.json")
	}
	return out, nil
}

// expandFiles expands glob patterns relative to cwd into existing regular files,
// in pattern order without duplicates. Patterns starting with "!" exclude.
func expandFiles(ctx context.Context, cwd string, patterns []string) ([]string, error) {
	fsys := os.DirFS(cwd)

	ignores := make([]string, 0, len(ignoredDirs))
	for _, dir := range ignoredDirs {
		ignores = append(ignores, "**/"+dir+"/**")
	}
	var includes []string
	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			ignores = append(ignores, cleanPattern(neg))
			continue
		}
		includes = append(includes, cleanPattern(p))
	}

	seen := map[string]bool{}
	var files []string
	for _, pattern := range includes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		for _, match := range matches {
			if seen[match] || ignored(match, ignores) {
				continue
			}
			seen[match] = true
			files = append(files, match)
		}
	}
	return files, nil
}

func cleanPattern(p string) string {
	p = filepath.ToSlash(strings.TrimSpace(p))
	p = path.Clean(p)
	return strings.TrimPrefix(p, "./")
}

func ignored(file string, ignores []string) bool {
	for _, pattern := range ignores {
		if ok, _ := doublestar.Match(pattern, file); ok {
			return true
		}
	}
	return false
}
