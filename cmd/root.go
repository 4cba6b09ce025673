// Package cmd implements the bump command line.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bump "github.com/bcomnes/bump/pkg"
)

const rootLongDescription = `Bumps the version number in package.json, package-lock.json, jsr.json and
deno.json (or the files given on the command line), then commits, tags and
pushes the change.

The release is one of: major, minor, patch, premajor, preminor, prepatch,
prerelease, next, an explicit version like 1.2.3, or "prompt" (the default)
to choose interactively. A go.mod in the file list has its module path moved
to the new major version along with the module's own imports.

Settings are also read from bump.config.yaml or .bumprc.yaml in the working
directory and from BUMP_* environment variables.`

const rootExample = `  bump
  bump minor
  bump 1.2.3 --no-push
  bump patch README.md version.go --commit="release %s" --tag="v%s"
  bump premajor --preid alpha --yes
  bump major go.mod version.go --execute "go test ./..."`

// app is one invocation of the CLI.
type app struct {
	cmd *cobra.Command
	v   *viper.Viper
	env environment

	cwd        string
	verbose    bool
	debug      bool
	yes        bool
	noCommit   bool
	noTag      bool
	noPush     bool
	dryRun     bool
	configFile string
}

func newApp(version string, e environment) *app {
	a := &app{v: newConfig(), env: e}
	a.cmd = &cobra.Command{
		Use:           "bump [release] [files...]",
		Short:         "Bump version numbers, commit, tag and push",
		Long:          rootLongDescription,
		Example:       rootExample,
		Version:       resolveVersion(version),
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          a.run,
	}
	a.cmd.SetVersionTemplate("{{.Version}}\n")
	a.cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &invalidArgumentError{err: err}
	})
	a.configureFlags()
	return a
}

func (a *app) configureFlags() {
	f := a.cmd.Flags()

	f.String(preidKey, "", `prerelease identifier (default "beta")`)
	bindFlagToConfig(a.v, f.Lookup(preidKey), preidKey)

	f.StringP(commitKey, "c", "", "commit the changes, optionally with a message template (%s is the version)")
	f.Lookup(commitKey).NoOptDefVal = "true"
	bindFlagToConfig(a.v, f.Lookup(commitKey), commitKey)
	f.BoolVar(&a.noCommit, "no-commit", false, "do not commit, tag or push")

	f.StringP(tagKey, "t", "", "tag the commit, optionally with a tag name template (%s is the version)")
	f.Lookup(tagKey).NoOptDefVal = "true"
	bindFlagToConfig(a.v, f.Lookup(tagKey), tagKey)
	f.BoolVar(&a.noTag, "no-tag", false, "do not tag the commit")

	f.BoolP(pushKey, "p", true, "push the commit and tag")
	bindFlagToConfig(a.v, f.Lookup(pushKey), pushKey)
	f.BoolVar(&a.noPush, "no-push", false, "do not push")

	f.Bool(signKey, false, "sign the commit and tag")
	bindFlagToConfig(a.v, f.Lookup(signKey), signKey)

	f.Bool(allKey, false, "commit every tracked change, not only the bumped files")
	bindFlagToConfig(a.v, f.Lookup(allKey), allKey)

	f.Bool(noVerifyKey, false, "skip git commit hooks")
	bindFlagToConfig(a.v, f.Lookup(noVerifyKey), noVerifyKey)

	f.Bool(noGitCheckKey, false, "skip the clean working tree check")
	bindFlagToConfig(a.v, f.Lookup(noGitCheckKey), noGitCheckKey)

	f.BoolVarP(&a.yes, "yes", "y", false, "skip the confirmation prompt")

	f.BoolP(recursiveKey, "r", false, "bump package.json files in workspace packages too")
	bindFlagToConfig(a.v, f.Lookup(recursiveKey), recursiveKey)

	f.Bool(ignoreScriptsKey, false, "do not run npm version lifecycle scripts")
	bindFlagToConfig(a.v, f.Lookup(ignoreScriptsKey), ignoreScriptsKey)

	f.StringP(executeKey, "x", "", "command to run after the files are updated")
	bindFlagToConfig(a.v, f.Lookup(executeKey), executeKey)

	f.String(currentVersionKey, "", "use this current version instead of reading it from the files")
	bindFlagToConfig(a.v, f.Lookup(currentVersionKey), currentVersionKey)

	f.Bool(printCommitsKey, true, "list the commits since the last release when prompting")
	bindFlagToConfig(a.v, f.Lookup(printCommitsKey), printCommitsKey)

	f.BoolP(quietKey, "q", false, "do not print progress")
	bindFlagToConfig(a.v, f.Lookup(quietKey), quietKey)

	f.BoolVar(&a.dryRun, "dry-run", false, "show what would change without writing files or running git")
	f.StringVar(&a.cwd, "cwd", "", "working directory (default current directory)")
	f.BoolVar(&a.verbose, "verbose", false, "log each step to stderr")
	f.BoolVar(&a.debug, "debug", false, "verbose logging and detailed errors")
}

// bindFlagToConfig wires a flag to a viper key so config and env values feed it.
func bindFlagToConfig(v *viper.Viper, flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(v.BindPFlag(key, flag))
}

func (a *app) debugging() bool {
	return a.debug || a.env.debug()
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	if a.cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		a.cwd = wd
	}

	configFile, err := readConfig(a.v, a.cwd)
	if err != nil {
		return err
	}
	a.configFile = configFile

	logger := configureLogger(a.v, cmd.ErrOrStderr(), a.cwd, a.verbose || a.debugging())
	if configFile != "" {
		logger.Debug("read config", "file", configFile)
	}

	opts, err := a.options(cmd, args)
	if err != nil {
		return err
	}
	opts.Logger = logger

	results, err := bump.VersionBump(cmd.Context(), opts)
	if err != nil {
		return err
	}

	if a.dryRun && !a.v.GetBool(quietKey) {
		cmd.Println("Dry run complete, no files were modified.")
	}
	logger.Debug("version bump finished", "from", results.CurrentVersion, "to", results.NewVersion, "updated", len(results.UpdatedFiles))
	return nil
}

// options maps the command line, config and environment to bump.Options.
func (a *app) options(cmd *cobra.Command, args []string) (bump.Options, error) {
	if a.noCommit && cmd.Flags().Changed(commitKey) {
		return bump.Options{}, invalidArgument("--commit and --no-commit cannot be combined")
	}
	if a.noTag && cmd.Flags().Changed(tagKey) {
		return bump.Options{}, invalidArgument("--tag and --no-tag cannot be combined")
	}
	if a.noPush && cmd.Flags().Changed(pushKey) {
		return bump.Options{}, invalidArgument("--push and --no-push cannot be combined")
	}

	release, files := splitArgs(args)
	if len(files) == 0 {
		files = a.v.GetStringSlice(filesKey)
	}

	opts := bump.Options{
		Release:        release,
		PreID:          a.v.GetString(preidKey),
		CurrentVersion: a.v.GetString(currentVersionKey),
		Sign:           a.v.GetBool(signKey),
		All:            a.v.GetBool(allKey),
		NoVerify:       a.v.GetBool(noVerifyKey),
		NoGitCheck:     a.v.GetBool(noGitCheckKey),
		Files:          files,
		Recursive:      a.v.GetBool(recursiveKey),
		Cwd:            a.cwd,
		Confirm:        a.v.GetBool(confirmKey) && !a.yes,
		PrintCommits:   a.v.GetBool(printCommitsKey),
		IgnoreScripts:  a.v.GetBool(ignoreScriptsKey),
		Execute:        a.v.GetString(executeKey),
		DryRun:         a.dryRun,
		Interface: bump.Interface{
			Input:  cmd.InOrStdin(),
			Output: cmd.OutOrStdout(),
		},
	}

	if !a.noCommit {
		opts.Commit, opts.CommitMessage = optionalValue(a.v.GetString(commitKey))
		if !a.noTag {
			opts.Tag, opts.TagName = optionalValue(a.v.GetString(tagKey))
		}
		opts.Push = a.v.GetBool(pushKey) && !a.noPush
	}

	if command := strings.TrimSpace(a.v.GetString(customVersionCommandKey)); command != "" {
		opts.CustomVersion = customVersionHook(command, a.cwd)
	}

	if !a.v.GetBool(quietKey) {
		r := lipgloss.NewRenderer(cmd.OutOrStdout())
		if a.env.colorDisabled() {
			r.SetColorProfile(termenv.Ascii)
		}
		opts.Progress = newProgressPrinter(cmd.OutOrStdout(), r).print
	}
	return opts, nil
}

// splitArgs takes the release from the first argument when it is a release
// type, "prompt" or a version number. Everything else is a file.
func splitArgs(args []string) (release string, files []string) {
	if len(args) == 0 {
		return "", nil
	}
	first := args[0]
	if first == "prompt" || bump.IsReleaseType(first) || bump.IsValidVersion(first) {
		return first, args[1:]
	}
	return "", args
}

// customVersionHook runs command through the shell with the current version in
// BUMP_CURRENT_VERSION. Its trimmed output is the suggested version.
func customVersionHook(command, dir string) bump.CustomVersionFunc {
	return func(ctx context.Context, currentVersion string) (string, error) {
		c := exec.CommandContext(ctx, "sh", "-c", command)
		c.Dir = dir
		c.Env = append(os.Environ(), "BUMP_CURRENT_VERSION="+currentVersion)
		var stderr bytes.Buffer
		c.Stderr = &stderr
		out, err := c.Output()
		if err != nil {
			return "", fmt.Errorf("custom version command failed: %w, detail: %s", err, strings.TrimSpace(stderr.String()))
		}
		return strings.TrimSpace(string(out)), nil
	}
}

func resolveVersion(version string) string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return strings.TrimPrefix(info.Main.Version, "v")
	}
	return "unknown"
}

// Execute runs the CLI with the process arguments and returns the exit code.
// This is called by main.main().
func Execute(version string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, version, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func run(ctx context.Context, version string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	e, err := loadEnvironment()
	if err != nil {
		printError(stderr, err, false)
		return ExitFatal
	}

	a := newApp(version, e)
	a.cmd.SetArgs(args)
	a.cmd.SetIn(stdin)
	a.cmd.SetOut(stdout)
	a.cmd.SetErr(stderr)

	if err := a.cmd.ExecuteContext(ctx); err != nil {
		printError(stderr, err, a.debugging())
		return exitCode(err)
	}
	return ExitSuccess
}
