package bump

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Script is a package.json lifecycle script run around the version bump.
type Script string

// Lifecycle scripts, in the order they run.
const (
	ScriptPreVersion  Script = "preversion"
	ScriptVersion     Script = "version"
	ScriptPostVersion Script = "postversion"
)

// Environment variables passed to the execute command.
const (
	EnvOldVersion = "BUMP_OLD_VERSION"
	EnvNewVersion = "BUMP_NEW_VERSION"
)

// runNpmScript runs script with npm when package.json in the working directory
// defines it. A missing or unreadable package.json means there are no scripts.
func runNpmScript(ctx context.Context, op *Operation, script Script) error {
	if op.Options.IgnoreScripts {
		return nil
	}

	m, err := readManifest(op.Options.Cwd, "package.json")
	if err != nil {
		return nil
	}
	if _, ok := m.scripts()[string(script)]; !ok {
		return nil
	}

	op.log.Debug("running lifecycle script", "script", script)
	if err := runCommand(ctx, op, "npm", "run", string(script), "--silent"); err != nil {
		return fmt.Errorf("npm run %s failed: %w", script, err)
	}
	op.emit(Progress{Event: ProgressScriptRun, Script: string(script)})
	return nil
}

// runExecute runs the execute command through the shell with the old and new
// versions in its environment.
func runExecute(ctx context.Context, op *Operation) error {
	command := strings.TrimSpace(op.Options.Execute)
	if command == "" {
		return nil
	}

	op.log.Debug("running execute command", "command", command)
	if err := runCommand(ctx, op, "sh", "-c", command); err != nil {
		return fmt.Errorf("execute %q failed: %w", command, err)
	}
	op.emit(Progress{Event: ProgressScriptRun, Script: command})
	return nil
}

func runCommand(ctx context.Context, op *Operation, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = op.Options.Cwd
	cmd.Env = append(os.Environ(),
		EnvOldVersion+"="+op.State.CurrentVersion,
		EnvNewVersion+"="+op.State.NewVersion,
	)
	var stderr bytes.Buffer
	cmd.Stdout = os.Stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%v, detail: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
