package bump

import (
	"context"
	"path"
	"path/filepath"
	"strings"
)

// fileKind selects how a file's version is rewritten.
type fileKind int

const (
	kindText fileKind = iota
	kindManifest
	kindGoMod
)

func (k fileKind) String() string {
	switch k {
	case kindManifest:
		return "manifest"
	case kindGoMod:
		return "go.mod"
	default:
		return "text"
	}
}

// fileKinds maps lowercase file names to their kind. Unlisted names are text.
var fileKinds = map[string]fileKind{
	"package.json":      kindManifest,
	"package-lock.json": kindManifest,
	"bower.json":        kindManifest,
	"component.json":    kindManifest,
	"jsr.json":          kindManifest,
	"jsr.jsonc":         kindManifest,
	"deno.json":         kindManifest,
	"deno.jsonc":        kindManifest,
	"go.mod":            kindGoMod,
}

func classify(file string) fileKind {
	name := strings.ToLower(strings.TrimSpace(filepath.Base(file)))
	return fileKinds[name]
}

// updateFiles rewrites the version in every file of the operation, in order,
// recording each as updated or skipped. The first error stops the run.
//
// Go files whose imports followed a go.mod change are recorded as updated right
// after that go.mod. When such a file comes up again in the list it is still
// rewritten but not recorded twice.
func updateFiles(ctx context.Context, op *Operation) error {
	for _, file := range op.Options.Files {
		if err := ctx.Err(); err != nil {
			return err
		}

		modified, also, err := updateFile(op, file)
		if err != nil {
			return err
		}

		switch {
		case processed(op, file):
		case modified:
			op.log.Debug("updated file", "file", file, "version", op.State.NewVersion)
			op.fileUpdated(file)
		default:
			op.log.Debug("skipped file", "file", file)
			op.fileSkipped(file)
		}
		for _, extra := range also {
			if !processed(op, extra) {
				op.log.Debug("updated file", "file", extra, "reason", "import path")
				op.fileUpdated(extra)
			}
		}
	}
	return nil
}

// processed reports whether file was already recorded as updated or skipped.
func processed(op *Operation, file string) bool {
	for _, f := range op.State.UpdatedFiles {
		if f == file {
			return true
		}
	}
	for _, f := range op.State.SkippedFiles {
		if f == file {
			return true
		}
	}
	return false
}

// updateFile reports whether file needed a new version, and any other files the
// change carried along. In dry-run mode the answer is computed but nothing is
// written.
func updateFile(op *Operation, file string) (bool, []string, error) {
	switch classify(file) {
	case kindManifest:
		modified, err := updateManifestFile(op, file)
		return modified, nil, err
	case kindGoMod:
		return updateGoModFile(op, file)
	default:
		modified, err := updateTextFile(op, file)
		return modified, nil, err
	}
}

// updateManifestFile sets the top-level "version" (and packages[""].version in
// lockfiles). Unlike text files this is not a find-and-replace. Manifests
// without a version, or already at the new version, are left alone.
func updateManifestFile(op *Operation, file string) (bool, error) {
	newVersion := op.State.NewVersion

	m, err := readManifest(op.Options.Cwd, file)
	if err != nil {
		return false, err
	}

	current, ok := m.version()
	if !ok || current == newVersion {
		return false, nil
	}

	m.set([]string{"version"}, newVersion)
	if m.isLockfile() {
		m.set([]string{"packages", "", "version"}, newVersion)
	}

	if op.Options.DryRun {
		return true, nil
	}
	if err := m.write(); err != nil {
		return false, err
	}
	return true, nil
}

// updateTextFile replaces every whole-token occurrence of the current version.
func updateTextFile(op *Operation, file string) (bool, error) {
	t, err := readTextFile(op.Options.Cwd, file)
	if err != nil {
		return false, err
	}

	t.out = replaceVersion(t.data, op.State.CurrentVersion, op.State.NewVersion)
	if !t.modified() {
		return false, nil
	}

	if op.Options.DryRun {
		return true, nil
	}
	if err := t.write(); err != nil {
		return false, err
	}
	return true, nil
}

// updateGoModFile moves the module path to the new major version and rewrites
// the module's imports of itself. The rewritten Go files are returned relative
// to the working directory.
func updateGoModFile(op *Operation, file string) (bool, []string, error) {
	g, err := readGoMod(op.Options.Cwd, file)
	if err != nil {
		return false, nil, err
	}

	oldMod := g.file.Module.Mod.Path
	changed, err := g.setVersion(op.State.NewVersion)
	if err != nil || !changed {
		return false, nil, err
	}
	newMod := g.file.Module.Mod.Path

	if !op.Options.DryRun {
		if err := g.write(); err != nil {
			return false, nil, err
		}
	}

	dir := path.Dir(filepath.ToSlash(file))
	rewritten, err := updateSelfImports(resolvePath(op.Options.Cwd, dir), oldMod, newMod, op.Options.DryRun)
	if err != nil {
		return false, nil, err
	}
	for i, f := range rewritten {
		rewritten[i] = path.Join(dir, f)
	}
	return true, rewritten, nil
}
