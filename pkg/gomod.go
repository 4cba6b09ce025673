package bump

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"golang.org/x/mod/semver"
)

// goModFile is a parsed go.mod whose module path tracks the major version.
type goModFile struct {
	path string
	abs  string
	perm fs.FileMode
	file *modfile.File
}

func readGoMod(cwd, rel string) (*goModFile, error) {
	abs := resolvePath(cwd, rel)
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	f, err := modfile.Parse(abs, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	if f.Module == nil {
		return nil, fmt.Errorf("%s: module directive not found", rel)
	}
	return &goModFile{path: rel, abs: abs, perm: info.Mode().Perm(), file: f}, nil
}

// modulePathFor returns the module path for newVersion: the base path for v0
// and v1, the base path plus "/vN" from v2 on. gopkg.in paths keep their
// ".vN" suffix and are returned unchanged.
func modulePathFor(current, newVersion string) (string, error) {
	base, pathMajor, ok := module.SplitPathVersion(current)
	if !ok {
		return "", fmt.Errorf("invalid module path %q", current)
	}
	if strings.HasPrefix(pathMajor, ".") {
		return current, nil
	}

	maj := semver.Major("v" + strings.TrimPrefix(newVersion, "v"))
	if maj == "" {
		return "", &ParseError{Input: newVersion}
	}
	if maj == "v0" || maj == "v1" {
		return base, nil
	}
	return base + "/" + maj, nil
}

// setVersion points the module path at newVersion's major and reports whether
// the path changed.
func (g *goModFile) setVersion(newVersion string) (bool, error) {
	current := g.file.Module.Mod.Path
	next, err := modulePathFor(current, newVersion)
	if err != nil {
		return false, err
	}
	if next == current {
		return false, nil
	}
	if err := g.file.AddModuleStmt(next); err != nil {
		return false, fmt.Errorf("updating %s: %w", g.path, err)
	}
	return true, nil
}

func (g *goModFile) write() error {
	out, err := g.file.Format()
	if err != nil {
		return fmt.Errorf("formatting %s: %w", g.path, err)
	}
	if err := os.WriteFile(g.abs, out, g.perm); err != nil {
		return fmt.Errorf("writing %s: %w", g.path, err)
	}
	return nil
}
