package bump

import (
	"bytes"
	"fmt"
	"go/format"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// importRewrite moves imports of one module path to another.
type importRewrite struct {
	oldMod, newMod string
}

// rewrite returns the import path p under newMod and whether p belongs to
// oldMod. "example.com/m" owns "example.com/m/pkg" but not "example.com/mother".
func (r importRewrite) rewrite(p string) (string, bool) {
	if p == r.oldMod {
		return r.newMod, true
	}
	if rest, ok := strings.CutPrefix(p, r.oldMod+"/"); ok {
		return r.newMod + "/" + rest, true
	}
	return "", false
}

// skipImportDir reports whether a directory is outside the module's own
// sources: vendored code, hidden directories, testdata and nested modules.
func skipImportDir(root, path string, d fs.DirEntry) bool {
	if path == root {
		return false
	}
	name := d.Name()
	if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	_, err := os.Stat(filepath.Join(path, "go.mod"))
	return err == nil
}

// updateSelfImports rewrites the imports of every .go file under modDir from
// oldMod to newMod and returns the changed files relative to modDir. With
// dryRun the files are only scanned.
func updateSelfImports(modDir, oldMod, newMod string, dryRun bool) ([]string, error) {
	r := importRewrite{oldMod: oldMod, newMod: newMod}

	var modified []string
	err := filepath.WalkDir(modDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipImportDir(modDir, path, d) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		changed, err := rewriteImports(path, r, dryRun)
		if err != nil {
			return err
		}
		if changed {
			rel, err := filepath.Rel(modDir, path)
			if err != nil {
				return err
			}
			modified = append(modified, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("rewriting imports of %s: %w", oldMod, err)
	}
	return modified, nil
}

// rewriteImports updates one Go source file. Files that do not parse are left
// alone.
func rewriteImports(path string, r importRewrite, dryRun bool) (bool, error) {
	fset := token.NewFileSet()
	mode := parser.ParseComments
	if dryRun {
		mode = parser.ImportsOnly
	}
	file, err := parser.ParseFile(fset, path, nil, mode)
	if err != nil {
		return false, nil
	}

	changed := false
	for _, imp := range file.Imports {
		p, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if next, ok := r.rewrite(p); ok {
			imp.Path.Value = strconv.Quote(next)
			changed = true
		}
	}
	if !changed || dryRun {
		return changed, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, fset, file); err != nil {
		return false, fmt.Errorf("formatting %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), info.Mode().Perm()); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
