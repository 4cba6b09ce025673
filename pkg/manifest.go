package bump

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tailscale/hujson"
)

// manifestPatch sets the string at the key path Path when the manifest is
// written.
type manifestPatch struct {
	Path  []string
	Value string
}

// manifestFile is a JSON-with-comments document read from disk. Patches are
// applied to the parsed tree on write so everything outside the patched values
// (comments, key order, whitespace) is written back untouched.
type manifestFile struct {
	path string
	abs  string
	perm fs.FileMode
	tree hujson.Value
	data any

	modified []manifestPatch
}

func readManifest(cwd, rel string) (*manifestFile, error) {
	abs := resolvePath(cwd, rel)
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}

	tree, err := hujson.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", rel, err)
	}
	std := tree.Clone()
	std.Standardize()

	var data any
	if err := json.Unmarshal(std.Pack(), &data); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", rel, err)
	}

	return &manifestFile{
		path: rel,
		abs:  abs,
		perm: info.Mode().Perm(),
		tree: tree,
		data: data,
	}, nil
}

// object returns the top-level object, or nil when the document is not one.
func (m *manifestFile) object() map[string]any {
	obj, _ := m.data.(map[string]any)
	return obj
}

// isManifest reports whether the document is an object whose "version", if
// present, is a string.
func (m *manifestFile) isManifest() bool {
	obj := m.object()
	if obj == nil {
		return false
	}
	v, ok := obj["version"]
	if !ok {
		return true
	}
	_, isString := v.(string)
	return isString
}

// version returns the top-level version and whether the field is present.
func (m *manifestFile) version() (string, bool) {
	if !m.isManifest() {
		return "", false
	}
	v, ok := m.object()["version"].(string)
	return v, ok
}

// isLockfile reports whether the manifest is shaped like package-lock.json v2+,
// with the root package's version under packages[""].version.
func (m *manifestFile) isLockfile() bool {
	if !m.isManifest() {
		return false
	}
	packages, ok := m.object()["packages"].(map[string]any)
	if !ok {
		return false
	}
	root, ok := packages[""].(map[string]any)
	if !ok {
		return false
	}
	_, ok = root["version"]
	return ok
}

// scripts returns the "scripts" map of a package.json-like manifest.
func (m *manifestFile) scripts() map[string]string {
	out := map[string]string{}
	raw, ok := m.object()["scripts"].(map[string]any)
	if !ok {
		return out
	}
	for name, v := range raw {
		if s, ok := v.(string); ok {
			out[name] = s
		}
	}
	return out
}

func (m *manifestFile) set(path []string, value string) {
	m.modified = append(m.modified, manifestPatch{Path: path, Value: value})
}

// apply replaces the patched values in a copy of the parsed tree and returns
// the serialized document. Only the value literals change, so comments,
// whitespace and trailing commas around them stay as they were.
func (m *manifestFile) apply() ([]byte, error) {
	tree := m.tree.Clone()
	for _, p := range m.modified {
		ptr := jsonPointer(p.Path)
		n := tree.Find(ptr)
		if n == nil {
			return nil, fmt.Errorf("patching %s: no value at %s", m.path, ptr)
		}
		n.Value = hujson.String(p.Value)
	}
	return tree.Pack(), nil
}

// write applies the pending patches and rewrites the file in one operation.
func (m *manifestFile) write() error {
	out, err := m.apply()
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.abs, out, m.perm); err != nil {
		return fmt.Errorf("writing %s: %w", m.path, err)
	}
	return nil
}

// jsonPointer builds an RFC 6901 pointer from object keys.
func jsonPointer(path []string) string {
	var b strings.Builder
	escaper := strings.NewReplacer("~", "~0", "/", "~1")
	for _, key := range path {
		b.WriteByte('/')
		b.WriteString(escaper.Replace(key))
	}
	return b.String()
}

func resolvePath(cwd, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(cwd, filepath.FromSlash(rel))
}
