package bump

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// textFile holds a text file's original content and, after replaceVersion, the
// rewritten content.
type textFile struct {
	path string
	abs  string
	perm fs.FileMode
	data string
	out  string
}

func readTextFile(cwd, rel string) (*textFile, error) {
	abs := resolvePath(cwd, rel)
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return &textFile{path: rel, abs: abs, perm: info.Mode().Perm(), data: string(raw), out: string(raw)}, nil
}

func (t *textFile) modified() bool { return t.out != t.data }

func (t *textFile) write() error {
	if err := os.WriteFile(t.abs, []byte(t.out), t.perm); err != nil {
		return fmt.Errorf("writing %s: %w", t.path, err)
	}
	return nil
}

// versionPattern matches oldVersion as a whole token, optionally prefixed by
// "v": "1.2.3" and "v1.2.3" match, "21.2.3" and "1.2.34" do not.
func versionPattern(oldVersion string) *regexp.Regexp {
	return regexp.MustCompile(`(\b|v)` + regexp.QuoteMeta(oldVersion) + `\b`)
}

// replaceVersion rewrites every occurrence of oldVersion in content, keeping a
// "v" prefix where there was one.
func replaceVersion(content, oldVersion, newVersion string) string {
	if oldVersion == "" || !strings.Contains(content, oldVersion) {
		return content
	}
	return versionPattern(oldVersion).ReplaceAllString(content, "${1}"+strings.ReplaceAll(newVersion, "$", "$$"))
}
