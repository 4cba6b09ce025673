package bump

import (
	"context"
	"strings"
)

// builtinVersionFiles are always searched for the current version, after the
// JSON files of the file list.
var builtinVersionFiles = []string{"package.json", "deno.json", "deno.jsonc"}

// versionCandidates returns the JSON files of files followed by the built-in
// manifests not already listed.
func versionCandidates(files []string) []string {
	var candidates []string
	for _, f := range files {
		if strings.HasSuffix(f, ".json") || strings.HasSuffix(f, ".jsonc") {
			candidates = append(candidates, f)
		}
	}
	for _, builtin := range builtinVersionFiles {
		found := false
		for _, c := range candidates {
			if c == builtin {
				found = true
				break
			}
		}
		if !found {
			candidates = append(candidates, builtin)
		}
	}
	return candidates
}

// getCurrentVersion finds the current version in the first candidate file that
// has a valid one. Unreadable candidates are skipped. It does nothing when the
// current version is already known.
func getCurrentVersion(ctx context.Context, op *Operation) error {
	if op.State.CurrentVersion != "" {
		return nil
	}

	candidates := versionCandidates(op.Options.Files)
	for _, file := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		v := readVersion(op, file)
		if v == "" {
			continue
		}
		op.log.Debug("found current version", "file", file, "version", v)
		op.setCurrentVersion(v, file)
		return nil
	}

	return &NotFoundError{Checked: candidates}
}

// readVersion returns the valid version in file in canonical form ("v1.2.3"
// becomes "1.2.3"), or "" when the file is missing, malformed or has no valid
// version.
func readVersion(op *Operation, file string) string {
	m, err := readManifest(op.Options.Cwd, file)
	if err != nil {
		op.log.Debug("skipping version candidate", "file", file, "error", err)
		return ""
	}
	raw, ok := m.version()
	if !ok {
		op.log.Debug("no version in candidate", "file", file)
		return ""
	}
	v, err := CleanVersion(raw)
	if err != nil {
		op.log.Debug("no valid version in candidate", "file", file, "version", raw)
		return ""
	}
	return v
}
