// Package bump provides a library for bumping a semantic version number across
// a project's manifests and text files.
//
// It provides functionalities for:
//   - Discovering the current version from package.json, deno.json(c), jsr.json(c)
//     and any other JSON manifest in the file list.
//   - Computing the next version for a release type (major, minor, patch, premajor,
//     preminor, prepatch, prerelease, next) or normalizing an explicit version.
//   - Prompting for the next version when no release type is given.
//   - Rewriting the version in JSON-with-comments manifests without disturbing their
//     formatting, in go.mod module paths for major bumps, and in free text files.
//   - Running the preversion/version/postversion lifecycle scripts, committing,
//     tagging and pushing with git.
//
// This library backs the bump command-line tool and can be used as a programmatic
// API from other Go programs.
//
// Usage Example:
//
//	import (
//	    "context"
//	    "log"
//
//	    bump "github.com/bcomnes/bump/pkg"
//	)
//
//	func main() {
//	    results, err := bump.VersionBump(context.Background(), bump.Options{
//	        Release: "patch",
//	        Files:   []string{"package.json", "README.md"},
//	        Commit:  true,
//	        Tag:     true,
//	    })
//	    if err != nil {
//	        log.Fatalf("version bump failed: %v", err)
//	    }
//	    log.Printf("bumped %s to %s", results.CurrentVersion, results.NewVersion)
//	}
package bump
