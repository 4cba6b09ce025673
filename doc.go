// Package main implements the bump CLI tool.
//
// bump is a command-line interface that bumps the version number of a project.
// It reads the current version from the first manifest it finds (package.json,
// package-lock.json, deno.json, deno.jsonc), computes the next version, writes
// it to every configured file, and then commits the change, tags the commit
// and pushes both.
//
// Command Usage:
//
//	bump [release] [files...] [flags]
//
// The release is one of major, minor, patch, premajor, preminor, prepatch,
// prerelease, next, or an explicit version such as 1.2.3. Without a release,
// bump shows the commits since the last release and asks for one.
//
// JSON manifests (including JSON with comments) have their top-level "version"
// field replaced. package-lock.json also has its root package entry updated.
// A go.mod has its module path moved to the new major version (example.com/m
// becomes example.com/m/v2) and the module's own imports follow. Every other
// file has whole occurrences of the current version replaced.
//
// Flags:
//
//	--preid:           Prerelease identifier (default "beta").
//	-c, --commit:      Commit the changes. An optional value is the message
//	                   template; "%s" is replaced by the version, otherwise the
//	                   version is appended (default "chore: release v").
//	-t, --tag:         Tag the commit, optionally with a name template
//	                   (default "v").
//	-p, --push:        Push the commit and tag (default true).
//	--no-commit, --no-tag, --no-push: Turn the git steps off.
//	--sign:            Sign the commit and tag.
//	--all:             Commit every tracked change, not only the bumped files.
//	--no-verify:       Skip git commit hooks.
//	--no-git-check:    Skip the clean working tree check.
//	-y, --yes:         Skip the confirmation prompt.
//	-r, --recursive:   Bump package.json files in workspace packages too.
//	--ignore-scripts:  Do not run the preversion, version and postversion scripts.
//	-x, --execute:     Command to run after the files are updated. It receives
//	                   BUMP_OLD_VERSION and BUMP_NEW_VERSION in its environment.
//	--current-version: Use this version instead of reading it from the files.
//	--dry-run:         Show what would change without writing files or running git.
//	-q, --quiet:       Do not print progress.
//	--version:         Print the version of bump and exit.
//
// Every flag can also be set in bump.config.yaml or .bumprc.yaml in the working
// directory, or through BUMP_* environment variables (BUMP_NO_VERIFY=true).
//
// Examples:
//
//	# Choose the release interactively
//	bump
//
//	# Bump the patch version (e.g. 1.2.3 → 1.2.4), commit, tag and push
//	bump patch
//
//	# Start a prerelease (e.g. 1.2.3 → 2.0.0-alpha.1)
//	bump premajor --preid alpha
//
//	# Bump a Go module to v2, including version.go
//	bump major go.mod version.go --current-version 1.4.0
//
//	# Bump without git, then run a script
//	bump minor --no-commit --execute "make docs"
//
// Exit status is 0 on success, 1 when the bump fails, and 9 when the
// command line is invalid.
//
// For the library API, see the documentation of the "pkg" package or visit
// [PkgGoDev](https://pkg.go.dev/github.com/bcomnes/bump).
package main
