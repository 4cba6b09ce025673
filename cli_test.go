package main_test

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestCLIBinaryIntegration(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git is not available on system")
	}

	// 1. Build the CLI binary.
	binPath := filepath.Join(t.TempDir(), "bump")
	buildCmd := exec.Command("go", "build", "-o", binPath, "./")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build CLI binary: %v; build output: %s", err, out)
	}

	// 2. Set up a temporary git repository for testing.
	tmpRepo := t.TempDir()
	gitEnv := append(os.Environ(),
		"GIT_AUTHOR_NAME=Test User",
		"GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test User",
		"GIT_COMMITTER_EMAIL=test@example.com",
		"GIT_CONFIG_GLOBAL="+os.DevNull,
	)
	runGit := func(args ...string) string {
		cmd := exec.Command("git", args...)
		cmd.Dir = tmpRepo
		cmd.Env = gitEnv
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("git %v failed: %v\n%s", args, err, out)
		}
		return strings.TrimSpace(string(out))
	}
	runGit("init")

	// 3. Create a package.json and a version file, then commit them.
	if err := os.MkdirAll(filepath.Join(tmpRepo, "pkg"), 0o755); err != nil {
		t.Fatalf("failed to create pkg directory: %v", err)
	}
	files := map[string]string{
		"package.json": `{
  // comments are kept
  "name": "demo",
  "version": "1.2.3",
}
`,
		"pkg/version.go": "package version\n\nvar (\n\tVersion = \"1.2.3\"\n)\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(tmpRepo, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	runGit("add", ".")
	runGit("commit", "-m", "initial commit")

	// 4. Run the CLI binary.
	cliCmd := exec.Command(binPath, "patch", "package.json", "pkg/version.go", "--yes", "--no-push")
	cliCmd.Dir = tmpRepo
	cliCmd.Env = gitEnv
	var cliStdout, cliStderr bytes.Buffer
	cliCmd.Stdout = &cliStdout
	cliCmd.Stderr = &cliStderr
	if err := cliCmd.Run(); err != nil {
		t.Fatalf("CLI command failed: %v; stdout: %s; stderr: %s", err, cliStdout.String(), cliStderr.String())
	}

	for _, want := range []string{"Updated package.json to 1.2.4", "Updated pkg/version.go to 1.2.4", "Git commit", "Git tag"} {
		if !strings.Contains(cliStdout.String(), want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, cliStdout.String())
		}
	}

	// 5. Verify the files were updated and the comment survived.
	pkgJSON, err := os.ReadFile(filepath.Join(tmpRepo, "package.json"))
	if err != nil {
		t.Fatalf("failed to read package.json: %v", err)
	}
	if !strings.Contains(string(pkgJSON), `"version": "1.2.4"`) || !strings.Contains(string(pkgJSON), "// comments are kept") {
		t.Errorf("package.json not updated as expected, got:\n%s", pkgJSON)
	}
	versionGo, err := os.ReadFile(filepath.Join(tmpRepo, "pkg", "version.go"))
	if err != nil {
		t.Fatalf("failed to read version file: %v", err)
	}
	if !strings.Contains(string(versionGo), `Version = "1.2.4"`) {
		t.Errorf("version file not updated, got:\n%s", versionGo)
	}

	// 6. Verify the release commit and tag.
	if got := runGit("log", "-1", "--format=%s"); got != "chore: release v1.2.4" {
		t.Errorf("commit message = %q, want %q", got, "chore: release v1.2.4")
	}
	tags := strings.Split(runGit("tag"), "\n")
	if !slices.Contains(tags, "v1.2.4") {
		t.Errorf("expected git tag v1.2.4 not found; got tags: %v", tags)
	}
	if status := runGit("status", "--porcelain"); status != "" {
		t.Errorf("expected a clean tree after the release commit, got:\n%s", status)
	}
}
