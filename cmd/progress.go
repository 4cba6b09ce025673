package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	bump "github.com/bcomnes/bump/pkg"
)

// progressPrinter reports each step of a version bump on one line.
type progressPrinter struct {
	w       io.Writer
	success string
	info    string
}

func newProgressPrinter(w io.Writer, r *lipgloss.Renderer) *progressPrinter {
	return &progressPrinter{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("2")).Render("✔"),
		info:    r.NewStyle().Foreground(lipgloss.Color("4")).Render("ℹ"),
	}
}

func (p *progressPrinter) print(e bump.Progress) {
	switch e.Event {
	case bump.ProgressFileUpdated:
		fmt.Fprintln(p.w, p.success, fmt.Sprintf("Updated %s to %s", e.File, e.NewVersion))
	case bump.ProgressFileSkipped:
		fmt.Fprintln(p.w, p.info, fmt.Sprintf("%s did not need to be updated", e.File))
	case bump.ProgressGitCommit:
		fmt.Fprintln(p.w, p.success, "Git commit")
	case bump.ProgressGitTag:
		fmt.Fprintln(p.w, p.success, "Git tag")
	case bump.ProgressGitPush:
		fmt.Fprintln(p.w, p.success, "Git push")
	case bump.ProgressScriptRun:
		switch bump.Script(e.Script) {
		case bump.ScriptPreVersion, bump.ScriptVersion, bump.ScriptPostVersion:
			fmt.Fprintln(p.w, p.success, "Npm run "+e.Script)
		default:
			fmt.Fprintln(p.w, p.success, "Execute "+e.Script)
		}
	}
}
