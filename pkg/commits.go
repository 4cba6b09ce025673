package bump

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Commit is one line of `git log --oneline`, split into its conventional
// commit parts when the subject follows that format.
type Commit struct {
	Hash     string
	Tag      string // type plus "!" for breaking changes, e.g. "feat" or "fix!"
	Scope    string // including parentheses, e.g. "(core)"
	Message  string
	Breaking bool
}

var conventionalCommit = regexp.MustCompile(`^(\w+)(!)?(\([^)]+\))?(!)?:(.*)$`)

// ParseCommits parses "<hash> <subject>" lines, newest first as git prints
// them, and returns the commits oldest first.
func ParseCommits(lines []string) []Commit {
	commits := make([]Commit, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		hash, subject, _ := strings.Cut(line, " ")

		c := Commit{Hash: hash, Message: subject}
		if m := conventionalCommit.FindStringSubmatch(subject); m != nil {
			c.Breaking = m[2] == "!" || m[4] == "!"
			c.Tag = m[1]
			if c.Breaking {
				c.Tag += "!"
			}
			c.Scope = m[3]
			c.Message = strings.TrimSpace(m[5])
		}
		commits = append(commits, c)
	}

	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits
}

// commitColors maps lowercase commit types to terminal colors.
var commitColors = map[string]lipgloss.Color{
	"chore":    "8",
	"fix":      "3",
	"feat":     "2",
	"refactor": "6",
	"docs":     "4",
	"doc":      "4",
	"ci":       "8",
	"build":    "8",
}

const grayColor = lipgloss.Color("8")

// FormatCommits renders one line per commit with the tags and scopes aligned.
// Colors are applied when the renderer's output supports them.
func FormatCommits(r *lipgloss.Renderer, commits []Commit) []string {
	tagLength, scopeLength := 0, 0
	for _, c := range commits {
		tagLength = max(tagLength, len(c.Tag))
		scopeLength = max(scopeLength, len(c.Scope))
	}
	if scopeLength > 0 {
		scopeLength += 2
	}

	dim := r.NewStyle().Faint(true)
	lines := make([]string, 0, len(commits))
	for _, c := range commits {
		style := r.NewStyle()
		color, known := commitColors[strings.ToLower(strings.TrimSuffix(c.Tag, "!"))]
		switch {
		case c.Breaking:
			style = style.Foreground(lipgloss.Color("1")).Reverse(true)
		case known:
			style = style.Foreground(color)
		}
		gray := known && color == grayColor && !c.Breaking

		paddedTag := fmt.Sprintf("%*s", tagLength+1, c.Tag)
		var scope string
		if c.Scope == "" {
			scope = strings.Repeat(" ", scopeLength)
		} else {
			scope = dim.Render("(") + c.Scope[1:len(c.Scope)-1] + dim.Render(")") + strings.Repeat(" ", scopeLength-len(c.Scope))
		}

		tag := style.Render(paddedTag)
		message := c.Message
		if gray {
			message = style.Render(message)
		} else {
			tag = style.Bold(true).Render(paddedTag)
		}

		lines = append(lines, dim.Render(c.Hash)+" "+tag+" "+scope+dim.Render(":")+" "+message)
	}
	return lines
}

// printRecentCommits writes the commits since the current version's tag to w.
// It returns an error, and prints a notice, when the tag cannot be found.
func printRecentCommits(ctx context.Context, op *Operation, w io.Writer) error {
	current := op.State.CurrentVersion
	r := lipgloss.NewRenderer(w)
	info := r.NewStyle().Foreground(lipgloss.Color("4")).Render("i")
	gray := r.NewStyle().Foreground(grayColor)

	sha, err := versionCommit(ctx, op.Options.Cwd, current)
	if err != nil {
		fmt.Fprintln(w, info+gray.Render(" Failed to locate the previous tag ")+r.NewStyle().Foreground(lipgloss.Color("3")).Render("v"+current))
		return err
	}

	lines, err := commitsSince(ctx, op.Options.Cwd, sha)
	if err != nil {
		return err
	}
	commits := ParseCommits(lines)
	if len(commits) == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, info+gray.Render(" No commits since "+current))
		fmt.Fprintln(w)
		return nil
	}

	short := sha
	if len(short) > 7 {
		short = short[:7]
	}
	bold := r.NewStyle().Bold(true)
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold.Render(r.NewStyle().Foreground(lipgloss.Color("2")).Render(fmt.Sprint(len(commits)))+" Commits since "+gray.Render(short)+":"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Join(FormatCommits(r, commits), "\n"))
	fmt.Fprintln(w)
	return nil
}
