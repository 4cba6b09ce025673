// Package prompt asks the user questions on a terminal. Interactive terminals
// get a Bubble Tea interface; any other reader falls back to plain line input.
package prompt

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"
)

// Choice is one selectable entry of a Select question.
type Choice struct {
	Value string
	Title string
}

// Select asks the user to pick one of Choices. Initial is the Value selected
// when the question opens.
type Select struct {
	Message string
	Choices []Choice
	Initial string
}

// Text asks for free-form input. Validate, when set, rejects an answer with a
// message shown to the user; the question is asked again.
type Text struct {
	Message  string
	Initial  string
	Validate func(string) error
}

// Prompter is implemented by every prompt front end.
type Prompter interface {
	Select(ctx context.Context, q Select) (string, error)
	Text(ctx context.Context, q Text) (string, error)
	Confirm(ctx context.Context, message string, initial bool) (bool, error)
}

// New returns a TUI prompter when both in and out are terminals and a Line
// prompter otherwise.
func New(in io.Reader, out io.Writer) Prompter {
	if isTerminal(in) && isTerminal(out) {
		return NewTUI(in, out)
	}
	return NewLine(in, out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
