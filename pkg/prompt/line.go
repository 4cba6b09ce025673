package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Line prompts with numbered menus and reads answers one line at a time.
// A single goroutine reads the input, so a prompt cancelled while waiting
// leaves the pending line for the next prompt.
type Line struct {
	in  *bufio.Reader
	out io.Writer

	start sync.Once
	lines chan lineResult
	err   error
}

type lineResult struct {
	line string
	err  error
}

// NewLine creates a Line prompter.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{in: bufio.NewReader(in), out: out, lines: make(chan lineResult)}
}

// readLoop feeds lines until the input fails or ends.
func (l *Line) readLoop() {
	for {
		line, err := l.in.ReadString('\n')
		if err == io.EOF && line != "" {
			err = nil
		}
		l.lines <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
		if err != nil {
			return
		}
	}
}

// readLine blocks until a full line is read, the input ends, or ctx is done.
func (l *Line) readLine(ctx context.Context) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.start.Do(func() { go l.readLoop() })

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-l.lines:
		if r.err == io.EOF {
			r.err = io.ErrUnexpectedEOF
		}
		if r.err != nil {
			l.err = r.err
			return "", r.err
		}
		return r.line, nil
	}
}

// Select prints the choices numbered from 1. The answer may be the number or
// the choice value; an empty answer picks Initial.
func (l *Line) Select(ctx context.Context, q Select) (string, error) {
	for {
		fmt.Fprintln(l.out, q.Message)
		initial := 0
		for i, c := range q.Choices {
			marker := " "
			if c.Value == q.Initial {
				marker = ">"
				initial = i
			}
			fmt.Fprintf(l.out, "%s %2d) %s\n", marker, i+1, c.Title)
		}
		fmt.Fprint(l.out, "? ")

		answer, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" && len(q.Choices) > 0 {
			return q.Choices[initial].Value, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(q.Choices) {
			return q.Choices[n-1].Value, nil
		}
		for _, c := range q.Choices {
			if strings.EqualFold(c.Value, answer) {
				return c.Value, nil
			}
		}
		fmt.Fprintf(l.out, "%q is not one of the choices\n", answer)
	}
}

// Text reads a line, asking again while Validate rejects it. An empty answer
// uses Initial.
func (l *Line) Text(ctx context.Context, q Text) (string, error) {
	for {
		if q.Initial != "" {
			fmt.Fprintf(l.out, "%s (%s) ", q.Message, q.Initial)
		} else {
			fmt.Fprintf(l.out, "%s ", q.Message)
		}
		answer, err := l.readLine(ctx)
		if err != nil {
			return "", err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			answer = q.Initial
		}
		if q.Validate != nil {
			if err := q.Validate(answer); err != nil {
				fmt.Fprintln(l.out, err)
				continue
			}
		}
		return answer, nil
	}
}

// Confirm asks a yes/no question.
func (l *Line) Confirm(ctx context.Context, message string, initial bool) (bool, error) {
	hint := "y/N"
	if initial {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(l.out, "%s (%s) ", message, hint)
		answer, err := l.readLine(ctx)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "":
			return initial, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
