package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ErrAborted is returned when the user cancels a question with Esc or Ctrl+C.
var ErrAborted = errors.New("prompt aborted")

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	answerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// TUI prompts with Bubble Tea programs.
type TUI struct {
	in  io.Reader
	out io.Writer
}

// NewTUI creates a TUI prompter.
func NewTUI(in io.Reader, out io.Writer) *TUI {
	return &TUI{in: in, out: out}
}

func (t *TUI) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithInput(t.in), tea.WithOutput(t.out), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return final, nil
}

// Select shows the choices as a list. Arrow keys move, typing filters, Enter
// picks.
func (t *TUI) Select(ctx context.Context, q Select) (string, error) {
	final, err := t.run(ctx, newSelectModel(q))
	if err != nil {
		return "", err
	}
	m := final.(selectModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.chosen, nil
}

// Text shows a single-line input.
func (t *TUI) Text(ctx context.Context, q Text) (string, error) {
	final, err := t.run(ctx, newTextModel(q))
	if err != nil {
		return "", err
	}
	m := final.(textModel)
	if m.aborted {
		return "", ErrAborted
	}
	return m.value, nil
}

// Confirm asks a yes/no question.
func (t *TUI) Confirm(ctx context.Context, message string, initial bool) (bool, error) {
	final, err := t.run(ctx, confirmModel{message: message, answer: initial})
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.aborted {
		return false, ErrAborted
	}
	return m.answer, nil
}

type selectModel struct {
	question Select
	filter   string
	cursor   int
	chosen   string
	done     bool
	aborted  bool
}

func newSelectModel(q Select) selectModel {
	m := selectModel{question: q}
	for i, c := range q.Choices {
		if c.Value == q.Initial {
			m.cursor = i
		}
	}
	return m
}

func (m selectModel) visible() []Choice {
	if m.filter == "" {
		return m.question.Choices
	}
	var out []Choice
	needle := strings.ToLower(m.filter)
	for _, c := range m.question.Choices {
		if strings.Contains(strings.ToLower(c.Value), needle) || strings.Contains(strings.ToLower(c.Title), needle) {
			out = append(out, c)
		}
	}
	return out
}

func (m selectModel) Init() tea.Cmd { return nil }

//nolint:exhaustive // only navigation keys are handled
func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.aborted = true
		return m, tea.Quit
	case tea.KeyEnter:
		choices := m.visible()
		if len(choices) == 0 {
			return m, nil
		}
		m.chosen = choices[m.cursor].Value
		m.done = true
		return m, tea.Quit
	case tea.KeyUp, tea.KeyShiftTab:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case tea.KeyDown, tea.KeyTab:
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
		return m, nil
	case tea.KeyBackspace:
		if m.filter != "" {
			runes := []rune(m.filter)
			m.filter = string(runes[:len(runes)-1])
			m.cursor = 0
		}
		return m, nil
	case tea.KeyRunes:
		m.filter += string(key.Runes)
		m.cursor = 0
		return m, nil
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("? " + m.question.Message))
	if m.done {
		for _, c := range m.question.Choices {
			if c.Value == m.chosen {
				fmt.Fprintf(&b, " %s\n", answerStyle.Render(strings.TrimSpace(c.Title)))
			}
		}
		return b.String()
	}
	if m.filter != "" {
		b.WriteString(" " + dimStyle.Render(m.filter))
	}
	b.WriteString("\n")
	for i, c := range m.visible() {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("❯ " + c.Title))
		} else {
			b.WriteString("  " + c.Title)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type textModel struct {
	question Text
	input    textinput.Model
	problem  string
	value    string
	done     bool
	aborted  bool
}

func newTextModel(q Text) textModel {
	input := textinput.New()
	input.Prompt = ""
	input.SetValue(q.Initial)
	input.Focus()
	return textModel{question: q, input: input}
}

func (m textModel) Init() tea.Cmd { return textinput.Blink }

//nolint:exhaustive // everything else goes to the text input
func (m textModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		case tea.KeyEnter:
			value := strings.TrimSpace(m.input.Value())
			if m.question.Validate != nil {
				if err := m.question.Validate(value); err != nil {
					m.problem = err.Error()
					return m, nil
				}
			}
			m.value = value
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.problem = ""
	return m, cmd
}

func (m textModel) View() string {
	var b strings.Builder
	b.WriteString(questionStyle.Render("? " + m.question.Message))
	b.WriteString(" ")
	if m.done {
		b.WriteString(answerStyle.Render(m.value))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.problem != "" {
		b.WriteString(errorStyle.Render(m.problem))
		b.WriteString("\n")
	}
	return b.String()
}

type confirmModel struct {
	message string
	answer  bool
	done    bool
	aborted bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc":
		m.aborted = true
		return m, tea.Quit
	case "y", "Y":
		m.answer = true
		m.done = true
		return m, tea.Quit
	case "n", "N":
		m.answer = false
		m.done = true
		return m, tea.Quit
	case "enter":
		m.done = true
		return m, tea.Quit
	case "left", "right", "tab":
		m.answer = !m.answer
	}
	return m, nil
}

func (m confirmModel) View() string {
	hint := "y/N"
	if m.answer {
		hint = "Y/n"
	}
	line := questionStyle.Render("? "+m.message) + " " + dimStyle.Render("("+hint+")")
	if m.done {
		answer := "no"
		if m.answer {
			answer = "yes"
		}
		line += " " + answerStyle.Render(answer)
	}
	return line + "\n"
}
