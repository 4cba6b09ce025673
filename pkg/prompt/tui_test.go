package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSelectModel(t *testing.T) {
	m := newSelectModel(menu)
	assert.Equal(t, 1, m.cursor)

	final := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter}).(selectModel)
	assert.Equal(t, "patch", final.chosen)
	assert.True(t, final.done)
	assert.Contains(t, final.View(), "patch 1.2.4")
}

func TestSelectModelFilter(t *testing.T) {
	m := press(t, newSelectModel(menu), runes("ma")).(selectModel)
	require.Len(t, m.visible(), 1)
	assert.Equal(t, 0, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}).(selectModel)
	assert.Len(t, m.visible(), 3)

	m = press(t, m, runes("1.3"), tea.KeyMsg{Type: tea.KeyEnter}).(selectModel)
	assert.Equal(t, "minor", m.chosen)
}

func TestSelectModelAbort(t *testing.T) {
	m := press(t, newSelectModel(menu), tea.KeyMsg{Type: tea.KeyEsc}).(selectModel)
	assert.True(t, m.aborted)
	assert.Empty(t, m.chosen)
}

func TestTextModel(t *testing.T) {
	q := Text{
		Message: "Version?",
		Initial: "1.2",
		Validate: func(s string) error {
			if s == "1.2" {
				return errors.New("that's not a valid version number")
			}
			return nil
		},
	}
	m := press(t, newTextModel(q), tea.KeyMsg{Type: tea.KeyEnter}).(textModel)
	assert.False(t, m.done)
	assert.Contains(t, m.View(), "that's not a valid version number")

	m = press(t, m, runes(".3"), tea.KeyMsg{Type: tea.KeyEnter}).(textModel)
	assert.True(t, m.done)
	assert.Equal(t, "1.2.3", m.value)
}

func TestConfirmModel(t *testing.T) {
	m := press(t, confirmModel{message: "Bump?", answer: true}, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyEnter}).(confirmModel)
	assert.True(t, m.done)
	assert.False(t, m.answer)
	assert.Contains(t, m.View(), "no")

	m = press(t, confirmModel{message: "Bump?"}, runes("y")).(confirmModel)
	assert.True(t, m.answer)
}
