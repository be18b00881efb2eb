package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyturn/internal/game"
	"storyturn/internal/game/directive"
)

func newTestModel(t *testing.T) (Model, *StatusPanel) {
	t.Helper()

	state := game.NewSessionState(3, true)
	status := NewStatusPanel(100)
	processor := directive.NewProcessor(directive.Collaborators{Display: status})

	m := NewModel(context.Background(), Deps{
		State:     state,
		History:   game.NewHistory(12),
		Processor: processor,
		Status:    status,
	})
	m.width, m.height = 80, 24
	return m, status
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		var key tea.KeyMsg
		if r == ' ' {
			key = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		} else {
			key = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		}
		next, _ := m.Update(key)
		m = next.(Model)
	}
	return m
}

func TestSubmit_DirectiveOnlyTurnSkipsNarration(t *testing.T) {
	m, status := newTestModel(t)

	m = typeText(t, m, "/an Rain")
	assert.Equal(t, "/an Rain", m.input.Value())

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Nil(t, cmd)
	assert.False(t, m.loading)
	assert.Empty(t, m.input.Value())
	assert.Equal(t, 1, m.state.Turn)
	assert.Equal(t, "Rain", m.state.AuthorsNote)
	assert.Equal(t, 0, m.history.Len())
	assert.Equal(t, "Author's Note (3): Rain", status.Message())
	assert.Contains(t, m.messages, "> /an Rain")
}

func TestSubmit_ReportsRejectedDirectives(t *testing.T) {
	m, _ := newTestModel(t)
	m.state.Turn = 1

	m = typeText(t, m, "/and 0")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	assert.Contains(t, m.messages, "[!] Invalid Author's Note Depth passed: /and 0")
}

func TestMultilineInput(t *testing.T) {
	m, _ := newTestModel(t)

	m = typeText(t, m, "/anv")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter, Alt: true})
	m = next.(Model)
	m = typeText(t, m, "/save")

	assert.Equal(t, "/anv\n/save", m.input.Value())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m = next.(Model)
	assert.Equal(t, "/anv\n/sav", m.input.Value())
}

func TestStatusPanelGauge(t *testing.T) {
	status := NewStatusPanel(10)
	status.UpdateGauge("héllo")
	assert.Contains(t, status.gauge(), "5/10")

	status.UpdateGauge("far more than ten runes")
	assert.Contains(t, status.gauge(), "23/10")

	require.Empty(t, NewStatusPanel(0).gauge())

	status.UpdateDisplay(&game.SessionState{Message: "Game loaded!\nAuthor's Note (3): x"})
	assert.Contains(t, status.View(80), "Game loaded! | Author's Note (3): x")
}

func TestView_ShowsStatusAndInput(t *testing.T) {
	m, _ := newTestModel(t)
	m = typeText(t, m, "/an Rain")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	m = typeText(t, m, "look")

	view := m.View()
	assert.Contains(t, view, "Author's Note (3): Rain")
	assert.Contains(t, view, "look")
}
