package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"storyturn/internal/game/directive"
)

func animationTimer() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg{}
	})
}

// submit runs one turn: directives are applied first and narration only
// starts when some text is left.
func (m Model) submit(raw string) (tea.Model, tea.Cmd) {
	for _, line := range strings.Split(raw, "\n") {
		m.messages = append(m.messages, "> "+line)
	}

	result := m.processor.Process(m.ctx, raw, m.state, m.state.IsFirstTurn())
	m.logTurn(raw, result)
	m.state.Turn++

	for _, d := range result.Diagnostics {
		m.messages = append(m.messages, "[!] "+d.Error())
	}

	if result.Stop {
		m.messages = append(m.messages, "")
		return m, nil
	}

	m.messages = append(m.messages, "")
	m.history.AddPlayerAction(result.Text)
	m.loading = true
	m.animationFrame = 0
	m.messages = append(m.messages, loadingMarker)

	return m, tea.Batch(m.narrator.Start(m.ctx, result.Text, *m.state, m.history.GetEntries()), animationTimer())
}

func (m Model) logTurn(raw string, result directive.Result) {
	if m.turns == nil {
		return
	}
	kinds := make([]string, 0, len(result.Accepted))
	for _, k := range result.Accepted {
		kinds = append(kinds, k.String())
	}
	// Best effort logging - don't fail the turn if logging fails
	if err := m.turns.LogTurn(m.state.Turn, raw, result.Text, m.state.Message, result.Stop, kinds); err != nil {
		m.debug.Printf("Failed to log turn: %v", err)
	}
}
