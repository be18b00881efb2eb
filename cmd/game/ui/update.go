package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"storyturn/internal/game/narration"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case *narration.StreamStartedMsg:
		return m.handleStreamStarted(msg)
	case narration.StreamChunkMsg:
		return m.handleStreamChunk(msg)
	case narration.StreamCompleteMsg:
		return m.handleStreamComplete(msg)
	case narration.StreamErrorMsg:
		return m.handleStreamError(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 6)
		return m, nil
	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			return m, animationTimer()
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

func (m Model) handleStreamStarted(msg *narration.StreamStartedMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		m.messages = m.messages[:len(m.messages)-1]
		m.streaming = true
		m.currentResponse = ""
		m.messages = append(m.messages, "")
	}
	return m, m.narrator.ReadNextChunk(msg, "")
}

func (m Model) handleStreamChunk(msg narration.StreamChunkMsg) (tea.Model, tea.Cmd) {
	if m.streaming {
		m.currentResponse += msg.Chunk
		if len(m.messages) > 0 {
			m.messages[len(m.messages)-1] = m.currentResponse
		}
	}
	return m, m.narrator.ReadNextChunk(msg.CompletionCtx, m.currentResponse)
}

func (m Model) handleStreamComplete(msg narration.StreamCompleteMsg) (tea.Model, tea.Cmd) {
	if m.streaming {
		m.streaming = false
		m.loading = false
		if msg.Response != "" {
			m.history.AddNarratorResponse(msg.Response)
		}
		m.debug.Printf("Narration finished in %v", msg.Elapsed)
		m.messages = append(m.messages, "")
	}
	return m, nil
}

func (m Model) handleStreamError(msg narration.StreamErrorMsg) (tea.Model, tea.Cmd) {
	if m.loading && !m.streaming {
		m.messages = m.messages[:len(m.messages)-1]
		m.messages = append(m.messages, "Error: "+msg.Err.Error())
		m.history.AddError(msg.Err)
		m.messages = append(m.messages, "")
		m.loading = false
	} else if m.streaming {
		m.streaming = false
		m.loading = false
		if len(m.messages) > 0 {
			m.messages[len(m.messages)-1] = "Error: " + msg.Err.Error()
		}
		m.history.AddError(msg.Err)
		m.messages = append(m.messages, "")
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		if msg.Paste {
			break
		}
		userInput := m.input.Value()
		if strings.TrimSpace(userInput) != "" && !m.loading {
			m.input.Reset()
			return m.submit(userInput)
		}
		return m, nil
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}
