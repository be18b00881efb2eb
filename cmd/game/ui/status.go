package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"storyturn/internal/game"
)

const gaugeWidth = 20

// StatusPanel is the processor's display: a length gauge for the last
// narrated input and the session status message.
type StatusPanel struct {
	limit   int
	length  int
	message string
	depth   int
}

func NewStatusPanel(limit int) *StatusPanel {
	return &StatusPanel{limit: limit}
}

func (s *StatusPanel) UpdateGauge(text string) {
	s.length = utf8.RuneCountInString(text)
}

func (s *StatusPanel) UpdateDisplay(state *game.SessionState) {
	s.message = state.Message
	s.depth = state.AuthorsNoteDepth
}

func (s *StatusPanel) Message() string {
	return s.message
}

func (s *StatusPanel) gauge() string {
	if s.limit <= 0 {
		return ""
	}
	filled := s.length * gaugeWidth / s.limit
	if filled > gaugeWidth {
		filled = gaugeWidth
	}

	color := lipgloss.Color("10")
	if s.length > s.limit {
		color = lipgloss.Color("9")
	}
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(strings.Repeat("░", gaugeWidth-filled))

	return fmt.Sprintf("%s %d/%d", bar, s.length, s.limit)
}

func (s *StatusPanel) View(width int) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("13")).
		Width(width).
		Padding(0, 1)

	parts := []string{}
	if g := s.gauge(); g != "" {
		parts = append(parts, g)
	}
	if s.message != "" {
		parts = append(parts, strings.ReplaceAll(s.message, "\n", " | "))
	}
	return style.Render(strings.Join(parts, "  "))
}
