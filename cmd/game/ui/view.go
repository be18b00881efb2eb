package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	inputHeight := m.input.Height() + 2
	statusHeight := 1
	chatHeight := m.height - inputHeight - statusHeight
	rightWidth := m.width

	messageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("7"))

	userStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1).
		Width(m.width - 4)

	chatPanel := lipgloss.NewStyle().
		Width(rightWidth).
		Height(chatHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(1)

	var chatContent strings.Builder

	visibleMessages := m.messages
	maxMessages := chatHeight - 2
	if maxMessages < 1 {
		maxMessages = 1
	}

	if len(visibleMessages) > maxMessages {
		visibleMessages = visibleMessages[len(visibleMessages)-maxMessages:]
	}

	for i := 0; i < maxMessages-len(visibleMessages); i++ {
		chatContent.WriteString("\n")
	}

	debugStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	loadingStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("6"))

	contentWidth := rightWidth - 4

	for _, message := range visibleMessages {
		switch {
		case message == "":
			chatContent.WriteString("\n")
		case strings.HasPrefix(message, "> "):
			chatContent.WriteString(userStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "[DEBUG] "):
			chatContent.WriteString(debugStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case strings.HasPrefix(message, "[!] "):
			chatContent.WriteString(warningStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		case message == loadingMarker:
			animationText := getLoadingAnimation(m.animationFrame)
			chatContent.WriteString(loadingStyle.Render(wrapAndIndent(animationText, contentWidth, " ")) + "\n")
		default:
			chatContent.WriteString(messageStyle.Render(wrapAndIndent(message, contentWidth, " ")) + "\n")
		}
	}

	chat := chatPanel.Render(chatContent.String())
	status := m.status.View(m.width)
	input := inputStyle.Render(m.input.View())

	return chat + "\n" + status + "\n" + input
}

func wrapAndIndent(text string, width int, indent string) string {
	if len(text) <= width {
		return indent + text
	}

	var result strings.Builder
	words := strings.Fields(text)
	if len(words) == 0 {
		return indent + text
	}

	currentLine := indent + words[0]

	for _, word := range words[1:] {
		if len(currentLine)+1+len(word) <= width {
			currentLine += " " + word
		} else {
			result.WriteString(currentLine + "\n")
			currentLine = indent + word
		}
	}

	result.WriteString(currentLine)
	return result.String()
}

func getLoadingAnimation(frame int) string {
	arc := []string{"◜", "◠", "◝", "◞", "◡", "◟"}
	return arc[frame%len(arc)]
}
