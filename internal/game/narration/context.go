package narration

import (
	"fmt"
	"strings"

	"storyturn/internal/game"
	"storyturn/internal/game/placeholders"
)

// FormatAuthorsNote renders the note the way it is injected into context.
// Raw notes are used verbatim; ${name} tokens are filled in either way.
func FormatAuthorsNote(state game.SessionState) string {
	note := placeholders.Fill(state.AuthorsNote, state.Placeholders)
	if state.RawAuthorsNote {
		return note
	}
	return fmt.Sprintf("[Author's note: %s]", note)
}

// InjectAuthorsNote returns a copy of entries with the note inserted
// AuthorsNoteDepth entries from the end. Shorter histories get it first.
func InjectAuthorsNote(entries []string, state game.SessionState) []string {
	out := make([]string, 0, len(entries)+1)
	if !state.HasActiveNote() {
		return append(out, entries...)
	}

	pos := len(entries) - state.AuthorsNoteDepth
	if pos < 0 {
		pos = 0
	}
	out = append(out, entries[:pos]...)
	out = append(out, FormatAuthorsNote(state))
	return append(out, entries[pos:]...)
}

// BuildContext creates the story context sent to the narrator along with the
// player's cleaned input.
func BuildContext(state game.SessionState, gameHistory []string) string {
	var context strings.Builder

	if len(state.Placeholders) > 0 {
		context.WriteString("STORY DETAILS:\n")
		for _, name := range sortedKeys(state.Placeholders) {
			context.WriteString(fmt.Sprintf("%s: %s\n", name, state.Placeholders[name]))
		}
		context.WriteString("\n")
	}

	entries := InjectAuthorsNote(gameHistory, state)
	if len(entries) > 0 {
		context.WriteString("RECENT STORY:\n")
		for _, entry := range entries {
			context.WriteString(entry + "\n")
		}
		context.WriteString("\n")
	}

	return context.String()
}

// BuildUserPrompt is the narrator's user message for one turn. Placeholders
// recorded on the first turn are substituted into later input.
func BuildUserPrompt(state game.SessionState, gameHistory []string, userInput string) string {
	return BuildContext(state, gameHistory) + "PLAYER ACTION: " + placeholders.Fill(userInput, state.Placeholders)
}
