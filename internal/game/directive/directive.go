// Package directive interprets command lines embedded in a player's turn
// submission, applies them to the session state and strips them from the
// text that is handed to the narrator.
package directive

import (
	"errors"
	"strings"
)

// Kind identifies one directive grammar.
type Kind int

const (
	KindAuthorsNote Kind = iota
	KindAuthorsNoteDepth
	KindAuthorsNoteDisplay
	KindSave
	KindLoad
	kindCount
)

const (
	authorsNotePrefix        = "/an "
	authorsNoteDepthPrefix   = "/and "
	authorsNoteDisplayPrefix = "/anv"
	savePrefix               = "/save"
	loadPrefix               = "/load "

	rawNotePrefix = "-r "
)

// LoadNotice is appended to the turn text when a session is loaded.
const LoadNotice = "With a simple gesture, you trigger the memories stored deep within her mind."

const loadedMessage = "Game loaded!\n"

var kindNames = [kindCount]string{
	KindAuthorsNote:        "authors_note",
	KindAuthorsNoteDepth:   "authors_note_depth",
	KindAuthorsNoteDisplay: "authors_note_display",
	KindSave:               "save",
	KindLoad:               "load",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// classify returns the directive kind for line. Prefixes are tested in a
// fixed order and the first match wins.
func classify(line string) (Kind, bool) {
	switch {
	case strings.HasPrefix(line, authorsNotePrefix):
		return KindAuthorsNote, true
	case strings.HasPrefix(line, authorsNoteDepthPrefix):
		return KindAuthorsNoteDepth, true
	case strings.HasPrefix(line, authorsNoteDisplayPrefix):
		return KindAuthorsNoteDisplay, true
	case strings.HasPrefix(line, savePrefix):
		return KindSave, true
	case strings.HasPrefix(line, loadPrefix):
		return KindLoad, true
	}
	return 0, false
}

// payload splits line on prefix and returns the single segment after it.
// A line containing the prefix more than once has no valid payload.
func payload(line, prefix string) (string, bool) {
	parts := strings.Split(line, prefix)
	if len(parts) != 2 {
		return "", false
	}
	return parts[1], true
}

var (
	ErrMalformedDirective = errors.New("malformed directive")
	ErrInvalidValue       = errors.New("invalid directive value")
	ErrDuplicateDirective = errors.New("duplicate directive")
)

// DirectiveError describes a directive line that was rejected and left in the text.
type DirectiveError struct {
	Kind  Kind
	Index int
	Line  string
	Raw   bool
	Err   error
}

func (e *DirectiveError) Error() string {
	switch e.Kind {
	case KindAuthorsNote:
		if e.Raw {
			return "Invalid Raw Author's Note passed: " + e.Line
		}
		return "Invalid Author's Note passed: " + e.Line
	case KindAuthorsNoteDepth:
		return "Invalid Author's Note Depth passed: " + e.Line
	case KindAuthorsNoteDisplay:
		return "Invalid Author's Note Display passed: " + e.Line
	case KindSave:
		return "Only one save game command allowed per input."
	case KindLoad:
		return "Invalid Load Game command passed."
	}
	return e.Err.Error() + ": " + e.Line
}

func (e *DirectiveError) Unwrap() error {
	return e.Err
}
