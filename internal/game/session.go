package game

const (
	DefaultAuthorsNoteDepth = 3
	MinAuthorsNoteDepth     = 1
	MaxAuthorsNoteDepth     = 10 // exclusive
)

// SessionState is the mutable state shared by every turn of a session.
// Only the directive processor and the save/load store write to it.
type SessionState struct {
	AuthorsNote        string            `json:"authors_note" yaml:"authors_note"`
	RawAuthorsNote     bool              `json:"raw_authors_note" yaml:"raw_authors_note"`
	AuthorsNoteDepth   int               `json:"authors_note_depth" yaml:"authors_note_depth"`
	AuthorsNoteDisplay bool              `json:"authors_note_display" yaml:"authors_note_display"`
	Placeholders       map[string]string `json:"placeholders,omitempty" yaml:"placeholders,omitempty"`
	Turn               int               `json:"turn" yaml:"turn"`

	// Message is recomputed every turn and never persisted.
	Message string `json:"-" yaml:"-"`
}

func NewSessionState(depth int, display bool) *SessionState {
	if !ValidAuthorsNoteDepth(depth) {
		depth = DefaultAuthorsNoteDepth
	}
	return &SessionState{
		AuthorsNoteDepth:   depth,
		AuthorsNoteDisplay: display,
		Placeholders:       map[string]string{},
	}
}

func ValidAuthorsNoteDepth(depth int) bool {
	return depth >= MinAuthorsNoteDepth && depth < MaxAuthorsNoteDepth
}

// IsFirstTurn reports whether no turn has been processed yet.
func (s *SessionState) IsFirstTurn() bool {
	return s.Turn < 1
}

// HasActiveNote reports whether the author's note should be injected into context.
func (s *SessionState) HasActiveNote() bool {
	return s.AuthorsNote != "" && s.AuthorsNoteDepth >= MinAuthorsNoteDepth
}

// Restore copies persisted fields from other, leaving Message untouched.
func (s *SessionState) Restore(other SessionState) {
	message := s.Message
	*s = other
	s.Message = message
	if s.Placeholders == nil {
		s.Placeholders = map[string]string{}
	}
}
