package directive

import "storyturn/internal/game"

// PlaceholderExtractor rewrites the very first submission of a session.
type PlaceholderExtractor interface {
	ExtractPlaceholders(text string) string
}

// SessionStore persists and restores sessions. Save is expected to set
// state.Message itself; the processor never overrides it.
type SessionStore interface {
	Save(state *game.SessionState) error
	Load(id string, state *game.SessionState) error
}

// Display receives the finalized turn text and state.
type Display interface {
	UpdateGauge(text string)
	UpdateDisplay(state *game.SessionState)
}

// Reporter receives a line for every rejected directive.
type Reporter interface {
	Report(message string)
}

type Collaborators struct {
	Extractor PlaceholderExtractor
	Store     SessionStore
	Display   Display
	Reporter  Reporter
}

type nopExtractor struct{}

func (nopExtractor) ExtractPlaceholders(text string) string { return text }

type nopStore struct{}

// Save clears the message since nothing else will set it for this turn.
func (nopStore) Save(state *game.SessionState) error {
	state.Message = ""
	return nil
}

func (nopStore) Load(string, *game.SessionState) error { return nil }

type nopDisplay struct{}

func (nopDisplay) UpdateGauge(string)                {}
func (nopDisplay) UpdateDisplay(*game.SessionState) {}

type nopReporter struct{}

func (nopReporter) Report(string) {}

func (c Collaborators) withDefaults() Collaborators {
	if c.Extractor == nil {
		c.Extractor = nopExtractor{}
	}
	if c.Store == nil {
		c.Store = nopStore{}
	}
	if c.Display == nil {
		c.Display = nopDisplay{}
	}
	if c.Reporter == nil {
		c.Reporter = nopReporter{}
	}
	return c
}
