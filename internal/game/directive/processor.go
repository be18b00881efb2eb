package directive

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storyturn/internal/game"
)

// Result is the outcome of one turn. Stop means the text reduced to nothing
// and generation should be skipped.
type Result struct {
	Text        string
	Stop        bool
	Accepted    []Kind
	Diagnostics []*DirectiveError
}

type Processor struct {
	extractor PlaceholderExtractor
	store     SessionStore
	display   Display
	reporter  Reporter
	tracer    trace.Tracer
}

func NewProcessor(c Collaborators) *Processor {
	c = c.withDefaults()
	return &Processor{
		extractor: c.Extractor,
		store:     c.Store,
		display:   c.Display,
		reporter:  c.Reporter,
		tracer:    otel.Tracer("directive"),
	}
}

// turn carries the per-invocation bookkeeping: one accepted line index per
// directive kind, -1 while nothing of that kind has been accepted.
type turn struct {
	state       *game.SessionState
	lines       []string
	accepted    [kindCount]int
	diagnostics []*DirectiveError
}

// Process interprets the directives in text, mutates state and returns the
// text that should be narrated.
func (p *Processor) Process(ctx context.Context, text string, state *game.SessionState, firstTurn bool) Result {
	_, span := p.tracer.Start(ctx, "directive.process")
	defer span.End()

	if firstTurn {
		text = p.extractor.ExtractPlaceholders(text)
	}

	t := &turn{state: state, lines: strings.Split(text, "\n")}
	for i := range t.accepted {
		t.accepted[i] = -1
	}

	// Lines appended while scanning (the load notice) are never classified.
	n := len(t.lines)
	for index := 0; index < n; index++ {
		line := t.lines[index]
		kind, ok := classify(line)
		if !ok {
			continue
		}
		if err := p.apply(t, kind, index, line); err != nil {
			t.diagnostics = append(t.diagnostics, err)
			p.reporter.Report(err.Error())
		}
	}

	accepted := t.removeAccepted()
	p.synthesizeMessage(t)

	cleaned := strings.Join(t.lines, "\n")
	if !firstTurn {
		p.display.UpdateGauge(cleaned)
	}
	p.display.UpdateDisplay(state)

	span.SetAttributes(
		attribute.Int("directive.accepted", len(accepted)),
		attribute.Int("directive.rejected", len(t.diagnostics)),
		attribute.Int("directive.text_length", len(cleaned)),
	)

	result := Result{Text: cleaned, Accepted: accepted, Diagnostics: t.diagnostics}
	if len(cleaned) == 0 {
		result.Text = ""
		result.Stop = true
	}
	span.SetAttributes(attribute.Bool("directive.stop", result.Stop))
	return result
}

func (p *Processor) apply(t *turn, kind Kind, index int, line string) *DirectiveError {
	reject := func(err error) *DirectiveError {
		return &DirectiveError{Kind: kind, Index: index, Line: line, Err: err}
	}
	if t.accepted[kind] >= 0 {
		return reject(ErrDuplicateDirective)
	}

	switch kind {
	case KindAuthorsNote:
		note, ok := payload(line, authorsNotePrefix)
		if !ok {
			return reject(ErrMalformedDirective)
		}
		if strings.HasPrefix(note, rawNotePrefix) {
			if len(note) <= len(rawNotePrefix) {
				e := reject(ErrInvalidValue)
				e.Raw = true
				return e
			}
			t.state.RawAuthorsNote = true
			t.state.AuthorsNote = note[len(rawNotePrefix):]
		} else {
			if note == "" {
				return reject(ErrInvalidValue)
			}
			t.state.RawAuthorsNote = false
			t.state.AuthorsNote = note
		}

	case KindAuthorsNoteDepth:
		value, ok := payload(line, authorsNoteDepthPrefix)
		if !ok {
			return reject(ErrMalformedDirective)
		}
		depth, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || !game.ValidAuthorsNoteDepth(depth) {
			return reject(ErrInvalidValue)
		}
		t.state.AuthorsNoteDepth = depth

	case KindAuthorsNoteDisplay:
		t.state.AuthorsNoteDisplay = !t.state.AuthorsNoteDisplay

	case KindSave:
		if err := p.store.Save(t.state); err != nil {
			p.reporter.Report(fmt.Sprintf("failed to save session: %v", err))
		}

	case KindLoad:
		value, ok := payload(line, loadPrefix)
		if !ok {
			return reject(ErrMalformedDirective)
		}
		id := strings.TrimSpace(value)
		if id == "" {
			return reject(ErrMalformedDirective)
		}
		if err := p.store.Load(id, t.state); err != nil {
			p.reporter.Report(fmt.Sprintf("failed to load session %q: %v", id, err))
		}
		t.lines = append(t.lines, LoadNotice)
	}

	t.accepted[kind] = index
	return nil
}

// removeAccepted deletes accepted directive lines from the highest index
// down so pending indices never shift. It returns the accepted kinds.
func (t *turn) removeAccepted() []Kind {
	var kinds []Kind
	var indexes []int
	for kind, index := range t.accepted {
		if index >= 0 {
			kinds = append(kinds, Kind(kind))
			indexes = append(indexes, index)
		}
	}

	slices.Sort(indexes)
	for i := len(indexes) - 1; i >= 0; i-- {
		t.lines = slices.Delete(t.lines, indexes[i], indexes[i]+1)
	}
	return kinds
}

func (p *Processor) synthesizeMessage(t *turn) {
	state := t.state
	switch {
	case t.accepted[KindSave] >= 0:
		// the store owns the message after a save
	case state.HasActiveNote() && state.AuthorsNoteDisplay:
		var b strings.Builder
		if t.accepted[KindLoad] >= 0 {
			b.WriteString(loadedMessage)
		}
		if state.RawAuthorsNote {
			b.WriteString("Raw ")
		}
		fmt.Fprintf(&b, "Author's Note (%d): %s", state.AuthorsNoteDepth, state.AuthorsNote)
		state.Message = b.String()
	default:
		state.Message = ""
	}
}
