package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"storyturn/internal/debug"
	"storyturn/internal/game"
	"storyturn/internal/game/directive"
	"storyturn/internal/game/narration"
	"storyturn/internal/logging"
)

const loadingMarker = "LOADING_ANIMATION"

type Model struct {
	messages        []string
	input           textarea.Model
	width           int
	height          int
	loading         bool
	streaming       bool
	currentResponse string
	animationFrame  int

	ctx       context.Context
	state     *game.SessionState
	history   *game.History
	processor *directive.Processor
	narrator  *narration.Narrator
	status    *StatusPanel
	turns     *logging.TurnLogger
	debug     *debug.Logger
}

// Deps are the collaborators a play session is wired with. Status must be
// the same panel the processor reports to.
type Deps struct {
	State     *game.SessionState
	History   *game.History
	Processor *directive.Processor
	Narrator  *narration.Narrator
	Status    *StatusPanel
	Turns     *logging.TurnLogger
	Debug     *debug.Logger
}

func NewModel(ctx context.Context, deps Deps) Model {
	messages := []string{}
	if deps.Debug.IsEnabled() {
		messages = append(messages, "[DEBUG] Directives: /an <note>, /an -r <note>, /and <1-9>, /anv, /save, /load <id>")
		messages = append(messages, "")
	}

	input := textarea.New()
	input.Placeholder = "What do you do? (Enter to send, Alt+Enter for newline, Ctrl+C to exit)"
	input.Prompt = ""
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(80)
	input.SetHeight(3)
	input.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter", "ctrl+j"))
	input.Focus()

	status := deps.Status
	if status == nil {
		status = NewStatusPanel(0)
	}

	return Model{
		messages:  messages,
		input:     input,
		ctx:       ctx,
		state:     deps.State,
		history:   deps.History,
		processor: deps.Processor,
		narrator:  deps.Narrator,
		status:    status,
		turns:     deps.Turns,
		debug:     deps.Debug,
	}
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

type animationTickMsg struct{}
