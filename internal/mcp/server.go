package mcp

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"storyturn/internal/debug"
	"storyturn/internal/game"
	"storyturn/internal/game/directive"
	"storyturn/internal/logging"
	"storyturn/internal/storage"
)

const (
	serverName    = "storyturn"
	serverVersion = "v1.0.0"

	defaultSaveLimit = 20
)

// Server exposes turn processing over MCP so an external host can drive a
// session.
type Server struct {
	mcpServer *mcp.Server
	processor *directive.Processor
	state     *game.SessionState
	history   *game.History
	saves     *storage.SessionStore
	turns     *logging.TurnLogger
	debug     *debug.Logger

	// tool calls may be dispatched concurrently; the session is not
	mu sync.Mutex
}

type Deps struct {
	Processor *directive.Processor
	State     *game.SessionState
	History   *game.History
	Saves     *storage.SessionStore
	Turns     *logging.TurnLogger
	Debug     *debug.Logger
}

type ProcessTurnInput struct {
	Text string `json:"text" jsonschema:"raw player input, possibly containing directive lines"`
}

type ProcessTurnResult struct {
	Text        string   `json:"text" jsonschema:"input with accepted directive lines removed"`
	Stop        bool     `json:"stop" jsonschema:"true when nothing is left to narrate"`
	Message     string   `json:"message" jsonschema:"status message for the player"`
	Accepted    []string `json:"accepted" jsonschema:"accepted directive kinds"`
	Diagnostics []string `json:"diagnostics" jsonschema:"rejected directive reports"`
	Turn        int      `json:"turn" jsonschema:"turn counter after processing"`
}

type SessionResult struct {
	AuthorsNote        string            `json:"authors_note"`
	RawAuthorsNote     bool              `json:"raw_authors_note"`
	AuthorsNoteDepth   int               `json:"authors_note_depth"`
	AuthorsNoteDisplay bool              `json:"authors_note_display"`
	Placeholders       map[string]string `json:"placeholders"`
	Turn               int               `json:"turn"`
	History            []string          `json:"history"`
}

type ListSavesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of saves to return"`
}

type SaveEntry struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Turn        int    `json:"turn"`
	AuthorsNote string `json:"authors_note"`
}

type ListSavesResult struct {
	Saves []SaveEntry `json:"saves"`
}

func NewServer(deps Deps) *Server {
	s := &Server{
		mcpServer: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		processor: deps.Processor,
		state:     deps.State,
		history:   deps.History,
		saves:     deps.Saves,
		turns:     deps.Turns,
		debug:     deps.Debug,
	}

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "process_turn",
		Description: "Apply the directives in a player input and return the text to narrate",
	}, s.processTurn)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_session",
		Description: "Return the current session state and recent history",
	}, s.getSession)
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_saves",
		Description: "List saved sessions, newest first",
	}, s.listSaves)

	return s
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.serveWithTransport(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveWithTransport(ctx context.Context, transport mcp.Transport) error {
	err := s.mcpServer.Run(ctx, transport)
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

func (s *Server) processTurn(ctx context.Context, _ *mcp.CallToolRequest, input ProcessTurnInput) (*mcp.CallToolResult, ProcessTurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.processor.Process(ctx, input.Text, s.state, s.state.IsFirstTurn())

	accepted := make([]string, 0, len(result.Accepted))
	for _, kind := range result.Accepted {
		accepted = append(accepted, kind.String())
	}
	diagnostics := make([]string, 0, len(result.Diagnostics))
	for _, d := range result.Diagnostics {
		diagnostics = append(diagnostics, d.Error())
	}

	if s.turns != nil {
		if err := s.turns.LogTurn(s.state.Turn, input.Text, result.Text, s.state.Message, result.Stop, accepted); err != nil {
			s.debug.Printf("Failed to log turn: %v", err)
		}
	}
	if !result.Stop {
		s.history.AddPlayerAction(result.Text)
	}
	s.state.Turn++

	return nil, ProcessTurnResult{
		Text:        result.Text,
		Stop:        result.Stop,
		Message:     s.state.Message,
		Accepted:    accepted,
		Diagnostics: diagnostics,
		Turn:        s.state.Turn,
	}, nil
}

func (s *Server) getSession(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, SessionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	placeholders := make(map[string]string, len(s.state.Placeholders))
	for k, v := range s.state.Placeholders {
		placeholders[k] = v
	}

	return nil, SessionResult{
		AuthorsNote:        s.state.AuthorsNote,
		RawAuthorsNote:     s.state.RawAuthorsNote,
		AuthorsNoteDepth:   s.state.AuthorsNoteDepth,
		AuthorsNoteDisplay: s.state.AuthorsNoteDisplay,
		Placeholders:       placeholders,
		Turn:               s.state.Turn,
		History:            s.history.GetEntries(),
	}, nil
}

func (s *Server) listSaves(_ context.Context, _ *mcp.CallToolRequest, input ListSavesInput) (*mcp.CallToolResult, ListSavesResult, error) {
	if s.saves == nil {
		return nil, ListSavesResult{}, fmt.Errorf("save storage is not configured")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultSaveLimit
	}

	records, err := s.saves.List(limit)
	if err != nil {
		return nil, ListSavesResult{}, fmt.Errorf("list saves: %w", err)
	}

	entries := make([]SaveEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, SaveEntry{
			ID:          r.ID,
			CreatedAt:   r.CreatedAt.Format(time.RFC3339),
			Turn:        r.Turn,
			AuthorsNote: r.Note,
		})
	}
	return nil, ListSavesResult{Saves: entries}, nil
}
