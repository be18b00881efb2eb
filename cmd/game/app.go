package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"storyturn/cmd/game/ui"
	"storyturn/internal/config"
	"storyturn/internal/debug"
	"storyturn/internal/game"
	"storyturn/internal/game/directive"
	"storyturn/internal/game/narration"
	"storyturn/internal/game/placeholders"
	"storyturn/internal/llm"
	"storyturn/internal/logging"
	"storyturn/internal/mcp"
	"storyturn/internal/observability"
	"storyturn/internal/storage"
)

// app holds the infrastructure shared by every command.
type app struct {
	cfg     config.Config
	debug   *debug.Logger
	tracer  *observability.TracerProvider
	db      *sql.DB
	state   *game.SessionState
	history *game.History
	saves   *storage.SessionStore
	turns   *logging.TurnLogger
}

func createApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	debugLogger := debug.NewLogger(cfg.Debug, cfg.DebugLogPath)

	tracerProvider, err := observability.InitTracing(ctx, cfg.Tracing)
	if err != nil {
		debugLogger.Printf("Failed to initialize tracing: %v", err)
	} else if tracerProvider.IsEnabled() {
		debugLogger.Println("OpenTelemetry tracing initialized and enabled")
	} else {
		debugLogger.Println("OpenTelemetry tracing disabled (set OTEL_TRACES_ENABLED=true to enable)")
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	history := game.NewHistory(cfg.HistorySize)
	saves, err := storage.NewSessionStore(db, history)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize save storage: %w", err)
	}
	turns, err := logging.NewTurnLogger(db)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize turn logger: %w", err)
	}

	return &app{
		cfg:     cfg,
		debug:   debugLogger,
		tracer:  tracerProvider,
		db:      db,
		state:   game.NewSessionState(cfg.NoteDepth, cfg.NoteDisplay),
		history: history,
		saves:   saves,
		turns:   turns,
	}, nil
}

func (a *app) newProcessor(display directive.Display) *directive.Processor {
	return directive.NewProcessor(directive.Collaborators{
		Extractor: placeholders.NewExtractor(a.state),
		Store:     a.saves,
		Display:   display,
		Reporter:  a.debug,
	})
}

// newPlayModel wires the interactive session. A fresh session id tags every
// span of this run.
func (a *app) newPlayModel(ctx context.Context) (ui.Model, error) {
	if err := a.cfg.RequireAPIKey(); err != nil {
		return ui.Model{}, err
	}

	sessionID := uuid.NewString()
	ctx = observability.WithSessionID(ctx, sessionID)
	a.debug.Printf("Starting session %s", sessionID)

	llmService := llm.NewService(a.cfg.OpenAIAPIKey, a.cfg.Model, a.debug)
	status := ui.NewStatusPanel(a.cfg.GaugeLimit)

	return ui.NewModel(ctx, ui.Deps{
		State:     a.state,
		History:   a.history,
		Processor: a.newProcessor(status),
		Narrator:  narration.NewNarrator(llmService, a.turns, a.debug),
		Status:    status,
		Turns:     a.turns,
		Debug:     a.debug,
	}), nil
}

func (a *app) newMCPServer() *mcp.Server {
	return mcp.NewServer(mcp.Deps{
		Processor: a.newProcessor(nil),
		State:     a.state,
		History:   a.history,
		Saves:     a.saves,
		Turns:     a.turns,
		Debug:     a.debug,
	})
}

func (a *app) Close() {
	if a.tracer != nil {
		a.tracer.Shutdown(context.Background())
	}
	a.db.Close()
	a.debug.Sync()
}
