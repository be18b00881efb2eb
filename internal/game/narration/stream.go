package narration

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"storyturn/internal/debug"
	"storyturn/internal/game"
	"storyturn/internal/llm"
	"storyturn/internal/logging"
)

const narrationMaxTokens = 200

// Narrator streams story continuations for cleaned player input.
type Narrator struct {
	llm    *llm.Service
	logger *logging.TurnLogger
	debug  *debug.Logger
}

func NewNarrator(llmService *llm.Service, logger *logging.TurnLogger, debug *debug.Logger) *Narrator {
	return &Narrator{llm: llmService, logger: logger, debug: debug}
}

// StreamStartedMsg represents a started narration stream
type StreamStartedMsg struct {
	Chunks       <-chan llm.StreamChunk
	State        game.SessionState
	UserInput    string
	SystemPrompt string
	StartTime    time.Time
}

// StreamChunkMsg represents a chunk from the narration stream
type StreamChunkMsg struct {
	Chunk         string
	CompletionCtx *StreamStartedMsg
}

// StreamCompleteMsg represents completion of narration stream
type StreamCompleteMsg struct {
	UserInput string
	Response  string
	Elapsed   time.Duration
}

// StreamErrorMsg represents a streaming error
type StreamErrorMsg struct {
	Response string
	Err      error
}

// Start initiates a streaming narration response. The state is copied so
// later directives do not change what gets logged for this completion.
func (n *Narrator) Start(ctx context.Context, userInput string, state game.SessionState, gameHistory []string) tea.Cmd {
	return func() tea.Msg {
		n.debug.Printf("Starting LLM stream with input: %q", userInput)

		startTime := time.Now()
		systemPrompt := buildNarrationPrompt()
		req := llm.StreamCompletionRequest{
			SystemPrompt: systemPrompt,
			UserPrompt:   BuildUserPrompt(state, gameHistory, userInput),
			MaxTokens:    narrationMaxTokens,
		}

		stream, err := n.llm.CompleteStream(llm.WithOperationType(ctx, "narration.stream"), req)
		if err != nil {
			n.debug.Printf("Stream creation error: %v", err)
			return StreamErrorMsg{Err: err}
		}

		return &StreamStartedMsg{
			Chunks:       llm.ReadStreamChunks(ctx, stream, n.debug),
			State:        state,
			UserInput:    userInput,
			SystemPrompt: systemPrompt,
			StartTime:    startTime,
		}
	}
}

// ReadNextChunk reads the next chunk from the narration stream
func (n *Narrator) ReadNextChunk(completionCtx *StreamStartedMsg, fullResponse string) tea.Cmd {
	return func() tea.Msg {
		chunk, ok := <-completionCtx.Chunks
		if ok && !chunk.Done {
			return StreamChunkMsg{Chunk: chunk.Text, CompletionCtx: completionCtx}
		}
		if ok && chunk.Error != nil {
			return StreamErrorMsg{Response: fullResponse, Err: chunk.Error}
		}

		elapsed := time.Since(completionCtx.StartTime)
		n.logCompletion(completionCtx, fullResponse, elapsed)

		return StreamCompleteMsg{
			UserInput: completionCtx.UserInput,
			Response:  fullResponse,
			Elapsed:   elapsed,
		}
	}
}

func (n *Narrator) logCompletion(completionCtx *StreamStartedMsg, response string, elapsed time.Duration) {
	if n.logger == nil {
		return
	}
	metadata := logging.CompletionMetadata{
		Model:         n.llm.Model(),
		MaxTokens:     narrationMaxTokens,
		ResponseTime:  elapsed,
		StreamingUsed: true,
	}
	err := n.logger.LogCompletion(completionCtx.State, completionCtx.UserInput, completionCtx.SystemPrompt, response, metadata)
	if err != nil {
		n.debug.Printf("Failed to log completion: %v", err)
	}
}
