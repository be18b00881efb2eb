package narration

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyturn/internal/llm"
)

func feed(chunks ...llm.StreamChunk) *StreamStartedMsg {
	ch := make(chan llm.StreamChunk, len(chunks))
	for _, c := range chunks {
		ch <- c
	}
	close(ch)
	return &StreamStartedMsg{Chunks: ch, UserInput: "look", StartTime: time.Now()}
}

func TestReadNextChunk(t *testing.T) {
	n := &Narrator{}
	started := feed(llm.StreamChunk{Text: "Rain "}, llm.StreamChunk{Done: true})

	msg := n.ReadNextChunk(started, "")()
	chunk, ok := msg.(StreamChunkMsg)
	require.True(t, ok)
	assert.Equal(t, "Rain ", chunk.Chunk)
	assert.Same(t, started, chunk.CompletionCtx)

	msg = n.ReadNextChunk(started, "Rain falls.")()
	complete, ok := msg.(StreamCompleteMsg)
	require.True(t, ok)
	assert.Equal(t, "Rain falls.", complete.Response)
	assert.Equal(t, "look", complete.UserInput)
}

func TestReadNextChunk_Error(t *testing.T) {
	n := &Narrator{}
	boom := errors.New("reset")
	started := feed(llm.StreamChunk{Error: boom, Done: true})

	msg := n.ReadNextChunk(started, "partial")()
	streamErr, ok := msg.(StreamErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, streamErr.Err, boom)
	assert.Equal(t, "partial", streamErr.Response)
}
