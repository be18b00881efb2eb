package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/openai/openai-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStream struct {
	chunks []openai.ChatCompletionChunk
	pos    int
	err    error
	closed bool
}

func (f *fakeStream) Next() bool {
	if f.pos >= len(f.chunks) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeStream) Current() openai.ChatCompletionChunk { return f.chunks[f.pos-1] }
func (f *fakeStream) Err() error                          { return f.err }
func (f *fakeStream) Close() error                        { f.closed = true; return nil }

func chunk(text string) openai.ChatCompletionChunk {
	return openai.ChatCompletionChunk{
		Choices: []openai.ChatCompletionChunkChoice{
			{Delta: openai.ChatCompletionChunkChoiceDelta{Content: text}},
		},
	}
}

func collect(ch <-chan StreamChunk) []StreamChunk {
	var out []StreamChunk
	for c := range ch {
		out = append(out, c)
	}
	return out
}

func TestReadStreamChunks(t *testing.T) {
	stream := &fakeStream{chunks: []openai.ChatCompletionChunk{
		chunk("The door "),
		{},
		chunk(""),
		chunk("groans."),
	}}

	got := collect(ReadStreamChunks(context.Background(), stream, nil))

	require.Len(t, got, 3)
	assert.Equal(t, "The door ", got[0].Text)
	assert.Equal(t, "groans.", got[1].Text)
	assert.True(t, got[2].Done)
	assert.NoError(t, got[2].Error)
	assert.True(t, stream.closed)
}

func TestReadStreamChunks_ReaderExits(t *testing.T) {
	defer goleak.VerifyNone(t)

	stream := &fakeStream{chunks: []openai.ChatCompletionChunk{chunk("only")}}
	chunks := ReadStreamChunks(context.Background(), stream, nil)

	first := <-chunks
	assert.Equal(t, "only", first.Text)
	last := <-chunks
	assert.True(t, last.Done)
}

func TestReadStreamChunks_StopsWhenConsumerLeaves(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	stream := &fakeStream{chunks: []openai.ChatCompletionChunk{
		chunk("The "),
		chunk("rest "),
		chunk("never read."),
	}}
	chunks := ReadStreamChunks(ctx, stream, nil)

	first := <-chunks
	assert.Equal(t, "The ", first.Text)
	cancel()
}

func TestReadStreamChunks_Error(t *testing.T) {
	boom := errors.New("connection reset")
	stream := &fakeStream{chunks: []openai.ChatCompletionChunk{chunk("half")}, err: boom}

	got := collect(ReadStreamChunks(context.Background(), stream, nil))

	require.Len(t, got, 2)
	assert.True(t, got[1].Done)
	assert.ErrorIs(t, got[1].Error, boom)
}
