package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"

	"storyturn/internal/debug"
)

// ChunkStream is the subset of the SSE stream the chunk reader consumes.
type ChunkStream interface {
	Next() bool
	Current() openai.ChatCompletionChunk
	Err() error
	Close() error
}

var _ ChunkStream = (*ssestream.Stream[openai.ChatCompletionChunk])(nil)

type StreamChunk struct {
	Text  string
	Error error
	Done  bool
}

// ReadStreamChunks drains stream on a goroutine. The final value always has
// Done set, carrying the stream error if there was one. Cancelling ctx stops
// the reader even when nobody is receiving.
func ReadStreamChunks(ctx context.Context, stream ChunkStream, log *debug.Logger) <-chan StreamChunk {
	chunks := make(chan StreamChunk)

	send := func(chunk StreamChunk) bool {
		select {
		case chunks <- chunk:
			return true
		case <-ctx.Done():
			log.Printf("Stream abandoned: %v", ctx.Err())
			return false
		}
	}

	go func() {
		defer close(chunks)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				log.Printf("Stream chunk: %q", delta)
				if !send(StreamChunk{Text: delta}) {
					return
				}
			}
		}

		if err := stream.Err(); err != nil {
			log.Printf("Stream error: %v", err)
			send(StreamChunk{Error: err, Done: true})
			return
		}

		log.Println("Stream finished")
		send(StreamChunk{Done: true})
	}()

	return chunks
}
