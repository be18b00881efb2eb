package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"storyturn/internal/config"
)

func TestInitTracing_Disabled(t *testing.T) {
	tp, err := InitTracing(context.Background(), config.TracingConfig{})
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.NoError(t, tp.Shutdown(context.Background()))

	_, span := tp.GetTracer("test").Start(context.Background(), "noop")
	assert.False(t, span.SpanContext().IsValid())
	span.End()
}

func TestSessionInjector_TagsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSpanProcessor(recorder),
	)
	defer tp.Shutdown(context.Background())

	ctx := WithSessionID(context.Background(), "session-42")
	_, span := tp.Tracer("test").Start(ctx, "turn")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("session.id", "session-42"))
	assert.Equal(t, "session-42", GetSessionIDFromContext(ctx))
}

func TestCreateGenAIAttributes(t *testing.T) {
	attrs := CreateGenAIAttributes("openai", "gpt", 10, 0, -1)

	assert.Contains(t, attrs, attribute.String("gen_ai.request.model", "gpt"))
	assert.Contains(t, attrs, attribute.Int("gen_ai.usage.input_tokens", 10))
	assert.Len(t, attrs, 4)
}
