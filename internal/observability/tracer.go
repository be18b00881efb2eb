package observability

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"storyturn/internal/config"
)

const (
	ServiceName    = "storyturn"
	ServiceVersion = "1.0.0"
)

// TracerProvider wraps the OpenTelemetry tracer provider with cleanup
type TracerProvider struct {
	provider *sdktrace.TracerProvider
	enabled  bool
}

// InitTracing initializes OpenTelemetry tracing with Langfuse export
func InitTracing(ctx context.Context, cfg config.TracingConfig) (*TracerProvider, error) {
	if !cfg.Enabled {
		return &TracerProvider{enabled: false}, nil
	}

	exporter, err := createLangfuseExporter(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Langfuse exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter,
			sdktrace.WithBatchTimeout(5*time.Second),
			sdktrace.WithMaxExportBatchSize(100),
		),
		sdktrace.WithResource(createResource(cfg)),
		sdktrace.WithSpanProcessor(sessionInjector{}),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)

	return &TracerProvider{
		provider: tp,
		enabled:  true,
	}, nil
}

// GetTracer returns a tracer for the given name
func (tp *TracerProvider) GetTracer(name string, options ...trace.TracerOption) trace.Tracer {
	if !tp.enabled {
		return noop.NewTracerProvider().Tracer(name, options...)
	}
	return otel.Tracer(name, options...)
}

// Shutdown gracefully shuts down the tracer provider
func (tp *TracerProvider) Shutdown(ctx context.Context) error {
	if tp == nil || !tp.enabled || tp.provider == nil {
		return nil
	}
	return tp.provider.Shutdown(ctx)
}

func (tp *TracerProvider) IsEnabled() bool {
	return tp != nil && tp.enabled
}

func createLangfuseExporter(ctx context.Context, cfg config.TracingConfig) (sdktrace.SpanExporter, error) {
	auth := base64.StdEncoding.EncodeToString([]byte(cfg.PublicKey + ":" + cfg.SecretKey))

	host := strings.TrimSuffix(cfg.LangfuseHost, "/")
	endpoint := fmt.Sprintf("%s/api/public/otel/v1/traces", host)

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
		otlptracehttp.WithHeaders(map[string]string{
			"Authorization": "Basic " + auth,
		}),
		otlptracehttp.WithCompression(otlptracehttp.GzipCompression),
		otlptracehttp.WithTimeout(30*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP HTTP exporter: %w", err)
	}

	return exporter, nil
}

func createResource(cfg config.TracingConfig) *resource.Resource {
	return resource.NewWithAttributes(
		"",
		semconv.ServiceName(ServiceName),
		semconv.ServiceVersion(ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)
}

// CreateGenAIAttributes creates GenAI semantic convention attributes for LLM spans.
// A negative temperature is omitted.
func CreateGenAIAttributes(system, model string, inputTokens, outputTokens int, temperature float64) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("gen_ai.operation.name", "chat"),
		attribute.String("gen_ai.system", system),
		attribute.String("gen_ai.request.model", model),
	}

	if inputTokens > 0 {
		attrs = append(attrs, attribute.Int("gen_ai.usage.input_tokens", inputTokens))
	}
	if outputTokens > 0 {
		attrs = append(attrs, attribute.Int("gen_ai.usage.output_tokens", outputTokens))
	}
	if temperature >= 0 {
		attrs = append(attrs, attribute.Float64("gen_ai.request.temperature", temperature))
	}

	return attrs
}

type sessionInjector struct{}

func (sessionInjector) OnStart(ctx context.Context, s sdktrace.ReadWriteSpan) {
	if sid := GetSessionIDFromContext(ctx); sid != "" {
		s.SetAttributes(
			attribute.String("langfuse.session.id", sid),
			attribute.String("session.id", sid),
		)
	}
}

func (sessionInjector) OnEnd(sdktrace.ReadOnlySpan)       {}
func (sessionInjector) Shutdown(context.Context) error   { return nil }
func (sessionInjector) ForceFlush(context.Context) error { return nil }

type contextKey string

const sessionIDKey contextKey = "session_id"

func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func GetSessionIDFromContext(ctx context.Context) string {
	if sessionID, ok := ctx.Value(sessionIDKey).(string); ok {
		return sessionID
	}
	return ""
}
