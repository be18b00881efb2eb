package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"storyturn/internal/debug"
	"storyturn/internal/observability"
)

type contextKey string

const operationTypeKey contextKey = "operation_type"

const DefaultModel = "gpt-5-2025-08-07"

type Service struct {
	client *openai.Client
	model  string
	debug  *debug.Logger
	tracer trace.Tracer
}

func NewService(apiKey, model string, debug *debug.Logger) *Service {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &Service{
		client: &client,
		model:  model,
		debug:  debug,
		tracer: otel.Tracer("llm-service"),
	}
}

func (s *Service) Model() string {
	return s.model
}

type TextCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

type StreamCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

func (s *Service) params(system, user string, maxTokens int, model, effort string) openai.ChatCompletionNewParams {
	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if effort != "" {
		req.ReasoningEffort = shared.ReasoningEffort(effort)
	}
	return req
}

func (s *Service) resolveModel(override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return s.model
}

func (s *Service) CompleteText(ctx context.Context, req TextCompletionRequest) (string, error) {
	operationType := "llm.complete_text"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}
	model := s.resolveModel(req.Model)

	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", model, 0, 0, -1)...,
		),
	)
	defer span.End()

	attrs := []attribute.KeyValue{
		attribute.Int("gen_ai.request.max_tokens", req.MaxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("game.operation_type", operationType),
	}
	if sessionID := observability.GetSessionIDFromContext(ctx); sessionID != "" {
		attrs = append(attrs, attribute.String("langfuse.session.id", sessionID))
	}
	span.SetAttributes(attrs...)

	startTime := time.Now()
	if s.debug != nil {
		s.debug.Printf("LLM Text Completion - MaxTokens: %d, SystemPrompt length: %d", req.MaxTokens, len(req.SystemPrompt))
	}

	resp, err := s.client.Chat.Completions.New(ctx, s.params(req.SystemPrompt, req.UserPrompt, req.MaxTokens, model, req.ReasoningEffort))
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		if s.debug != nil {
			s.debug.Printf("LLM Text Completion error: %v", err)
		}
		return "", fmt.Errorf("text completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.output", content),
	)

	if s.debug != nil {
		s.debug.Printf("LLM Text Completion response length: %d, tokens: %d/%d, duration: %v",
			len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, duration)
	}

	return content, nil
}

func (s *Service) CompleteStream(ctx context.Context, req StreamCompletionRequest) (*ssestream.Stream[openai.ChatCompletionChunk], error) {
	model := s.resolveModel(req.Model)

	if s.debug != nil {
		s.debug.Printf("LLM Stream Completion - MaxTokens: %d, SystemPrompt length: %d", req.MaxTokens, len(req.SystemPrompt))
		s.debug.Printf("LLM Stream Request - Model: %s", model)
	}

	stream := s.client.Chat.Completions.NewStreaming(ctx, s.params(req.SystemPrompt, req.UserPrompt, req.MaxTokens, model, req.ReasoningEffort))
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("failed to create completion stream: %w", err)
	}
	return stream, nil
}

func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}
