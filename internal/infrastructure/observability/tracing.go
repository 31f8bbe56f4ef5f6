package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "alethiq-server/chat-api"
)

// GetTracer returns the tracer for the chat-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StreamAttributes returns common attributes for answer-stream spans.
func StreamAttributes(userID string, queryLen int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("stream.user_id", userID),
		attribute.Int("stream.query_length", queryLen),
	}
}

// StartStreamSpan starts a new span covering one proxied answer stream.
func StartStreamSpan(ctx context.Context, userID string, queryLen int) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.stream",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(StreamAttributes(userID, queryLen)...),
	)
	return ctx, span
}

// StartSaveSpan starts a new span for the completion-triggered persistence.
func StartSaveSpan(ctx context.Context) (context.Context, trace.Span) {
	ctx, span := GetTracer().Start(ctx, "chat.save_exchange",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	return ctx, span
}

// SetConversationID records the resolved thread id on a span.
func SetConversationID(span trace.Span, conversationID string) {
	span.SetAttributes(attribute.String("conversation.id", conversationID))
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddChunkEvent adds a forwarded-chunk event to a span.
func AddChunkEvent(span trace.Span, chunkLen int) {
	span.AddEvent("chunk.forwarded",
		trace.WithAttributes(attribute.Int("chunk.length", chunkLen)),
	)
}
