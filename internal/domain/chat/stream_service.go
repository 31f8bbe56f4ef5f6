package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/infrastructure/metrics"
	"alethiq-server/services/chat-api/internal/infrastructure/observability"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Streamer proxies one query to the inference backend and emits its raw
// chunks to the caller while accumulating the decoded answer.
type Streamer interface {
	StreamAnswer(ctx context.Context, rawQuery string, principal *identity.Identity, emit func(chunk string) error) error
}

// StreamService implements Streamer on top of a Provider and the
// conversation Service. Each call owns its own accumulation buffer; the
// provider client itself is shared and stateless.
type StreamService struct {
	provider Provider
	chats    Service
	log      zerolog.Logger
}

// NewStreamService builds the answer-stream service.
func NewStreamService(provider Provider, chats Service, log zerolog.Logger) *StreamService {
	return &StreamService{
		provider: provider,
		chats:    chats,
		log:      log.With().Str("service", "stream").Logger(),
	}
}

var _ Streamer = (*StreamService)(nil)

// StreamAnswer runs the two-phase stream protocol: forward raw chunks to emit
// in arrival order while folding decoded fragments into a per-call buffer,
// then, on graceful end-of-stream only, persist the exchange exactly once.
// A transport failure or caller cancellation skips persistence entirely.
func (s *StreamService) StreamAnswer(ctx context.Context, rawQuery string, principal *identity.Identity, emit func(chunk string) error) error {
	query := NormalizeQuery(rawQuery)
	start := time.Now()

	userID := ""
	if principal != nil {
		userID = principal.ID
	}
	ctx, span := observability.StartStreamSpan(ctx, userID, len(query))
	defer span.End()

	stream, err := s.provider.StreamQuery(ctx, query)
	if err != nil {
		metrics.RecordStream(metrics.StreamOutcomeUpstream, time.Since(start).Seconds())
		observability.RecordError(span, err)
		return platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeExternal, "open answer stream", err, "")
	}
	defer stream.Close()

	var answer strings.Builder
	for {
		chunk, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				metrics.RecordStream(metrics.StreamOutcomeCompleted, time.Since(start).Seconds())
				s.persistOnCompletion(ctx, principal, query, answer.String())
				return nil
			}
			if ctx.Err() != nil {
				metrics.RecordStream(metrics.StreamOutcomeCancelled, time.Since(start).Seconds())
				s.log.Debug().Msg("client cancelled answer stream, discarding buffer")
				return ctx.Err()
			}
			metrics.RecordStream(metrics.StreamOutcomeUpstream, time.Since(start).Seconds())
			observability.RecordError(span, err)
			return platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeExternal, "answer stream interrupted", err, "")
		}

		if err := emit(chunk); err != nil {
			// The caller stopped consuming: same as a disconnect.
			metrics.RecordStream(metrics.StreamOutcomeCancelled, time.Since(start).Seconds())
			return err
		}
		metrics.ChunksForwardedTotal.Inc()
		observability.AddChunkEvent(span, len(chunk))

		for _, fragment := range DecodeChunk(chunk) {
			answer.WriteString(fragment)
		}
	}
}

// persistOnCompletion is the second phase: it runs at most once, only after a
// graceful end-of-stream, and never for cancelled or anonymous streams. The
// write is detached from the request context so a disconnect arriving after
// completion cannot abort it.
func (s *StreamService) persistOnCompletion(ctx context.Context, principal *identity.Identity, query, answer string) {
	if ctx.Err() != nil {
		// Disconnect raced the final read: treat as cancellation.
		return
	}
	if principal == nil {
		s.log.Debug().Msg("anonymous stream completed, skipping save")
		return
	}

	saveCtx := context.WithoutCancel(ctx)
	saveCtx, span := observability.StartSaveSpan(saveCtx)
	defer span.End()

	conversation, err := s.chats.SaveExchange(saveCtx, principal, nil, query, answer)
	if err != nil {
		observability.RecordError(span, err)
		s.log.Error().Err(err).Str("user_id", principal.ID).Msg("persist completed exchange")
		return
	}

	observability.SetConversationID(span, conversation.PublicID)
	s.log.Info().
		Str("conversation_id", conversation.PublicID).
		Int("answer_length", len(answer)).
		Msg("stream finished, exchange saved")
}

// NormalizeQuery unwraps a JSON `{"query": ...}` envelope when present; any
// other input, including unparsable JSON, is used verbatim.
func NormalizeQuery(raw string) string {
	var envelope struct {
		Query *string `json:"query"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err == nil && envelope.Query != nil {
		return *envelope.Query
	}
	return raw
}
