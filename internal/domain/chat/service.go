package chat

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/infrastructure/metrics"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Service resolves conversation threads and performs the durable writes.
type Service interface {
	// ResolveOrCreate decides which thread an exchange belongs to. A usable
	// existing conversation is one that exists and is owned by the caller; a
	// stale id falls through to creation, a foreign one is rejected.
	ResolveOrCreate(ctx context.Context, existingID *string, owner identity.Identity, firstQuery string) (*Conversation, error)
	// AppendExchange appends the USER/AI message pair in one logical write.
	AppendExchange(ctx context.Context, conversation *Conversation, query, answer string) (*Conversation, error)
	// SaveExchange gates, resolves and appends in one call.
	SaveExchange(ctx context.Context, principal *identity.Identity, existingID *string, query, answer string) (*Conversation, error)
	// StartConversation persists an empty thread titled from its first query.
	StartConversation(ctx context.Context, principal *identity.Identity, firstQuery string) (*Conversation, error)
	// GetByPublicID fetches a caller-owned conversation with its messages.
	GetByPublicID(ctx context.Context, principal *identity.Identity, publicID string) (*Conversation, error)
	// ListByOwner lists the caller's conversations.
	ListByOwner(ctx context.Context, principal *identity.Identity) ([]*Conversation, error)
}

type service struct {
	repo Repository
	log  zerolog.Logger
}

// NewService builds the conversation service.
func NewService(repo Repository, log zerolog.Logger) Service {
	return &service{
		repo: repo,
		log:  log.With().Str("service", "chat").Logger(),
	}
}

func (s *service) ResolveOrCreate(ctx context.Context, existingID *string, owner identity.Identity, firstQuery string) (*Conversation, error) {
	if existingID != nil && *existingID != "" {
		conversation, err := s.repo.FindByPublicID(ctx, *existingID)
		switch {
		case err == nil && conversation.OwnerID == owner.ID:
			return conversation, nil
		case err == nil:
			// Owned by someone else: reject rather than silently starting a
			// fresh thread under the caller's name.
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeForbidden, "conversation belongs to another user", nil, "")
		case platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound):
			// Stale client id: fall through to creation.
			s.log.Debug().Str("conversation_id", *existingID).Msg("unknown conversation id, starting new thread")
		default:
			return nil, err
		}
	}

	conversation := NewConversation(owner, firstQuery)
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *service) AppendExchange(ctx context.Context, conversation *Conversation, query, answer string) (*Conversation, error) {
	now := time.Now()
	next := len(conversation.Messages) + 1
	pair := []Message{
		{ConversationID: conversation.ID, Sequence: next, Role: RoleUser, Content: query, Timestamp: now},
		{ConversationID: conversation.ID, Sequence: next + 1, Role: RoleAI, Content: answer, Timestamp: now},
	}

	if err := s.repo.AppendMessages(ctx, conversation.ID, pair); err != nil {
		return nil, err
	}

	conversation.Messages = append(conversation.Messages, pair...)
	conversation.UpdatedAt = now
	return conversation, nil
}

func (s *service) SaveExchange(ctx context.Context, principal *identity.Identity, existingID *string, query, answer string) (*Conversation, error) {
	owner, err := Authorize(ctx, principal)
	if err != nil {
		return nil, err
	}

	conversation, err := s.ResolveOrCreate(ctx, existingID, owner, query)
	if err != nil {
		return nil, err
	}
	appendedTo := len(conversation.Messages) > 0

	saved, err := s.AppendExchange(ctx, conversation, query, answer)
	if err != nil {
		return nil, err
	}

	thread := metrics.ThreadCreated
	if appendedTo {
		thread = metrics.ThreadAppended
	}
	metrics.RecordExchangeSaved(thread)

	s.log.Info().
		Str("conversation_id", saved.PublicID).
		Str("owner_id", owner.ID).
		Int("message_count", len(saved.Messages)).
		Msg("exchange saved")
	return saved, nil
}

func (s *service) StartConversation(ctx context.Context, principal *identity.Identity, firstQuery string) (*Conversation, error) {
	owner, err := Authorize(ctx, principal)
	if err != nil {
		return nil, err
	}

	conversation := NewConversation(owner, firstQuery)
	if err := s.repo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *service) GetByPublicID(ctx context.Context, principal *identity.Identity, publicID string) (*Conversation, error) {
	owner, err := Authorize(ctx, principal)
	if err != nil {
		return nil, err
	}

	conversation, err := s.repo.FindByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if conversation.OwnerID != owner.ID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeForbidden, "conversation belongs to another user", nil, "")
	}
	return conversation, nil
}

func (s *service) ListByOwner(ctx context.Context, principal *identity.Identity) ([]*Conversation, error) {
	owner, err := Authorize(ctx, principal)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByOwner(ctx, owner.ID)
}
