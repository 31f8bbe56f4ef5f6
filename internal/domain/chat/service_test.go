package chat_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// memoryRepository is an in-memory chat.Repository for service tests.
type memoryRepository struct {
	nextID        uint
	nextMessageID uint
	conversations map[uint]*chat.Conversation
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{conversations: map[uint]*chat.Conversation{}}
}

func (r *memoryRepository) Create(ctx context.Context, conv *chat.Conversation) error {
	r.nextID++
	conv.ID = r.nextID
	stored := *conv
	stored.Messages = append([]chat.Message(nil), conv.Messages...)
	r.conversations[conv.ID] = &stored
	return nil
}

func (r *memoryRepository) FindByPublicID(ctx context.Context, publicID string) (*chat.Conversation, error) {
	for _, conv := range r.conversations {
		if conv.PublicID == publicID {
			copied := *conv
			copied.Messages = append([]chat.Message(nil), conv.Messages...)
			return &copied, nil
		}
	}
	return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, fmt.Sprintf("conversation not found: %s", publicID), nil, "")
}

func (r *memoryRepository) FindByOwner(ctx context.Context, ownerID string) ([]*chat.Conversation, error) {
	var result []*chat.Conversation
	for _, conv := range r.conversations {
		if conv.OwnerID == ownerID {
			result = append(result, conv)
		}
	}
	return result, nil
}

func (r *memoryRepository) AppendMessages(ctx context.Context, conversationID uint, messages []chat.Message) error {
	conv, ok := r.conversations[conversationID]
	if !ok {
		return platformerrors.NewError(ctx, platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}
	for i := range messages {
		r.nextMessageID++
		messages[i].ID = r.nextMessageID
		messages[i].ConversationID = conversationID
	}
	conv.Messages = append(conv.Messages, messages...)
	return nil
}

var alice = identity.Identity{ID: "user-alice", Username: "alice"}

func TestSaveExchangeCreatesThread(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	conv, err := svc.SaveExchange(context.Background(), &alice, nil, "What is the capital of France?", "Paris is the capital of France.")
	require.NoError(t, err)

	assert.Equal(t, alice.ID, conv.OwnerID)
	assert.Equal(t, "What is the capital of France?", conv.Title)
	assert.NotEmpty(t, conv.PublicID)

	require.Len(t, conv.Messages, 2)
	assert.Equal(t, chat.RoleUser, conv.Messages[0].Role)
	assert.Equal(t, "What is the capital of France?", conv.Messages[0].Content)
	assert.Equal(t, 1, conv.Messages[0].Sequence)
	assert.Equal(t, chat.RoleAI, conv.Messages[1].Role)
	assert.Equal(t, "Paris is the capital of France.", conv.Messages[1].Content)
	assert.Equal(t, 2, conv.Messages[1].Sequence)
}

func TestSaveExchangeTitleTruncated(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	long := "Explain the difference between concurrency and parallelism in detail"
	conv, err := svc.SaveExchange(context.Background(), &alice, nil, long, "answer")
	require.NoError(t, err)

	assert.Equal(t, chat.TruncateTitle(long), conv.Title)
	assert.Equal(t, 31, len([]rune(conv.Title)))
}

func TestSaveExchangeAppendsToExistingThread(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	first, err := svc.SaveExchange(context.Background(), &alice, nil, "first question", "first answer")
	require.NoError(t, err)

	second, err := svc.SaveExchange(context.Background(), &alice, &first.PublicID, "second question", "second answer")
	require.NoError(t, err)

	assert.Equal(t, first.PublicID, second.PublicID)
	require.Len(t, second.Messages, 4)

	// Earlier messages are untouched, new ones continue the sequence.
	assert.Equal(t, "first question", second.Messages[0].Content)
	assert.Equal(t, "first answer", second.Messages[1].Content)
	assert.Equal(t, 3, second.Messages[2].Sequence)
	assert.Equal(t, 4, second.Messages[3].Sequence)
	assert.Equal(t, "first question", second.Title)
}

func TestSaveExchangeStaleIDStartsNewThread(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	stale := "no-such-conversation"
	conv, err := svc.SaveExchange(context.Background(), &alice, &stale, "query", "answer")
	require.NoError(t, err)

	assert.NotEqual(t, stale, conv.PublicID)
	assert.Len(t, conv.Messages, 2)
}

func TestSaveExchangeForeignThreadRejected(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	bob := identity.Identity{ID: "user-bob", Username: "bob"}
	theirs, err := svc.SaveExchange(context.Background(), &bob, nil, "bob's question", "bob's answer")
	require.NoError(t, err)

	_, err = svc.SaveExchange(context.Background(), &alice, &theirs.PublicID, "query", "answer")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	// Bob's thread is untouched.
	got, err := svc.GetByPublicID(context.Background(), &bob, theirs.PublicID)
	require.NoError(t, err)
	assert.Len(t, got.Messages, 2)
}

func TestSaveExchangeRequiresIdentity(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	_, err := svc.SaveExchange(context.Background(), nil, nil, "query", "answer")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))

	empty := identity.Identity{}
	_, err = svc.SaveExchange(context.Background(), &empty, nil, "query", "answer")
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestGetByPublicIDEnforcesOwnership(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	conv, err := svc.SaveExchange(context.Background(), &alice, nil, "query", "answer")
	require.NoError(t, err)

	bob := identity.Identity{ID: "user-bob"}
	_, err = svc.GetByPublicID(context.Background(), &bob, conv.PublicID)
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeForbidden))
}

func TestListByOwnerScopedToCaller(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	_, err := svc.SaveExchange(context.Background(), &alice, nil, "q1", "a1")
	require.NoError(t, err)
	bob := identity.Identity{ID: "user-bob"}
	_, err = svc.SaveExchange(context.Background(), &bob, nil, "q2", "a2")
	require.NoError(t, err)

	mine, err := svc.ListByOwner(context.Background(), &alice)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "q1", mine[0].Title)
}

func TestStartConversationIsEmpty(t *testing.T) {
	repo := newMemoryRepository()
	svc := chat.NewService(repo, zerolog.Nop())

	conv, err := svc.StartConversation(context.Background(), &alice, "a fresh topic")
	require.NoError(t, err)

	assert.Equal(t, "a fresh topic", conv.Title)
	assert.Empty(t, conv.Messages)
}
