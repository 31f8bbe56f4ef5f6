package chat

import "context"

// Repository persists conversations and their messages.
type Repository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Conversation, error)
	// AppendMessages inserts the given messages for a conversation in one
	// logical write, preserving their order.
	AppendMessages(ctx context.Context, conversationID uint, messages []Message) error
}
