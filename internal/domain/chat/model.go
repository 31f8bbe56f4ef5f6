package chat

import (
	"time"

	"github.com/google/uuid"

	"alethiq-server/services/chat-api/internal/domain/identity"
)

// Role indicates who authored a message.
type Role string

const (
	RoleUser Role = "USER"
	RoleAI   Role = "AI"
)

// titleRuneLimit bounds the derived conversation title.
const titleRuneLimit = 30

// Message is one entry in a conversation. Messages are append-only and are
// always written in USER-then-AI pairs; they are never mutated afterwards.
type Message struct {
	ID             uint      `json:"-"`
	ConversationID uint      `json:"-"`
	Sequence       int       `json:"-"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// Conversation is the durable, ordered record of one user's exchanges.
// OwnerID is set once at creation and never reassigned.
type Conversation struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}

// NewConversation creates an unpersisted conversation for the given owner.
// The title is derived once from the first query.
func NewConversation(owner identity.Identity, firstQuery string) *Conversation {
	now := time.Now()
	return &Conversation{
		PublicID:  uuid.NewString(),
		OwnerID:   owner.ID,
		Title:     TruncateTitle(firstQuery),
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TruncateTitle caps a query at 30 runes, appending an ellipsis when cut.
func TruncateTitle(query string) string {
	runes := []rune(query)
	if len(runes) <= titleRuneLimit {
		return query
	}
	return string(runes[:titleRuneLimit]) + "…"
}
