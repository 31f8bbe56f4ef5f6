package entities

import (
	"time"

	"alethiq-server/services/chat-api/internal/domain/chat"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	OwnerID  string `gorm:"type:varchar(64);index:idx_conversation_owner;not null"`
	Title    string `gorm:"type:varchar(64);not null"`

	Messages []ConversationMessage `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// ConversationMessage represents the database schema for a single message
// within a conversation.
type ConversationMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	ConversationID uint      `gorm:"index:idx_message_conversation_sequence;not null"`
	Sequence       int       `gorm:"index:idx_message_conversation_sequence;not null"`
	Role           chat.Role `gorm:"type:varchar(10);not null"`
	Content        string    `gorm:"type:text;not null"`
	Timestamp      time.Time `gorm:"not null"`
}

// TableName specifies the table name for ConversationMessage.
func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

// NewSchemaConversation converts a domain conversation to a database entity.
func NewSchemaConversation(conv *chat.Conversation) *Conversation {
	entity := &Conversation{
		ID:        conv.ID,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
		PublicID:  conv.PublicID,
		OwnerID:   conv.OwnerID,
		Title:     conv.Title,
	}
	for _, msg := range conv.Messages {
		entity.Messages = append(entity.Messages, *NewSchemaConversationMessage(&msg))
	}
	return entity
}

// NewSchemaConversationMessage converts a domain message to a database entity.
func NewSchemaConversationMessage(msg *chat.Message) *ConversationMessage {
	return &ConversationMessage{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Sequence:       msg.Sequence,
		Role:           msg.Role,
		Content:        msg.Content,
		Timestamp:      msg.Timestamp,
	}
}

// EtoD converts the entity to a domain conversation.
func (e *Conversation) EtoD() *chat.Conversation {
	conv := &chat.Conversation{
		ID:        e.ID,
		PublicID:  e.PublicID,
		OwnerID:   e.OwnerID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	for _, msg := range e.Messages {
		conv.Messages = append(conv.Messages, *msg.EtoD())
	}
	return conv
}

// EtoD converts the entity to a domain message.
func (e *ConversationMessage) EtoD() *chat.Message {
	return &chat.Message{
		ID:             e.ID,
		ConversationID: e.ConversationID,
		Sequence:       e.Sequence,
		Role:           e.Role,
		Content:        e.Content,
		Timestamp:      e.Timestamp,
	}
}
