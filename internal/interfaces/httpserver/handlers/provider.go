package handlers

import (
	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/domain/identity"
)

// Provider aggregates the HTTP handlers.
type Provider struct {
	Chat *ChatHandler
	Auth *AuthHandler
}

// NewProvider constructs the handler provider.
func NewProvider(streamer chat.Streamer, chats chat.Service, identities identity.Service, log zerolog.Logger) *Provider {
	return &Provider{
		Chat: NewChatHandler(streamer, chats, log),
		Auth: NewAuthHandler(identities, log),
	}
}
