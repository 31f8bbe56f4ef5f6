package dto

// StreamRequest is the inbound body for a streamed chat query.
type StreamRequest struct {
	Query string `json:"query" binding:"required"`
}

// SaveConversationRequest persists one finished question/answer exchange.
// ConversationID is optional; when absent a new thread is started.
type SaveConversationRequest struct {
	Query          string  `json:"query" binding:"required"`
	Answer         string  `json:"answer" binding:"required"`
	ConversationID *string `json:"conversationId"`
}

// NewChatRequest starts an empty conversation titled from its first query.
type NewChatRequest struct {
	Query string `json:"query" binding:"required"`
}

// RegisterRequest creates a user account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
