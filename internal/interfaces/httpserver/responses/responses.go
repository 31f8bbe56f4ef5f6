package responses

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// ErrorResponse represents an error response with platform error details
type ErrorResponse struct {
	Code          string `json:"code"` // UUID from PlatformError
	Error         string `json:"error"`
	Message       string `json:"message,omitempty"`
	ErrorInstance error  `json:"-"`
	RequestID     string `json:"request_id,omitempty"`
}

// HandleError handles domain errors and returns appropriate HTTP responses
func HandleError(reqCtx *gin.Context, err error, message string) {
	var domainErr *platformerrors.PlatformError
	if errors.As(err, &domainErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(domainErr.GetErrorType())

		errResp := ErrorResponse{
			Code:          domainErr.GetUUID(),
			Error:         message,
			Message:       message,
			ErrorInstance: domainErr,
			RequestID:     domainErr.GetRequestID(),
		}

		reqCtx.AbortWithStatusJSON(statusCode, errResp)
		return
	}
	// Non-platform errors
	errResp := ErrorResponse{
		Error:         message,
		Message:       message,
		ErrorInstance: err,
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerRoute, errorType, message, nil, uuid)

	statusCode := platformerrors.ErrorTypeToHTTPStatus(err.GetErrorType())

	errResp := ErrorResponse{
		Code:          err.GetUUID(),
		Error:         message,
		Message:       message,
		ErrorInstance: err,
		RequestID:     err.GetRequestID(),
	}

	reqCtx.AbortWithStatusJSON(statusCode, errResp)
}

// MessagePayload is the wire form of one conversation message.
type MessagePayload struct {
	Sequence  int       `json:"sequence"`
	Role      chat.Role `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// ConversationPayload is the wire form of a conversation.
type ConversationPayload struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Messages  []MessagePayload `json:"messages,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// FromDomain converts a domain conversation to its wire form.
func FromDomain(conv *chat.Conversation) ConversationPayload {
	payload := ConversationPayload{
		ID:        conv.PublicID,
		Title:     conv.Title,
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
	for _, msg := range conv.Messages {
		payload.Messages = append(payload.Messages, MessagePayload{
			Sequence:  msg.Sequence,
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}
	return payload
}

// FromDomainList converts a slice of conversations.
func FromDomainList(convs []*chat.Conversation) []ConversationPayload {
	result := make([]ConversationPayload, len(convs))
	for i, conv := range convs {
		result[i] = FromDomain(conv)
	}
	return result
}

// SaveConversationResponse acknowledges a persisted exchange.
type SaveConversationResponse struct {
	ConversationID string `json:"conversationId"`
}

// AuthResponse carries a freshly issued token.
type AuthResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
