package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/domain/chat"
	"alethiq-server/services/chat-api/internal/infrastructure/auth"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver/dto"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver/responses"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// ChatHandler serves the streaming and conversation endpoints.
type ChatHandler struct {
	streamer chat.Streamer
	chats    chat.Service
	log      zerolog.Logger
}

// NewChatHandler builds the chat handler.
func NewChatHandler(streamer chat.Streamer, chats chat.Service, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		streamer: streamer,
		chats:    chats,
		log:      log,
	}
}

// Stream proxies one query to the inference backend as a chunked SSE stream.
// @Summary Stream an answer for a query
// @Tags Chat
// @Accept json
// @Produce text/event-stream
// @Param request body dto.StreamRequest true "Query"
// @Success 200 {string} string "SSE stream"
// @Router /v1/chat/stream [post]
func (h *ChatHandler) Stream(c *gin.Context) {
	var req dto.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "query is required", "c2a4e6d8-1f3b-4c5d-8e9a-0b1c2d3e4f5a")
		return
	}

	writer := c.Writer
	flusher, ok := writer.(http.Flusher)
	if !ok {
		responses.HandleNewError(c, platformerrors.ErrorTypeInternal, "streaming not supported", "e4c6a8d0-3f5b-4e7d-9a1c-2b3d4e5f6a7b")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	principal := auth.IdentityFromContext(c)

	wrote := false
	emit := func(chunk string) error {
		if _, err := fmt.Fprint(writer, chunk); err != nil {
			return err
		}
		flusher.Flush()
		wrote = true
		return nil
	}

	if err := h.streamer.StreamAnswer(c.Request.Context(), req.Query, principal, emit); err != nil {
		if c.Request.Context().Err() != nil {
			// Client went away; nothing left to tell it.
			return
		}
		if !wrote {
			responses.HandleError(c, err, "failed to stream answer")
			return
		}
		// Headers are out; the failure has to travel in-band.
		fmt.Fprint(writer, "data: {\"error\":\"stream interrupted\"}\n\n")
		flusher.Flush()
	}
}

// Save persists one finished question/answer exchange.
// @Summary Save a completed exchange
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.SaveConversationRequest true "Exchange"
// @Success 200 {object} responses.SaveConversationResponse
// @Router /v1/chat/save-conversation [post]
func (h *ChatHandler) Save(c *gin.Context) {
	var req dto.SaveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "query and answer are required", "a6e8c0b2-5d7f-4a9c-b1e3-4d5f6a7b8c9d")
		return
	}

	principal := auth.IdentityFromContext(c)
	conversation, err := h.chats.SaveExchange(c.Request.Context(), principal, req.ConversationID, req.Query, req.Answer)
	if err != nil {
		responses.HandleError(c, err, "failed to save conversation")
		return
	}

	c.JSON(http.StatusOK, responses.SaveConversationResponse{
		ConversationID: conversation.PublicID,
	})
}

// New starts an empty conversation titled from its first query.
// @Summary Start a new conversation
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.NewChatRequest true "First query"
// @Success 201 {object} responses.ConversationPayload
// @Router /v1/chat/new [post]
func (h *ChatHandler) New(c *gin.Context) {
	var req dto.NewChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "query is required", "b8d0e2f4-7a9c-4b1d-8e3f-5a6b7c8d9e0f")
		return
	}

	principal := auth.IdentityFromContext(c)
	conversation, err := h.chats.StartConversation(c.Request.Context(), principal, req.Query)
	if err != nil {
		responses.HandleError(c, err, "failed to start conversation")
		return
	}

	c.JSON(http.StatusCreated, responses.FromDomain(conversation))
}

// List returns the caller's conversations, most recently updated first.
// @Summary List conversations
// @Tags Chat
// @Produce json
// @Success 200 {array} responses.ConversationPayload
// @Router /v1/chat [get]
func (h *ChatHandler) List(c *gin.Context) {
	principal := auth.IdentityFromContext(c)
	conversations, err := h.chats.ListByOwner(c.Request.Context(), principal)
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": responses.FromDomainList(conversations)})
}

// Get returns one caller-owned conversation with its messages.
// @Summary Fetch a conversation
// @Tags Chat
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} responses.ConversationPayload
// @Router /v1/chat/{conversation_id} [get]
func (h *ChatHandler) Get(c *gin.Context) {
	principal := auth.IdentityFromContext(c)
	conversation, err := h.chats.GetByPublicID(c.Request.Context(), principal, c.Param("conversation_id"))
	if err != nil {
		responses.HandleError(c, err, "failed to fetch conversation")
		return
	}

	c.JSON(http.StatusOK, responses.FromDomain(conversation))
}
