package v1

import (
	"github.com/gin-gonic/gin"

	"alethiq-server/services/chat-api/internal/infrastructure/auth"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

// registerChatRoutes attaches the chat endpoints. Streaming is open to
// anonymous callers; everything touching stored conversations requires an
// identity.
func registerChatRoutes(group *gin.RouterGroup, handler *handlers.ChatHandler) {
	chatGroup := group.Group("/chat")

	chatGroup.POST("/stream", handler.Stream)

	protected := chatGroup.Group("")
	protected.Use(auth.RequireIdentity())
	protected.POST("/save-conversation", handler.Save)
	protected.POST("/new", handler.New)
	protected.GET("", handler.List)
	protected.GET("/:conversation_id", handler.Get)
}
