package v1

import (
	"github.com/gin-gonic/gin"

	"alethiq-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerAuthRoutes(group *gin.RouterGroup, handler *handlers.AuthHandler) {
	authGroup := group.Group("/auth")
	authGroup.POST("/register", handler.Register)
	authGroup.POST("/login", handler.Login)
}
