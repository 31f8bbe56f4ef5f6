package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver/dto"
	"alethiq-server/services/chat-api/internal/interfaces/httpserver/responses"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	identities identity.Service
	log        zerolog.Logger
}

// NewAuthHandler builds the auth handler.
func NewAuthHandler(identities identity.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		identities: identities,
		log:        log,
	}
}

// Register creates a user account and returns a token.
// @Summary Register a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Account"
// @Success 201 {object} responses.AuthResponse
// @Router /v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "username and password are required", "d0f2a4b6-9c1e-4d3f-a5b7-6c8d9e0f1a2b")
		return
	}

	user, token, err := h.identities.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		responses.HandleError(c, err, "failed to register")
		return
	}

	c.JSON(http.StatusCreated, responses.AuthResponse{
		Token:    token,
		Username: user.Username,
	})
}

// Login exchanges credentials for a token.
// @Summary Log in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} responses.AuthResponse
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "username and password are required", "f2b4c6d8-1e3a-4f5b-c7d9-8e0f1a2b3c4d")
		return
	}

	user, token, err := h.identities.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		responses.HandleError(c, err, "failed to log in")
		return
	}

	c.JSON(http.StatusOK, responses.AuthResponse{
		Token:    token,
		Username: user.Username,
	})
}
