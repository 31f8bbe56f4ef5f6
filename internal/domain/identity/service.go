package identity

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Service exposes account registration and credential verification.
type Service interface {
	Register(ctx context.Context, username, email, password string) (*User, string, error)
	Login(ctx context.Context, username, password string) (*User, string, error)
	FindByPublicID(ctx context.Context, publicID string) (*User, error)
}

// TokenConfig controls locally issued bearer tokens.
type TokenConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type service struct {
	repo   Repository
	tokens TokenConfig
	log    zerolog.Logger
}

// NewService builds the identity service.
func NewService(repo Repository, tokens TokenConfig, log zerolog.Logger) Service {
	return &service{
		repo:   repo,
		tokens: tokens,
		log:    log.With().Str("service", "identity").Logger(),
	}
}

// Register creates an account with a bcrypt password hash and issues a token.
func (s *service) Register(ctx context.Context, username, email, password string) (*User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation, "username and password are required", nil, "")
	}

	if existing, err := s.repo.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeConflict, "username already taken", nil, "")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "hash password", err, "")
	}

	user := &User{
		PublicID:     uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Role:         RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("username", user.Username).Msg("user registered")
	return user, token, nil
}

// Login verifies credentials and issues a token.
func (s *service) Login(ctx context.Context, username, password string) (*User, string, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound) {
			return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
				platformerrors.ErrorTypeUnauthorized, "invalid credentials", nil, "")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeUnauthorized, "invalid credentials", nil, "")
	}

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// FindByPublicID resolves a user by their public id.
func (s *service) FindByPublicID(ctx context.Context, publicID string) (*User, error) {
	return s.repo.FindByPublicID(ctx, publicID)
}

func (s *service) issueToken(ctx context.Context, user *User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":                user.PublicID,
		"preferred_username": user.Username,
		"iss":                s.tokens.Issuer,
		"iat":                now.Unix(),
		"exp":                now.Add(s.tokens.TTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.tokens.Secret))
	if err != nil {
		return "", platformerrors.NewError(ctx, platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal, "sign token", err, "")
	}
	return signed, nil
}
