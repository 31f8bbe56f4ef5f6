package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"alethiq-server/services/chat-api/internal/config"
	"alethiq-server/services/chat-api/internal/domain/identity"
)

// identityKey is the gin context key carrying the authenticated identity.
const identityKey = "auth_identity"

// Validator validates JWTs. When a JWKS URL is configured, tokens are
// verified against the external issuer's key set; otherwise the local
// HS256 signing secret is used.
type Validator struct {
	cfg  *config.Config
	log  zerolog.Logger
	jwks *keyfunc.JWKS
}

// NewValidator initializes JWKS fetching when an external issuer is configured.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	if cfg.AuthJWKSURL == "" {
		return &Validator{cfg: cfg, log: log}, nil
	}

	options := keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   time.Hour,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			log.Error().Err(err).Msg("jwks refresh error")
		},
	}

	jwks, err := keyfunc.Get(cfg.AuthJWKSURL, options)
	if err != nil {
		return nil, err
	}

	return &Validator{
		cfg:  cfg,
		log:  log,
		jwks: jwks,
	}, nil
}

// Identify resolves the caller's identity from the Authorization header and
// stores it on the request context. Requests without a token pass through
// anonymously; a present but invalid token is rejected.
func (v *Validator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}

		principal, err := v.verify(tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("token rejected")
			abortUnauthorized(c, "invalid token")
			return
		}

		SetIdentity(c, principal)
		c.Next()
	}
}

// RequireIdentity rejects requests that did not present a valid token.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFromContext(c) == nil {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		c.Next()
	}
}

// SetIdentity stores the resolved identity on the request context.
func SetIdentity(c *gin.Context, principal *identity.Identity) {
	c.Set(identityKey, principal)
}

// IdentityFromContext returns the authenticated identity, or nil for
// anonymous requests.
func IdentityFromContext(c *gin.Context) *identity.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*identity.Identity)
	if !ok {
		return nil
	}
	return principal
}

func (v *Validator) verify(tokenString string) (*identity.Identity, error) {
	var (
		token *jwt.Token
		err   error
	)
	if v.jwks != nil {
		token, err = jwt.Parse(tokenString, v.jwks.Keyfunc,
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
		)
	} else {
		token, err = jwt.Parse(tokenString,
			func(t *jwt.Token) (any, error) { return []byte(v.cfg.JWTSecret), nil },
			jwt.WithIssuer(v.cfg.AuthIssuer),
			jwt.WithValidMethods([]string{"HS256"}),
		)
	}
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	username, _ := claims["preferred_username"].(string)

	return &identity.Identity{ID: subject, Username: username}, nil
}

// Ready indicates if the validator is prepared.
func (v *Validator) Ready() bool {
	if v == nil || v.cfg.AuthJWKSURL == "" {
		return true
	}
	return v.jwks != nil
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": message,
	})
}
