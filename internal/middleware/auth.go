package middleware

import (
	"net/http"
	"strings"

	"foodgram/internal/auth"
	"foodgram/internal/logger"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves Authorization headers into request identities.
type Authenticator struct {
	tokens  *auth.TokenManager
	revoked auth.RevocationStore
	log     *logger.Logger
}

func NewAuthenticator(tokens *auth.TokenManager, revoked auth.RevocationStore, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, revoked: revoked, log: log.With("middleware", "auth")}
}

// RequireAuth rejects requests without a valid, unrevoked token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		claims, status, msg := a.resolve(c, authHeader)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		auth.SetIdentity(c, claims)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and lets
// anonymous requests through otherwise.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, status, msg := a.resolve(c, authHeader)
		if claims == nil {
			c.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}

		auth.SetIdentity(c, claims)
		c.Next()
	}
}

func (a *Authenticator) resolve(c *gin.Context, header string) (*auth.Claims, int, string) {
	parts := strings.Fields(header)
	if len(parts) != 2 || (parts[0] != "Bearer" && parts[0] != "Token") {
		return nil, http.StatusUnauthorized, "invalid authorization format, use 'Bearer <token>'"
	}

	claims, err := a.tokens.Validate(parts[1])
	if err != nil {
		return nil, http.StatusUnauthorized, "invalid token"
	}

	revoked, err := a.revoked.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		a.log.Error("revocation lookup failed", "error", err)
		return nil, http.StatusInternalServerError, "failed to verify token"
	}
	if revoked {
		return nil, http.StatusUnauthorized, "token has been revoked"
	}

	a.log.Debug("authenticated", "user_id", claims.UserID, "role", claims.Role)
	return claims, 0, ""
}
