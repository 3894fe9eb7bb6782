package auth

import "github.com/gin-gonic/gin"

// Gin context keys set by the auth middleware.
const (
	ContextUserID   = "userID"
	ContextEmail    = "userEmail"
	ContextUsername = "username"
	ContextRole     = "userRole"
	ContextClaims   = "tokenClaims"
)

func SetIdentity(c *gin.Context, claims *Claims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextEmail, claims.Email)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
}

// UserIDFrom returns the authenticated user id, or 0 for anonymous requests.
func UserIDFrom(c *gin.Context) int64 {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0
	}
	id, _ := v.(int64)
	return id
}

func RoleFrom(c *gin.Context) string {
	return c.GetString(ContextRole)
}

func UsernameFrom(c *gin.Context) string {
	return c.GetString(ContextUsername)
}

func ClaimsFrom(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}
