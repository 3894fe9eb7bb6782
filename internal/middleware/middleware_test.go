package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/logger"

	"github.com/gin-gonic/gin"
)

func newAuthenticator(t *testing.T) (*Authenticator, *auth.TokenManager, *auth.InMemoryRevocationStore) {
	t.Helper()
	tokens, err := auth.NewTokenManager("test-secret-key-for-testing-only", time.Hour)
	if err != nil {
		t.Fatalf("token manager: %v", err)
	}
	revoked := auth.NewInMemoryRevocationStore()
	return NewAuthenticator(tokens, revoked, logger.Nop()), tokens, revoked
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(handlers...)
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userID": auth.UserIDFrom(c),
			"role":   auth.RoleFrom(c),
		})
	})
	return router
}

func perform(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_MissingAuthHeader(t *testing.T) {
	a, _, _ := newAuthenticator(t)
	w := perform(setupRouter(a.RequireAuth()), "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAuth_InvalidAuthFormat(t *testing.T) {
	a, _, _ := newAuthenticator(t)
	w := perform(setupRouter(a.RequireAuth()), "InvalidFormat")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	a, _, _ := newAuthenticator(t)
	w := perform(setupRouter(a.RequireAuth()), "Bearer invalid_token_xyz")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	a, tokens, _ := newAuthenticator(t)
	token, err := tokens.Generate(&auth.User{ID: 7, Email: "cook@example.com", Username: "cook", Role: auth.RoleUser})
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	for _, prefix := range []string{"Bearer ", "Token "} {
		w := perform(setupRouter(a.RequireAuth()), prefix+token)
		if w.Code != http.StatusOK {
			t.Errorf("%q: expected status %d, got %d", prefix, http.StatusOK, w.Code)
		}
	}
}

func TestRequireAuth_RevokedToken(t *testing.T) {
	a, tokens, revoked := newAuthenticator(t)
	token, _ := tokens.Generate(&auth.User{ID: 7, Role: auth.RoleUser})
	claims, err := tokens.Validate(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	_ = revoked.Revoke(context.Background(), claims.ID, time.Hour)

	w := perform(setupRouter(a.RequireAuth()), "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestOptionalAuth_Anonymous(t *testing.T) {
	a, _, _ := newAuthenticator(t)
	w := perform(setupRouter(a.OptionalAuth()), "")

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	a, tokens, _ := newAuthenticator(t)
	router := setupRouter(a.RequireAuth(), RequireRole(auth.RoleAdmin))

	userToken, _ := tokens.Generate(&auth.User{ID: 1, Role: auth.RoleUser})
	if w := perform(router, "Bearer "+userToken); w.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, w.Code)
	}

	adminToken, _ := tokens.Generate(&auth.User{ID: 2, Role: auth.RoleAdmin})
	if w := perform(router, "Bearer "+adminToken); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}

func TestRequestLoggerAndMetricsPassThrough(t *testing.T) {
	router := setupRouter(RequestLogger(logger.Nop()), Metrics())
	if w := perform(router, ""); w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
}
