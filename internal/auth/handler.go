package auth

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodgram/internal/core"
	"foodgram/internal/logger"
	"foodgram/internal/pagination"
	"foodgram/internal/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	tokens  *TokenManager
	revoked RevocationStore
	subs    core.SubscriptionReader
	log     *logger.Logger
}

func NewHandler(
	service *Service,
	tokens *TokenManager,
	revoked RevocationStore,
	subs core.SubscriptionReader,
	log *logger.Logger,
) *Handler {
	return &Handler{
		service: service,
		tokens:  tokens,
		revoked: revoked,
		subs:    subs,
		log:     log.With("handler", "auth"),
	}
}

// --------------------------------------------------
// Register
// --------------------------------------------------
func (h *Handler) Register(c *gin.Context) {
	var req RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validation.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err})
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	switch {
	case errors.Is(err, ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"email": err.Error()}})
		return
	case errors.Is(err, ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"username": err.Error()}})
		return
	case err != nil:
		h.log.Error("register failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register user"})
		return
	}

	h.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusCreated, gin.H{
		"email":      user.Email,
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// --------------------------------------------------
// Users
// --------------------------------------------------
func (h *Handler) ListUsers(c *gin.Context) {
	params := pagination.FromRequest(c)

	users, total, err := h.service.List(c.Request.Context(), params.Limit, params.Offset())
	if err != nil {
		h.log.Error("list users failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	ids := make([]int64, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := h.subscribedAmong(c, ids)
	if err != nil {
		h.log.Error("subscription lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return
	}

	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.Profile(subscribed[u.ID]))
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, params, total, profiles))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	h.respondProfile(c, id)
}

func (h *Handler) Me(c *gin.Context) {
	h.respondProfile(c, UserIDFrom(c))
}

func (h *Handler) respondProfile(c *gin.Context, id int64) {
	user, err := h.service.Get(c.Request.Context(), id)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		h.log.Error("get user failed", "user_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}

	subscribed, err := h.subscribedAmong(c, []int64{id})
	if err != nil {
		h.log.Error("subscription lookup failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch user"})
		return
	}
	c.JSON(http.StatusOK, user.Profile(subscribed[id]))
}

func (h *Handler) subscribedAmong(c *gin.Context, ids []int64) (map[int64]bool, error) {
	viewer := UserIDFrom(c)
	if viewer == 0 || h.subs == nil || len(ids) == 0 {
		return map[int64]bool{}, nil
	}
	return h.subs.SubscribedAmong(c.Request.Context(), viewer, ids)
}

// --------------------------------------------------
// Password
// --------------------------------------------------
type setPasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,max=150"`
}

func (h *Handler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validation.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err})
		return
	}

	err := h.service.SetPassword(c.Request.Context(), UserIDFrom(c), req.CurrentPassword, req.NewPassword)
	if errors.Is(err, ErrWrongPassword) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"current_password": err.Error()}})
		return
	}
	if err != nil {
		h.log.Error("set password failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to set password"})
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Token login / logout
// --------------------------------------------------
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := validation.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err})
		return
	}

	user, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.Error("token generation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

func (h *Handler) Logout(c *gin.Context) {
	claims, ok := ClaimsFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.revoked.Revoke(c.Request.Context(), claims.ID, claims.Remaining(time.Now())); err != nil {
		h.log.Error("token revocation failed", "user_id", claims.UserID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	c.Status(http.StatusNoContent)
}
