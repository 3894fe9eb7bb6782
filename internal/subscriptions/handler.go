package subscriptions

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/pagination"
	"foodgram/internal/relation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.With("handler", "subscriptions")}
}

// recipesLimit reads ?recipes_limit; anything but a non-negative integer
// means no limit.
func recipesLimit(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("recipes_limit"))
	if err != nil || n < 0 {
		return -1
	}
	return n
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSelfSubscription):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, relation.ErrAlreadyExists), errors.Is(err, relation.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// --------------------------------------------------
// Subscribe / unsubscribe
// --------------------------------------------------
func (h *Handler) toggle(action relation.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || authorID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		sub, err := h.service.Toggle(c.Request.Context(), action, auth.UserIDFrom(c), authorID, recipesLimit(c))
		if err != nil {
			h.respondError(c, err)
			return
		}
		if sub == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusCreated, sub)
	}
}

func (h *Handler) Subscribe() gin.HandlerFunc {
	return h.toggle(relation.Add)
}

func (h *Handler) Unsubscribe() gin.HandlerFunc {
	return h.toggle(relation.Remove)
}

// --------------------------------------------------
// List
// --------------------------------------------------
func (h *Handler) List(c *gin.Context) {
	params := pagination.FromRequest(c)

	subs, total, err := h.service.List(
		c.Request.Context(),
		auth.UserIDFrom(c),
		recipesLimit(c),
		params.Limit,
		params.Offset(),
	)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, params, total, subs))
}
