package recipes

import (
	"errors"
	"net/http"
	"strconv"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/pagination"
	"foodgram/internal/relation"
	"foodgram/internal/validation"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	log     *logger.Logger
}

func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log.With("handler", "recipes")}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps service errors onto status codes.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, gin.H{"errors": verrs})
	case errors.Is(err, ErrRecipeNotFound),
		errors.Is(err, ErrTagNotFound),
		errors.Is(err, ErrIngredientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	case errors.Is(err, relation.ErrAlreadyExists), errors.Is(err, relation.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	default:
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// --------------------------------------------------
// Tags
// --------------------------------------------------
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *Handler) GetTag(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tag, err := h.service.GetTag(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (h *Handler) CreateTag(c *gin.Context) {
	var req TagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// --------------------------------------------------
// Ingredients
// --------------------------------------------------
func (h *Handler) ListIngredients(c *gin.Context) {
	ingredients, err := h.service.SearchIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *Handler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ingredient, err := h.service.GetIngredient(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *Handler) CreateIngredient(c *gin.Context) {
	var req IngredientInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ingredient, err := h.service.CreateIngredient(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

// --------------------------------------------------
// Recipes
// --------------------------------------------------
func parseFlag(v string) *bool {
	switch v {
	case "1", "true", "True":
		t := true
		return &t
	case "0", "false", "False":
		f := false
		return &f
	default:
		return nil
	}
}

func (h *Handler) ListRecipes(c *gin.Context) {
	params := pagination.FromRequest(c)

	f := Filter{
		TagSlugs:    c.QueryArray("tags"),
		Viewer:      auth.UserIDFrom(c),
		IsFavorited: parseFlag(c.Query("is_favorited")),
		IsInCart:    parseFlag(c.Query("is_in_shopping_cart")),
		Limit:       params.Limit,
		Offset:      params.Offset(),
	}
	if author := c.Query("author"); author != "" {
		id, err := strconv.ParseInt(author, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"author": "must be an integer"}})
			return
		}
		f.AuthorID = id
	}

	views, total, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, params, total, views))
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), auth.UserIDFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{ID: auth.UserIDFrom(c), Role: auth.RoleFrom(c)}
}

func (h *Handler) CreateRecipe(c *gin.Context) {
	var req RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.service.Create(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *Handler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req RecipeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	view, err := h.service.Update(c.Request.Context(), actorFrom(c), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), actorFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// Favorites / shopping cart
// --------------------------------------------------
func (h *Handler) toggle(rel Relation, action relation.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		summary, err := h.service.Toggle(c.Request.Context(), rel, action, auth.UserIDFrom(c), id)
		if err != nil {
			h.respondError(c, err)
			return
		}
		if summary == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusCreated, summary)
	}
}

func (h *Handler) AddFavorite() gin.HandlerFunc {
	return h.toggle(Favorites, relation.Add)
}

func (h *Handler) RemoveFavorite() gin.HandlerFunc {
	return h.toggle(Favorites, relation.Remove)
}

func (h *Handler) AddToCart() gin.HandlerFunc {
	return h.toggle(ShoppingCart, relation.Add)
}

func (h *Handler) RemoveFromCart() gin.HandlerFunc {
	return h.toggle(ShoppingCart, relation.Remove)
}
