package recipes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/middleware"

	"github.com/gin-gonic/gin"
)

type apiFixture struct {
	*fixture
	router *gin.Engine
	tokens *auth.TokenManager
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := newFixture(t)
	tokens, _ := auth.NewTokenManager("test-secret", time.Hour)
	authn := middleware.NewAuthenticator(tokens, auth.NewInMemoryRevocationStore(), logger.Nop())
	h := NewHandler(f.service, logger.Nop())

	r := gin.New()
	api := r.Group("/api")
	public := api.Group("", authn.OptionalAuth())
	{
		public.GET("/tags", h.ListTags)
		public.GET("/tags/:id", h.GetTag)
		public.GET("/ingredients", h.ListIngredients)
		public.GET("/ingredients/:id", h.GetIngredient)
		public.GET("/recipes", h.ListRecipes)
		public.GET("/recipes/:id", h.GetRecipe)
	}
	private := api.Group("", authn.RequireAuth())
	{
		private.POST("/recipes", h.CreateRecipe)
		private.PATCH("/recipes/:id", h.UpdateRecipe)
		private.DELETE("/recipes/:id", h.DeleteRecipe)
		private.POST("/recipes/:id/favorite", h.AddFavorite())
		private.DELETE("/recipes/:id/favorite", h.RemoveFavorite())
		private.POST("/recipes/:id/shopping_cart", h.AddToCart())
		private.DELETE("/recipes/:id/shopping_cart", h.RemoveFromCart())
	}
	admin := api.Group("", authn.RequireAuth(), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.POST("/tags", h.CreateTag)
		admin.POST("/ingredients", h.CreateIngredient)
	}

	return &apiFixture{fixture: f, router: r, tokens: tokens}
}

func (a *apiFixture) token(t *testing.T, u *auth.User) string {
	t.Helper()
	token, err := a.tokens.Generate(u)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (a *apiFixture) do(method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	a := newAPIFixture(t)
	authorToken := a.token(t, a.author)
	otherToken := a.token(t, a.other)

	w := a.do(http.MethodPost, "/api/recipes", authorToken, a.input("Каша"))
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var created RecipeView
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	path := "/api/recipes/" + strconv.FormatInt(created.ID, 10)

	if w := a.do(http.MethodGet, path, "", nil); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}

	if w := a.do(http.MethodPost, path+"/shopping_cart", otherToken, nil); w.Code != http.StatusCreated {
		t.Fatalf("add to cart: expected 201, got %d", w.Code)
	}
	w = a.do(http.MethodPost, path+"/shopping_cart", otherToken, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second add: expected 400, got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["errors"] != "already exists" {
		t.Fatalf("unexpected error body %v", body)
	}

	if w := a.do(http.MethodDelete, path+"/shopping_cart", otherToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("remove from cart: expected 204, got %d", w.Code)
	}
	if w := a.do(http.MethodDelete, path+"/shopping_cart", otherToken, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("second remove: expected 400, got %d", w.Code)
	}

	if w := a.do(http.MethodPost, path+"/favorite", otherToken, nil); w.Code != http.StatusCreated {
		t.Fatalf("favorite: expected 201, got %d", w.Code)
	}
	w = a.do(http.MethodGet, "/api/recipes?is_favorited=1", otherToken, nil)
	var page struct {
		Count   int          `json:"count"`
		Results []RecipeView `json:"results"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &page)
	if page.Count != 1 || !page.Results[0].IsFavorited {
		t.Fatalf("unexpected favorites page %+v", page)
	}

	if w := a.do(http.MethodDelete, path, otherToken, nil); w.Code != http.StatusForbidden {
		t.Fatalf("delete by stranger: expected 403, got %d", w.Code)
	}
	if w := a.do(http.MethodDelete, path, authorToken, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete by author: expected 204, got %d", w.Code)
	}
	if w := a.do(http.MethodGet, path, "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: expected 404, got %d", w.Code)
	}
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	a := newAPIFixture(t)
	if w := a.do(http.MethodPost, "/api/recipes", "", a.input("Каша")); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestCreateRecipeValidationOverHTTP(t *testing.T) {
	a := newAPIFixture(t)
	in := a.input("Каша")
	in.CookingTime = 0

	w := a.do(http.MethodPost, "/api/recipes", a.token(t, a.author), in)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Errors["cooking_time"] == "" {
		t.Fatalf("expected cooking_time error, got %v", body.Errors)
	}
}

func TestTagsAndIngredientsOverHTTP(t *testing.T) {
	a := newAPIFixture(t)

	w := a.do(http.MethodGet, "/api/tags", "", nil)
	var tags []Tag
	_ = json.Unmarshal(w.Body.Bytes(), &tags)
	if w.Code != http.StatusOK || len(tags) != 1 {
		t.Fatalf("unexpected tags response %d %+v", w.Code, tags)
	}

	w = a.do(http.MethodGet, "/api/ingredients?name="+url.QueryEscape("со"), "", nil)
	var ingredients []Ingredient
	_ = json.Unmarshal(w.Body.Bytes(), &ingredients)
	if len(ingredients) != 1 || ingredients[0].Name != "Соль" {
		t.Fatalf("unexpected ingredients %+v", ingredients)
	}

	if w := a.do(http.MethodGet, "/api/ingredients/999", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	payload := IngredientInput{Name: "Перец", MeasurementUnit: "г"}
	if w := a.do(http.MethodPost, "/api/ingredients", a.token(t, a.author), payload); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", w.Code)
	}
	if w := a.do(http.MethodPost, "/api/ingredients", a.token(t, a.admin), payload); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", w.Code)
	}
}
