package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/middleware"
	"foodgram/internal/recipes"
	"foodgram/internal/shopping"
	"foodgram/internal/storage"
	"foodgram/internal/subscriptions"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.Nop()

	users := auth.NewInMemoryUserRepository()
	subsRepo := subscriptions.NewInMemoryRepository()
	catalog := recipes.NewInMemoryCatalogRepository()
	recipeRepo := recipes.NewInMemoryRepository(catalog)

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	revoked := auth.NewInMemoryRevocationStore()

	renderer, err := shopping.NewRenderer(shopping.RendererOptions{Transliterate: true, Labels: shopping.DefaultLabels()})
	if err != nil {
		t.Fatal(err)
	}
	exporter := shopping.NewExporter(
		shopping.NewAggregator(shopping.NewInMemoryCartReader()),
		renderer,
		t.TempDir(),
		log,
	)

	return NewRouter(
		Options{CORSOrigins: []string{"http://localhost:3000"}},
		middleware.NewAuthenticator(tokens, revoked, log),
		Handlers{
			Auth:          auth.NewHandler(auth.NewService(users), tokens, revoked, subsRepo, log),
			Subscriptions: subscriptions.NewHandler(subscriptions.NewService(subsRepo, users, recipeRepo, log), log),
			Recipes: recipes.NewHandler(
				recipes.NewService(recipeRepo, catalog, users, subsRepo, storage.NewLocalStore(t.TempDir(), "/media"), log),
				log,
			),
			Shopping: shopping.NewHandler(exporter),
		},
		log,
	)
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "foodgram_http_requests_total") {
		t.Fatalf("expected http request counter in exposition")
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{
		"/api/users/me",
		"/api/users/subscriptions",
		"/api/recipes/download_shopping_cart",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s: expected 401, got %d", path, w.Code)
		}
	}
}

func TestRegisterLoginAndDownload(t *testing.T) {
	r := newTestRouter(t)

	post := func(path, token string, body any) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/api/users", "", map[string]string{
		"email":      "cook@example.com",
		"username":   "cook",
		"first_name": "Иван",
		"last_name":  "Повар",
		"password":   "s3cret-pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = post("/api/auth/token/login", "", map[string]string{"email": "cook@example.com", "password": "s3cret-pass"})
	var login struct {
		Token string `json:"auth_token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &login)
	if w.Code != http.StatusOK || login.Token == "" {
		t.Fatalf("login: expected token, got %d: %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/recipes/download_shopping_cart", nil)
	req.Header.Set("Authorization", "Token "+login.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("expected a PDF document")
	}
}
