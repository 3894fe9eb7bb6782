package router

import (
	"net/http"
	"strings"
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/logger"
	"foodgram/internal/middleware"
	"foodgram/internal/recipes"
	"foodgram/internal/shopping"
	"foodgram/internal/subscriptions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Options struct {
	CORSOrigins []string
	// MediaRoot is served under MediaURL when images are stored locally.
	MediaRoot string
	MediaURL  string
}

type Handlers struct {
	Auth          *auth.Handler
	Subscriptions *subscriptions.Handler
	Recipes       *recipes.Handler
	Shopping      *shopping.Handler
}

func NewRouter(opts Options, authn *middleware.Authenticator, h Handlers, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.Metrics(),
		cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	// ───────────────────────── HEALTH / METRICS ─────────────────────────
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if opts.MediaRoot != "" && strings.HasPrefix(opts.MediaURL, "/") {
		r.Static(opts.MediaURL, opts.MediaRoot)
	}

	api := r.Group("/api")
	public := api.Group("", authn.OptionalAuth())
	private := api.Group("", authn.RequireAuth())
	admin := api.Group("", authn.RequireAuth(), middleware.RequireRole(auth.RoleAdmin))

	// ───────────────────────── USERS / AUTH ─────────────────────────
	{
		public.POST("/users", h.Auth.Register)
		public.GET("/users", h.Auth.ListUsers)
		public.GET("/users/:id", h.Auth.GetUser)
		public.POST("/auth/token/login", h.Auth.Login)

		private.GET("/users/me", h.Auth.Me)
		private.POST("/users/set_password", h.Auth.SetPassword)
		private.POST("/auth/token/logout", h.Auth.Logout)
	}

	// ───────────────────────── SUBSCRIPTIONS ─────────────────────────
	{
		private.GET("/users/subscriptions", h.Subscriptions.List)
		private.POST("/users/:id/subscribe", h.Subscriptions.Subscribe())
		private.DELETE("/users/:id/subscribe", h.Subscriptions.Unsubscribe())
	}

	// ───────────────────────── TAGS / INGREDIENTS ─────────────────────────
	{
		public.GET("/tags", h.Recipes.ListTags)
		public.GET("/tags/:id", h.Recipes.GetTag)
		public.GET("/ingredients", h.Recipes.ListIngredients)
		public.GET("/ingredients/:id", h.Recipes.GetIngredient)

		admin.POST("/tags", h.Recipes.CreateTag)
		admin.POST("/ingredients", h.Recipes.CreateIngredient)
	}

	// ───────────────────────── RECIPES ─────────────────────────
	{
		public.GET("/recipes", h.Recipes.ListRecipes)
		public.GET("/recipes/:id", h.Recipes.GetRecipe)

		private.GET("/recipes/download_shopping_cart", h.Shopping.Download)
		private.POST("/recipes", h.Recipes.CreateRecipe)
		private.PATCH("/recipes/:id", h.Recipes.UpdateRecipe)
		private.DELETE("/recipes/:id", h.Recipes.DeleteRecipe)
		private.POST("/recipes/:id/favorite", h.Recipes.AddFavorite())
		private.DELETE("/recipes/:id/favorite", h.Recipes.RemoveFavorite())
		private.POST("/recipes/:id/shopping_cart", h.Recipes.AddToCart())
		private.DELETE("/recipes/:id/shopping_cart", h.Recipes.RemoveFromCart())
	}

	return r
}
