package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"foodgram/internal/auth"
	"foodgram/internal/config"
	"foodgram/internal/db"
	"foodgram/internal/logger"
	"foodgram/internal/middleware"
	"foodgram/internal/recipes"
	"foodgram/internal/router"
	"foodgram/internal/shopping"
	"foodgram/internal/storage"
	"foodgram/internal/subscriptions"

	"github.com/gin-gonic/gin"
)

func main() {
	// ───────────────────────── CONFIG ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	mode := "development"
	if cfg.IsProduction() {
		mode = "production"
	}
	log, err := logger.New(mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", "error", err)
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pgDB, err := db.ConnectPostgres(ctx, cfg.Database.URL, log)
	if err != nil {
		log.Fatal("database init failed", "error", err)
	}
	defer pgDB.Close()

	// ───────────────────────── AUTH ─────────────────────────
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal("token manager init failed", "error", err)
	}

	var revoked auth.RevocationStore = auth.NewInMemoryRevocationStore()
	if cfg.Redis.Addr != "" {
		client, err := auth.ConnectRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal("redis init failed", "addr", cfg.Redis.Addr, "error", err)
		}
		defer client.Close()
		revoked = auth.NewRedisRevocationStore(client)
		log.Info("token revocation backed by redis", "addr", cfg.Redis.Addr)
	} else {
		log.Warn("REDIS_ADDR not set, revoked tokens are kept in memory")
	}

	// ───────────────────────── STORAGE ─────────────────────────
	var images storage.ImageStore
	mediaRoot := ""
	if cfg.UseS3() {
		s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
			Endpoint:      cfg.S3.Endpoint,
			AccessKey:     cfg.S3.AccessKey,
			SecretKey:     cfg.S3.SecretKey,
			Bucket:        cfg.S3.Bucket,
			PublicBaseURL: cfg.S3.PublicBaseURL,
		})
		if err != nil {
			log.Fatal("object storage init failed", "error", err)
		}
		images = s3Store
	} else {
		images = storage.NewLocalStore(cfg.Media.Root, cfg.Media.URL)
		mediaRoot = cfg.Media.Root
	}

	// ───────────────────────── SHOPPING LIST ─────────────────────────
	renderer, err := shopping.NewRenderer(shopping.RendererOptions{
		FontPath:      cfg.Shopping.FontPath,
		Transliterate: cfg.Shopping.Transliterate,
	})
	if err != nil {
		log.Fatal("shopping list renderer init failed", "error", err)
	}

	// ───────────────────────── REPOS / SERVICES ─────────────────────────
	userRepo := auth.NewPostgresUserRepository(pgDB)
	subsRepo := subscriptions.NewPostgresRepository(pgDB)
	catalogRepo := recipes.NewPostgresCatalogRepository(pgDB)
	recipeRepo := recipes.NewPostgresRepository(pgDB)

	authService := auth.NewService(userRepo)
	subsService := subscriptions.NewService(subsRepo, userRepo, recipeRepo, log)
	recipeService := recipes.NewService(recipeRepo, catalogRepo, userRepo, subsRepo, images, log)
	exporter := shopping.NewExporter(
		shopping.NewAggregator(shopping.NewPostgresCartReader(pgDB)),
		renderer,
		cfg.Shopping.TempDir,
		log,
	)

	// ───────────────────────── ROUTER ─────────────────────────
	r := router.NewRouter(
		router.Options{
			CORSOrigins: cfg.HTTP.CORSOrigins,
			MediaRoot:   mediaRoot,
			MediaURL:    cfg.Media.URL,
		},
		middleware.NewAuthenticator(tokens, revoked, log),
		router.Handlers{
			Auth:          auth.NewHandler(authService, tokens, revoked, subsRepo, log),
			Subscriptions: subscriptions.NewHandler(subsService, log),
			Recipes:       recipes.NewHandler(recipeService, log),
			Shopping:      shopping.NewHandler(exporter),
		},
		log,
	)

	// ───────────────────────── START ─────────────────────────
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
