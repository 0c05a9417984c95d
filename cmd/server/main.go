package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/labstack/echo/v4"

	"swarmfeedback/docs"
	"swarmfeedback/internal/auth"
	"swarmfeedback/internal/cache"
	"swarmfeedback/internal/config"
	"swarmfeedback/internal/filestore"
	"swarmfeedback/internal/handler"
	"swarmfeedback/internal/logging"
	"swarmfeedback/internal/mail"
	"swarmfeedback/internal/metrics"
	"swarmfeedback/internal/router"
	"swarmfeedback/internal/service"
	"swarmfeedback/internal/storage"
)

// @title Swarm Feedback API
// @version 1.0
// @description Submissions, moderated feedback, reviewer gamification and JWT authentication.
// @host localhost:8082
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		slog.Error("refusing to start with default secrets", "error", err)
		os.Exit(1)
	}
	if keys := cfg.InsecureDefaults(); len(keys) > 0 {
		slog.Warn("using development default secrets", "keys", keys)
	}

	sentryEnabled := initSentry(cfg)
	if sentryEnabled {
		defer sentry.Flush(2 * time.Second)
	}

	store, err := storage.Open(cfg)
	if err != nil {
		slog.Error("store init failed", "error", err)
		os.Exit(1)
	}
	defer storage.Close(context.Background(), store)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		slog.Warn("redis unavailable, running without cache and token revocation", "addr", cfg.RedisAddr, "error", err)
	}

	files, err := openFileStore(cfg)
	if err != nil {
		slog.Error("file store init failed", "error", err)
		os.Exit(1)
	}

	m := metrics.New("swarm_feedback")

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	activityService := service.NewActivityService(store.Activity, m)
	userService := service.NewUserService(store, cacheClient,
		service.UserOptions{Tokens: tokenStore, TokenTTL: cfg.JWTExpiry})
	authService := service.NewAuthService(store.Users, jwtService, tokenStore, activityService, mail.New(cfg.SMTP), cacheClient, m,
		service.AuthOptions{ResetTokenExpiry: cfg.ResetTokenExpiry, FrontendURL: cfg.FrontendURL})
	submissionService := service.NewSubmissionService(store.Submissions, activityService, m)
	feedbackService := service.NewFeedbackService(store, userService, activityService, m,
		service.FeedbackOptions{AutoApproveAdmin: cfg.AutoApproveAdminFeedback})
	messageService := service.NewMessageService(store.Messages)
	fileService := service.NewFileService(files, cfg.PublicBaseURL)

	if created, err := authService.EnsureSysadmin(context.Background(), cfg.SysadminPassword); err != nil {
		slog.Error("sysadmin bootstrap failed", "error", err)
	} else if created {
		slog.Info("sysadmin account created", "username", service.SysadminUsername)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, router.Options{
		JWT:            jwtService,
		Tokens:         tokenStore,
		Metrics:        m,
		CORSOrigins:    cfg.CORSOrigins,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Sentry:         sentryEnabled,
	}, router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Submissions: handler.NewSubmissionHandler(submissionService),
		Feedback:    handler.NewFeedbackHandler(feedbackService),
		Users:       handler.NewUserHandler(userService, fileService),
		Activity:    handler.NewActivityHandler(activityService),
		Messages:    handler.NewMessageHandler(messageService),
		Files:       handler.NewFileHandler(fileService),
		Health:      handler.NewHealthHandler(store.Ping),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + cfg.ServerPort
	go func() {
		slog.Info("server starting", "addr", addr, "env", cfg.AppEnv, "store", cfg.StoreDriver, "files", cfg.FileStorage)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server start failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
}

func initSentry(cfg *config.Config) bool {
	if cfg.SentryDSN == "" {
		return false
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		EnableTracing:    true,
		TracesSampleRate: 0.2,
	}); err != nil {
		slog.Error("sentry init failed", "error", err)
		return false
	}
	return true
}

func openFileStore(cfg *config.Config) (filestore.Store, error) {
	if cfg.FileStorage != config.FileStorageMinIO {
		return filestore.NewLocalStore(cfg.UploadDir)
	}
	store, err := filestore.NewMinIOStore(cfg.MinIO)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return store, nil
}
