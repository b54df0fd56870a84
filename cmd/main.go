package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/swimboards/recordboard/config"
	"github.com/swimboards/recordboard/db"
	"github.com/swimboards/recordboard/handlers"
	"github.com/swimboards/recordboard/live"
	"github.com/swimboards/recordboard/middleware"
	"github.com/swimboards/recordboard/repositories"
	api "github.com/swimboards/recordboard/routes"
	"github.com/swimboards/recordboard/services"
	"github.com/swimboards/recordboard/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Logo storage is optional; without it the upload endpoint reports an
	// error but everything else works.
	var uploader storage.FileUploader
	if cfg.LogoStorageEnabled() {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2BucketName,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("Cloudflare R2 uploader initialized")
	} else {
		logger.Info("logo storage not configured, uploads disabled")
	}

	wsHub := live.NewHub(logger)
	go wsHub.Run()
	logger.Info("live update hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	clubRepo := repositories.NewPostgresClubRepository(dbConn)
	membershipRepo := repositories.NewPostgresMembershipRepository(dbConn)
	listRepo := repositories.NewPostgresRecordListRepository(dbConn)
	recordRepo := repositories.NewPostgresRecordRepository(dbConn)
	prefRepo := repositories.NewPostgresPrefRepository(dbConn)
	logger.Info("repositories initialized")

	authService := services.NewAuthService(userRepo)
	clubService := services.NewClubService(dbConn, clubRepo, membershipRepo, prefRepo, uploader)
	membershipService := services.NewMembershipService(dbConn, membershipRepo, userRepo)
	listService := services.NewRecordListService(listRepo, clubRepo, membershipRepo, wsHub)
	recordService := services.NewRecordService(dbConn, recordRepo, listRepo, clubRepo, membershipRepo, wsHub)
	importService := services.NewImportService(dbConn, listRepo, recordRepo, clubRepo, membershipRepo, wsHub)
	publicService := services.NewPublicService(clubRepo, listRepo, recordRepo, uploader)
	logger.Info("services initialized")

	authHandler := handlers.NewAuthHandler(authService, cfg.JWTSecretKey)
	clubHandler := handlers.NewClubHandler(clubService)
	memberHandler := handlers.NewMemberHandler(membershipService)
	listHandler := handlers.NewRecordListHandler(listService, recordService)
	recordHandler := handlers.NewRecordHandler(recordService)
	importHandler := handlers.NewImportHandler(importService)
	publicHandler := handlers.NewPublicHandler(publicService)
	wsHandler := handlers.NewWebSocketHandler(wsHub, publicService)
	logger.Info("HTTP handlers initialized")

	router := chi.NewRouter()
	api.SetupRoutes(
		router,
		middleware.NewAuthenticator(cfg.JWTSecretKey),
		authHandler,
		clubHandler,
		memberHandler,
		listHandler,
		recordHandler,
		importHandler,
		publicHandler,
		wsHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
