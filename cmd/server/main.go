package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"hospital-locator/internal/config"
	"hospital-locator/internal/database"
	"hospital-locator/internal/handler"
	"hospital-locator/internal/logger"
	"hospital-locator/internal/repository"
	"hospital-locator/internal/service"
	"hospital-locator/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()

	// 2. Initialize logger
	zapLogger, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "hospital-locator")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	if cfg.JWT.Secret == "your-secret-key" {
		zapLogger.Warn("JWT_SECRET is not set, using the insecure default")
	}

	// 3. Connect to MongoDB. The server still starts without it and
	// reports the store as unavailable.
	ctx := context.Background()
	store, err := database.Connect(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Error("MongoDB unavailable, starting in degraded mode", zap.Error(err))
	}

	// 4. Initialize repositories
	hospitalRepo := repository.NewHospitalRepo(store.Database(), cfg.Mongo.Collection, cfg.Mongo.QueryTimeout)
	auditRepo := repository.NewAuditRepo(store.Database(), cfg.Mongo.QueryTimeout)

	if store != nil {
		if err := hospitalRepo.EnsureIndexes(ctx); err != nil {
			zapLogger.Warn("Failed to ensure hospital indexes", zap.Error(err))
		}
	}

	// 5. Initialize services
	tokens := utils.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	searchService := service.NewSearchService(hospitalRepo, cfg.Search.CacheTTL, zapLogger)
	accountService := service.NewAccountService(hospitalRepo, auditRepo, tokens, searchService, zapLogger, cfg.Security.BcryptCost)

	// 6. Setup router
	gin.SetMode(cfg.Server.GinMode)
	r := handler.NewRouter(cfg, handler.RouterDeps{
		Search:   searchService,
		Accounts: accountService,
		Store:    store,
		Logger:   zapLogger,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	// 7. Serve until interrupted
	go func() {
		zapLogger.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		zapLogger.Error("Failed to close MongoDB connection", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
