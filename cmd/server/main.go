// Command harmwatch-server starts the AI Harm Watch HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/harmwatch/server/internal/config"
	"github.com/harmwatch/server/internal/limiter"
	"github.com/harmwatch/server/internal/repository/jsonstore"
	"github.com/harmwatch/server/internal/server/httpserver"
	"github.com/harmwatch/server/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, bootstraps the data directory, and starts the
// HTTP server with graceful shutdown on SIGINT/SIGTERM.
func main() {
	cfg := config.New()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.String("dataDir", cfg.DataDir),
	)

	if cfg.JWTSecret == "" {
		logger.Fatal("missing jwt signing key (--jwt-secret or JWT_SECRET)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := jsonstore.New(cfg.DataDir, logger)
	if err != nil {
		logger.Fatal("init store", zap.Error(err))
	}

	// Repositories
	userRepo := jsonstore.NewUserRepo(store)
	caseRepo := jsonstore.NewCaseRepo(store)
	evidenceRepo := jsonstore.NewEvidenceRepo(store)

	lim := limiter.NewMemory(cfg.LoginWindow, cfg.LoginMaxFails, cfg.LoginBlock)

	// Services
	authSvc := service.NewAuthService(userRepo, []byte(cfg.JWTSecret), cfg.TokenTTL, cfg.BcryptCost, lim)
	caseSvc := service.NewCaseService(caseRepo, evidenceRepo, userRepo)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: httpserver.New(authSvc, caseSvc, logger).Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
