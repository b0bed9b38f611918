package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"voicenotes/api"
	"voicenotes/config"
	"voicenotes/pkg/logger"
)

// App is the assembled application: router, HTTP server and the shared
// database handle. Use NewBuilder to construct one.
type App struct {
	config *config.Config
	router *api.Router
	server *http.Server
	db     *gorm.DB
}

// Run starts the HTTP server and blocks until SIGINT/SIGTERM, then shuts
// down gracefully within the configured timeout.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
		return err
	}

	a.close()
	logger.Info("Server stopped")
	return nil
}

func (a *App) close() {
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				logger.Warn("Failed to close database", zap.Error(err))
			}
		}
	}
	_ = logger.Sync()
}

// GetEngine returns the underlying Gin engine, mainly for tests.
func (a *App) GetEngine() http.Handler {
	return a.router.GetEngine()
}
