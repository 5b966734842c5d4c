package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/signup-site/internal/app"
	"github.com/nekogravitycat/signup-site/internal/config"
	"github.com/nekogravitycat/signup-site/internal/logging"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.Setup(*cfg)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	container, err := app.NewContainer(app.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		APIBaseURL:    cfg.APIBaseURL,
		APITimeout:    cfg.APITimeout,
		UsersPageSize: cfg.UsersPageSize,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		SessionMax:    cfg.SessionMax,
		Logger:        logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize application")
	}

	serverLog := logging.Component("server")

	// Expire idle visitor sessions
	go container.Sessions.Run(ctx, cfg.SessionSweepInterval)

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		serverLog.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLog.WithError(err).Fatal("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	serverLog.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		serverLog.WithError(err).Warn("server forced to shutdown")
	}

	serverLog.Info("server exited gracefully")
}
