package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/twinhealth/healthdash/internal/backend"
	"github.com/twinhealth/healthdash/internal/config"
	"github.com/twinhealth/healthdash/internal/dashboard"
	"github.com/twinhealth/healthdash/internal/session"
	"github.com/twinhealth/healthdash/internal/tokenstore"
	"github.com/twinhealth/healthdash/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	var logger *zap.Logger
	if cfg.Server.Environment == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Server.Environment),
		zap.String("addr", cfg.Server.Addr),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	store, err := tokenstore.Open(cfg.Storage.DataDir, logger)
	if err != nil {
		logger.Fatal("failed to open token store", zap.Error(err))
	}

	sess := session.New(store, logger)
	if err := sess.Hydrate(); err != nil {
		logger.Warn("failed to hydrate session from stored credentials", zap.Error(err))
	}
	sess.Subscribe(func() {
		logger.Info("session ended")
	})

	client, err := backend.New(cfg.Backend.BaseURL, cfg.Backend.Timeout, store, logger)
	if err != nil {
		logger.Fatal("failed to create backend client", zap.Error(err))
	}

	dash := dashboard.NewService(client, logger)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	server := web.NewServer(client, sess, dash, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: server.Router(),
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
