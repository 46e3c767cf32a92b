package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mealdex/backend/config"
	"github.com/mealdex/backend/internal/logger"
	"github.com/mealdex/backend/internal/server"
)

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.L().Fatal("failed to load configuration", zap.Error(err))
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.L().Fatal("failed to initialize server", zap.Error(err))
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			logger.L().Fatal("server error", zap.Error(err))
		}
	case sig := <-quit:
		logger.L().Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.L().Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Fatal("server shutdown error", zap.Error(err))
	}
	logger.L().Info("server stopped")
}
