package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kiyotox/starbridge/internal/config"
	"github.com/kiyotox/starbridge/internal/gateway"
	"github.com/kiyotox/starbridge/internal/history"
	"github.com/kiyotox/starbridge/internal/knowledge"
	"github.com/kiyotox/starbridge/internal/logger"
	"github.com/kiyotox/starbridge/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.L.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger.SetLevel(cfg.Log.Level)

	base := knowledge.Default()

	gw, err := gateway.New(cfg.LLM, base)
	if err != nil {
		logger.L.Error("failed to initialize model gateway", "error", err)
		os.Exit(1)
	}

	store := history.NewStore(knowledge.Greeting(base))
	defer store.Close()

	srv := server.New(cfg.Server, gw, store, base)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.L.Error("server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.L.Info("signal received, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L.Error("shutdown did not complete cleanly", "error", err)
		os.Exit(1)
	}
}
