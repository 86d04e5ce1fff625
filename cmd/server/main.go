package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/nebegreg/Timeline-comfyui/internal/config"
	"github.com/nebegreg/Timeline-comfyui/internal/logging"
	"github.com/nebegreg/Timeline-comfyui/internal/relay"
	"github.com/nebegreg/Timeline-comfyui/internal/server"
	"github.com/nebegreg/Timeline-comfyui/internal/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func warnOpenAuth(cfg *config.Config) {
	if cfg.AppEnv != "production" {
		return
	}
	if !cfg.WebhookAuthEnforced() {
		slog.Warn("RELAY_WEBHOOK_TOKEN is unset: webhook ingestion accepts any caller")
	}
	if !cfg.ClientAuthEnforced() {
		slog.Warn("ACCEPT_CLIENT_BEARER is unset: viewer admission accepts any credential")
	}
}

func runGracefulShutdown(srv *server.Server, registry *relay.Registry) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		registry.CloseAll("server shutting down")

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Relay starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Get().Version)
	warnOpenAuth(cfg)

	registry := relay.NewRegistry()
	dispatcher := relay.NewDispatcher(registry)

	srv := server.NewServer(cfg, registry, dispatcher, clock)

	done := runGracefulShutdown(srv, registry)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
