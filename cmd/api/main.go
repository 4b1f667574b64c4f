package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gravadigital/tally-api/internal/auth"
	"github.com/gravadigital/tally-api/internal/config"
	"github.com/gravadigital/tally-api/internal/logger"
	"github.com/gravadigital/tally-api/internal/server"
	"github.com/gravadigital/tally-api/internal/services"
	"github.com/gravadigital/tally-api/internal/storage"
	"github.com/gravadigital/tally-api/internal/storage/blob"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Log.Level)
	log := logger.Get()

	if cfg.IsProduction() && cfg.Auth.JWTSecret == "change-me-in-production" {
		log.Fatal("JWT_SECRET must be set in production")
	}

	factory, err := storage.FromConfig(cfg)
	if err != nil {
		log.Fatal("Invalid storage configuration", "error", err)
	}

	container, err := factory.CreateContainer(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			log.Error("Failed to close storage", "error", err)
		}
	}()

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	flags, err := blob.NewFromConfig(startupCtx, cfg)
	cancel()
	if err != nil {
		log.Fatal("Failed to initialize flag storage", "backend", cfg.Blob.Backend, "error", err)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	deps := server.Dependencies{
		Election:    services.NewElectionService(container.Voters(), container.Candidates(), flags),
		Auth:        services.NewAuthService(container.Voters(), tokens, cfg.Auth.AdminSecret),
		Tokens:      tokens,
		Health:      container.Health,
		StorageInfo: container.Info,
	}
	if local, ok := flags.(*blob.LocalFlagStore); ok {
		deps.UploadsDir = local.Dir()
	}

	srv := server.New(cfg, deps)

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("Server failed", "error", err)
		}
	}()

	log.Info("Tally API started", "port", cfg.Server.Port, "storage", cfg.Storage.Backend, "flags", cfg.Blob.Backend)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	log.Info("Server exited")
}
