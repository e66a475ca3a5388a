package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alkime/xivix/internal/config"
	"github.com/alkime/xivix/internal/content"
	"github.com/alkime/xivix/internal/logger"
	"github.com/alkime/xivix/internal/metrics"
	"github.com/alkime/xivix/internal/postformat"
	"github.com/alkime/xivix/internal/provider"
	"github.com/alkime/xivix/internal/server"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup structured logging
	slogger := logger.SetupLogger(cfg)

	slogger.Info("Starting xivix server",
		"env", cfg.Env,
		"port", cfg.Port,
		"provider", cfg.Provider,
		"provider_configured", cfg.ProviderAPIKey() != "",
		"pipeline", cfg.PresetName(),
	)

	m := metrics.New()
	svc := content.NewService(content.Options{
		Kind:          cfg.ProviderKind(),
		Factory:       provider.NewFactory(cfg.ProviderKind(), cfg.ProviderModel),
		APIKey:        cfg.ProviderAPIKey(),
		Timeout:       cfg.ProviderTimeout,
		Pipeline:      postformat.New(cfg.Pipeline()),
		PresetName:    cfg.PresetName(),
		MaxBulkTopics: cfg.BulkMaxTopics,
		Recorder:      m,
		Logger:        slogger,
	})

	srv, err := server.New(cfg, slogger, svc, m)
	if err != nil {
		slogger.Error("Failed to build server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		slogger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
