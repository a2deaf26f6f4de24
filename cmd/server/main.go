// Package main implements the entry point for the vitals server, which
// grades nutrient intake against reference targets and evaluates goals and
// achievements from logged entries.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/phrazzld/vitals/internal/config"
	"github.com/phrazzld/vitals/internal/platform/logger"
	"github.com/phrazzld/vitals/internal/telemetry"
)

// version is set at build time via -ldflags.
var version = "dev"

// configFileEnv names a config file to load instead of ./config.yaml.
const configFileEnv = "VITALS_CONFIG_FILE"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run loads configuration, builds the application and serves HTTP until ctx
// is cancelled.
func run(ctx context.Context) error {
	// A .env file is optional; production sets the environment directly.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Info("vitals starting",
		slog.String("version", version),
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.String("timezone", cfg.Evaluation.Timezone))

	otelShutdown, err := telemetry.Init(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app, err := newApplication(cfg, log)
	if err != nil {
		_ = otelShutdown(context.Background())
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	app.telemetryShutdown = otelShutdown

	return app.startHTTPServer(ctx, app.setupRouter())
}

func loadConfig() (*config.Config, error) {
	if path := os.Getenv(configFileEnv); path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}
