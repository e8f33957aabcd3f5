package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/discog/internal/services"
	"github.com/desertthunder/discog/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnvFile(""); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	shared.ApplyEnv(config)

	runner := NewRunner(RunnerOpts{
		Config:   config,
		Registry: services.Default(),
		Logger:   logger,
	})

	app := &cli.Command{
		Name:     "discog",
		Usage:    "Build discography playlists on Pandora, YouTube Music & Spotify from MusicBrainz",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrChoiceCancelled), errors.Is(err, context.Canceled):
			logger.Warn("cancelled")
			stop()
			os.Exit(0)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}
