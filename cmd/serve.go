package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/koopa0/pilot/api"
	"github.com/koopa0/pilot/internal/app"
	"github.com/koopa0/pilot/internal/config"
	"github.com/koopa0/pilot/internal/log"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agent gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe initializes the application and runs the gateway until interrupted.
func runServe(parent context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := log.New(log.Config{Level: level})
	logger.Info("starting agent gateway", "version", Version)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}

	server, err := api.NewServer(api.ServerConfig{
		Logger:     logger,
		Agent:      a.Agent,
		Registry:   a.Registry,
		Streaming:  cfg.Streaming,
		CORSOrigin: cfg.CORSOrigin,
		Version:    Version,
	})
	if err != nil {
		return fmt.Errorf("creating gateway: %w", err)
	}

	return server.Run(ctx, cfg.Addr())
}
