package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spordle/internal/app"
	"spordle/internal/config"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the game HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			server, err := app.NewServerWithFactory(ctx, cfg, log)
			if err != nil {
				log.Error("Failed to create server", zap.Error(err))
				return fmt.Errorf("create server: %w", err)
			}

			if err := server.Run(ctx); err != nil {
				log.Error("Server stopped with error", zap.Error(err))
				return err
			}

			return nil
		},
	}
}
