package main

import (
	"errors"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"spordle/internal/config"
	"spordle/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create database tables and seed default configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.FromEnv()
			if cfg.DatabaseURL == "" {
				return errors.New("DB_DSN is required")
			}

			log := newLogger(cfg)
			defer func() { _ = log.Sync() }()

			opts := storage.DefaultConnectOptions()
			opts.MaxRetries = 3

			db, err := storage.NewPostgres(cmd.Context(), cfg.DatabaseURL, opts, log)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			if err := db.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Database schema is up to date")
			return nil
		},
	}
}
