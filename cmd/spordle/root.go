package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"spordle/internal/config"
	"spordle/pkg/logger"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "spordle",
		Short:         "Song guessing game over your Spotify listening history",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCommand())
	root.AddCommand(newMigrateCommand())
	root.AddCommand(newJudgeCommand())

	return root
}

// newLogger создает логгер по настройкам окружения
func newLogger(cfg *config.Config) *zap.Logger {
	return logger.New(logger.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogPath,
		DataDir:  cfg.AppDataDir,
	})
}
