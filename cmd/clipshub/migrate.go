// migrate.go — применение миграций PostgreSQL без запуска сервера.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Garondorf03/GameClipsHub/internal/config"
	"github.com/Garondorf03/GameClipsHub/internal/storage/metadata"
)

var errNoDatabase = errors.New("CH_DATABASE_URL не задан")

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return errNoDatabase
	}

	logger := config.SetupLogger(cfg)
	return metadata.Migrate(cfg.DatabaseURL, logger)
}
