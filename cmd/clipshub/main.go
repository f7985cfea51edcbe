// Точка входа GameClipsHub — загрузка, список и выдача игровых клипов и скриншотов.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Garondorf03/GameClipsHub/internal/config"
)

// rootCmd без подкоманды запускает HTTP-сервер.
var rootCmd = &cobra.Command{
	Use:           "clipshub",
	Short:         "GameClipsHub — хранилище игровых клипов и скриншотов",
	Long:          "Веб-сервис загрузки медиафайлов в blob-хранилище с записью метаданных.\nКонфигурация читается из переменных окружения и файла .env.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Запустить HTTP-сервер",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Применить миграции PostgreSQL (CH_DATABASE_URL) и выйти",
	RunE:  runMigrate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Показать версию",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}
