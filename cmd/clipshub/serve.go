// serve.go — запуск HTTP-сервера со всеми компонентами.
package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Garondorf03/GameClipsHub/internal/api/handlers"
	"github.com/Garondorf03/GameClipsHub/internal/api/openapi"
	"github.com/Garondorf03/GameClipsHub/internal/config"
	"github.com/Garondorf03/GameClipsHub/internal/server"
	"github.com/Garondorf03/GameClipsHub/internal/service"
	"github.com/Garondorf03/GameClipsHub/internal/ui/pages"
)

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("ошибка конфигурации: %w", err)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("GameClipsHub запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.Int64("max_upload_size", cfg.MaxUploadSize),
	)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// 1. OpenAPI-документ: некорректный контракт — ошибка старта
	openapiJSON, err := openapi.JSON(ctx)
	if err != nil {
		return err
	}

	// 2. Хранилища
	storage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("ошибка инициализации хранилищ: %w", err)
	}
	defer storage.Close(context.Background())

	// 3. Сервисный слой
	cache := service.NewContentTypeCache(cfg.ContentTypeCacheSize, cfg.ContentTypeCacheTTL)
	uploadSvc := service.NewUploadService(storage.backends, cache, logger)
	listingSvc := service.NewListingService(storage.backends, cache, logger)
	downloadSvc := service.NewDownloadService(storage.backends, logger)

	// 4. topologymetrics — мониторинг зависимостей (PostgreSQL + S3)
	dephealthSvc := startDephealth(ctx, cfg, storage, logger)
	if dephealthSvc != nil {
		defer dephealthSvc.Stop()
	}

	// 5. HTTP handlers
	files := handlers.NewFilesHandler(uploadSvc, listingSvc, downloadSvc, cfg.MaxUploadSize, logger)
	health := handlers.NewHealthHandler(storage.readinessTargets()...)
	pagesHandler := handlers.NewPagesHandler(pages.IndexData{
		Version:        config.Version,
		MaxUploadMB:    cfg.MaxUploadSize >> 20,
		BlobConfigured: storage.backends.Blob != nil,
	}, openapiJSON, logger)

	// 6. HTTP-сервер (блокирует до сигнала завершения)
	srv := server.New(cfg, logger, handlers.NewAPIHandler(files, health, pagesHandler))
	if err := srv.Run(ctx); err != nil {
		return err
	}

	logger.Info("GameClipsHub остановлен")
	return nil
}

// startDephealth запускает topologymetrics, если он включён.
// Ошибка создания или запуска не останавливает сервис.
func startDephealth(ctx context.Context, cfg *config.Config, storage *storageSet, logger *slog.Logger) *service.DephealthService {
	if !cfg.DephealthEnabled {
		return nil
	}

	dephealthSvc, err := service.NewDephealthService(
		"clipshub",
		cfg.DephealthGroup,
		storage.dephealthTargets(cfg),
		cfg.DephealthCheckInterval,
		logger,
	)
	if err != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", err.Error()),
		)
		return nil
	}
	if err := dephealthSvc.Start(ctx); err != nil {
		logger.Warn("Ошибка запуска topologymetrics", slog.String("error", err.Error()))
		return nil
	}

	logger.Info("topologymetrics запущен",
		slog.String("group", cfg.DephealthGroup),
		slog.String("check_interval", cfg.DephealthCheckInterval.String()),
	)
	return dephealthSvc
}
