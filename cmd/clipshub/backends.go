// backends.go — выбор и инициализация хранилищ по конфигурации.
package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/Garondorf03/GameClipsHub/internal/api/handlers"
	"github.com/Garondorf03/GameClipsHub/internal/config"
	"github.com/Garondorf03/GameClipsHub/internal/service"
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
	"github.com/Garondorf03/GameClipsHub/internal/storage/memstore"
	"github.com/Garondorf03/GameClipsHub/internal/storage/metadata"
)

// storageSet — открытые хранилища и ресурсы, которые нужно закрыть при остановке.
type storageSet struct {
	backends    service.Backends
	blobKind    string
	metaKind    string
	pgDB        *sql.DB
	s3BaseURL   string
	closeLogger *slog.Logger
}

// openStorage создаёт клиентов хранилищ в порядке приоритета из конфигурации.
// Ненастроенное хранилище остаётся nil; некорректные параметры — ошибка старта.
func openStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storageSet, error) {
	set := &storageSet{
		blobKind:    cfg.BlobBackend(),
		metaKind:    cfg.MetadataBackend(),
		closeLogger: logger,
	}

	if err := set.openBlob(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if err := set.openMetadata(ctx, cfg, logger); err != nil {
		set.Close(ctx)
		return nil, err
	}

	logger.Info("Хранилища выбраны",
		slog.String("blob", backendLabel(set.blobKind)),
		slog.String("metadata", backendLabel(set.metaKind)),
	)
	return set, nil
}

func (s *storageSet) openBlob(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch s.blobKind {
	case config.BackendMemory:
		s.backends.Blob = memstore.NewBlobStore(config.BlobContainer, cfg.PublicURL)

	case config.BackendAzure:
		store, err := blob.NewAzureStore(cfg.AzureStorageConnectionString, config.BlobContainer, logger)
		if err != nil {
			return err
		}
		if err := store.EnsureContainer(ctx); err != nil {
			logger.Warn("Не удалось создать контейнер Azure Blob", slog.String("error", err.Error()))
		}
		s.backends.Blob = store

	case config.BackendS3:
		store, err := blob.NewS3Store(ctx, blob.S3Options{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    config.BlobContainer,
		}, logger)
		if err != nil {
			return err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			logger.Warn("Не удалось создать bucket S3", slog.String("error", err.Error()))
		}
		s.backends.Blob = store
		s.s3BaseURL = store.BaseURL()

	case config.BackendNone:
		logger.Warn("Blob-хранилище не настроено: загрузка и выдача файлов недоступны")
	}
	return nil
}

func (s *storageSet) openMetadata(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	switch s.metaKind {
	case config.BackendMemory:
		s.backends.Metadata = memstore.NewMetadataStore()

	case config.BackendCosmos:
		store, err := metadata.NewCosmosStore(cfg.CosmosConnectionString,
			config.MetadataDatabase, config.MetadataCollection, cfg.CosmosPartitionKey, logger)
		if err != nil {
			return err
		}
		s.backends.Metadata = store

	case config.BackendMongo:
		store, err := metadata.NewMongoStore(ctx, cfg.MongoURI,
			config.MetadataDatabase, config.MetadataCollection, logger)
		if err != nil {
			return err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			logger.Warn("Не удалось создать индексы MongoDB", slog.String("error", err.Error()))
		}
		s.backends.Metadata = store

	case config.BackendPostgres:
		if err := metadata.Migrate(cfg.DatabaseURL, logger); err != nil {
			return err
		}
		pool, err := metadata.Connect(ctx, cfg.DatabaseURL, logger)
		if err != nil {
			return err
		}
		store := metadata.NewPostgresStore(pool)
		s.pgDB = stdlib.OpenDBFromPool(store.Pool())
		s.backends.Metadata = store

	case config.BackendNone:
		logger.Warn("Хранилище метаданных не настроено: список строится по содержимому blob-контейнера")
	}
	return nil
}

// readinessTargets возвращает хранилища для /health/ready.
func (s *storageSet) readinessTargets() []handlers.ReadinessTarget {
	blobTarget := handlers.ReadinessTarget{Name: "blob_store", Backend: s.blobKind}
	if s.backends.Blob != nil {
		blobTarget.Pinger = s.backends.Blob
	}
	metaTarget := handlers.ReadinessTarget{Name: "metadata_store", Backend: s.metaKind}
	if s.backends.Metadata != nil {
		metaTarget.Pinger = s.backends.Metadata
	}
	return []handlers.ReadinessTarget{blobTarget, metaTarget}
}

// dephealthTargets возвращает зависимости для topologymetrics.
func (s *storageSet) dephealthTargets(cfg *config.Config) service.DephealthTargets {
	return service.DephealthTargets{
		PostgresDB:   s.pgDB,
		PostgresURL:  cfg.DatabaseURL,
		S3URL:        s.s3BaseURL,
		S3HealthPath: cfg.S3HealthPath,
	}
}

// Close закрывает хранилище метаданных. *sql.DB поверх пула закрывается первым.
func (s *storageSet) Close(ctx context.Context) {
	if s.pgDB != nil {
		_ = s.pgDB.Close()
	}
	if s.backends.Metadata != nil {
		if err := s.backends.Metadata.Close(ctx); err != nil {
			s.closeLogger.Warn("Ошибка закрытия хранилища метаданных", slog.String("error", err.Error()))
		}
	}
}

func backendLabel(kind string) string {
	if kind == config.BackendNone {
		return "none"
	}
	return kind
}
