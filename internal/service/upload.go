// upload.go — сервис загрузки медиафайлов: blob-хранилище, затем запись метаданных.
package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
)

// DefaultContentType — MIME-тип, если клиент его не передал.
const DefaultContentType = "application/octet-stream"

// UploadInput — параметры загрузки из multipart-формы.
type UploadInput struct {
	// File — содержимое файла (nil — часть file отсутствует)
	File io.Reader
	// OriginalFilename — имя файла из части file
	OriginalFilename string
	// ContentType — MIME-тип из заголовка части file
	ContentType string
	// Size — размер файла в байтах (из заголовка части, для метрик)
	Size int64
	// FileName, UserID, UserName — необязательные поля формы
	FileName string
	UserID   string
	UserName string
}

// UploadResult — результат успешной загрузки.
type UploadResult struct {
	BlobURL  string
	BlobPath string
}

// UploadService выполняет загрузку файла и регистрацию его метаданных.
type UploadService struct {
	backends Backends
	cache    *ContentTypeCache
	logger   *slog.Logger
	now      func() time.Time
}

// NewUploadService создаёт сервис загрузки. cache — тот же кэш MIME-типов,
// что у ListingService (может быть nil): перезаписанный объект из него вытесняется.
func NewUploadService(backends Backends, cache *ContentTypeCache, logger *slog.Logger) *UploadService {
	return &UploadService{
		backends: backends,
		cache:    cache,
		logger:   logger.With(slog.String("component", "upload_service")),
		now:      time.Now,
	}
}

// Upload записывает файл в blob-хранилище под ключом {userID}/{timestamp}_{filename}
// и, если настроено хранилище метаданных, создаёт запись AssetRecord.
// Между двумя записями нет транзакции: при ошибке вставки метаданных
// blob остаётся в хранилище.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (result *UploadResult, err error) {
	defer func() {
		uploadsTotal.WithLabelValues(resultLabel(err)).Inc()
	}()

	if in.File == nil {
		return nil, ValidationError("Файл не передан")
	}
	if in.OriginalFilename == "" {
		return nil, ValidationError("Файл не выбран")
	}
	if s.backends.Blob == nil {
		return nil, ConfigurationError("Blob-хранилище не настроено")
	}

	// В записи метаданных — тип, как его прислал клиент (может быть пустым);
	// объекту в хранилище нужен конкретный тип для выдачи.
	rec := model.NewAssetRecord(in.FileName, in.UserID, in.UserName, in.OriginalFilename, in.ContentType, s.now())
	blobType := model.OrDefault(in.ContentType, DefaultContentType)

	// multipart.File реализует io.Seeker, что нужно S3 SDK для подписи тела
	if err := s.backends.Blob.Upload(ctx, rec.BlobPath, in.File, blobType); err != nil {
		s.logger.Error("Ошибка записи в blob-хранилище",
			slog.String("blob_path", rec.BlobPath),
			slog.String("error", err.Error()),
		)
		return nil, StorageError("Не удалось сохранить файл", err)
	}
	uploadBytesTotal.Add(float64(in.Size))
	if s.cache != nil {
		s.cache.Delete(rec.BlobPath)
	}

	blobURL, err := s.backends.Blob.URL(rec.BlobPath)
	if err != nil {
		s.logger.Error("Ошибка получения URL blob",
			slog.String("blob_path", rec.BlobPath),
			slog.String("error", err.Error()),
		)
		return nil, StorageError("Не удалось получить URL файла", err)
	}
	rec.BlobURL = blobURL

	if s.backends.Metadata != nil {
		if err := s.backends.Metadata.Insert(ctx, rec); err != nil {
			orphanBlobsTotal.Inc()
			s.logger.Warn("Blob сохранён без записи метаданных",
				slog.String("blob_path", rec.BlobPath),
				slog.String("id", rec.ID),
				slog.String("error", err.Error()),
			)
			return nil, StorageError("Не удалось сохранить метаданные файла", err)
		}
	}

	s.logger.Info("Файл загружен",
		slog.String("blob_path", rec.BlobPath),
		slog.String("user_id", rec.UserID),
		slog.String("content_type", blobType),
		slog.Int64("size", in.Size),
		slog.Bool("metadata", s.backends.Metadata != nil),
	)

	return &UploadResult{BlobURL: blobURL, BlobPath: rec.BlobPath}, nil
}
