// download.go — выдача содержимого объекта по URL или ключу (/api/blob).
package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
)

// FetchResult — содержимое объекта, полностью прочитанное в память.
type FetchResult struct {
	Data        []byte
	ContentType string
}

// DownloadService проксирует чтение объектов из blob-хранилища.
type DownloadService struct {
	backends Backends
	logger   *slog.Logger
}

// NewDownloadService создаёт сервис выдачи файлов.
func NewDownloadService(backends Backends, logger *slog.Logger) *DownloadService {
	return &DownloadService{
		backends: backends,
		logger:   logger.With(slog.String("component", "download_service")),
	}
}

// Fetch читает объект целиком. ref — абсолютный URL, выданный хранилищем,
// или ключ объекта. Любая ошибка чтения (включая отсутствие объекта) — KindStorage.
func (s *DownloadService) Fetch(ctx context.Context, ref string) (result *FetchResult, err error) {
	defer func() {
		blobFetchTotal.WithLabelValues(resultLabel(err)).Inc()
	}()

	if ref == "" {
		return nil, ValidationError("Не указан параметр path")
	}
	if s.backends.Blob == nil {
		return nil, ConfigurationError("Blob-хранилище не настроено")
	}

	key := blob.KeyFromReference(ref, s.backends.Blob.Container())

	obj, err := s.backends.Blob.Download(ctx, key)
	if err != nil {
		s.logger.Error("Ошибка чтения объекта",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, StorageError("Не удалось получить файл", err)
	}
	defer obj.Body.Close()

	var buf bytes.Buffer
	if obj.Size > 0 {
		buf.Grow(int(obj.Size))
	}
	if _, err := io.Copy(&buf, obj.Body); err != nil {
		s.logger.Error("Ошибка чтения содержимого объекта",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return nil, StorageError("Не удалось получить файл", err)
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = DefaultContentType
	}

	return &FetchResult{Data: buf.Bytes(), ContentType: contentType}, nil
}
