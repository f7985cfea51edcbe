// listing.go — сервис списка загруженных файлов.
// Источник — хранилище метаданных; без него — листинг blob-контейнера.
package service

import (
	"context"
	"log/slog"
	"path"
	"sort"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
)

// Источники листинга (лейбл метрики ch_listings_total).
const (
	ListingSourceMetadata = "metadata"
	ListingSourceBlob     = "blob"
	ListingSourceNone     = "none"
)

// ListingService формирует список файлов для /api/images.
type ListingService struct {
	backends Backends
	cache    *ContentTypeCache
	logger   *slog.Logger
}

// NewListingService создаёт сервис листинга. cache может быть nil.
func NewListingService(backends Backends, cache *ContentTypeCache, logger *slog.Logger) *ListingService {
	return &ListingService{
		backends: backends,
		cache:    cache,
		logger:   logger.With(slog.String("component", "listing_service")),
	}
}

// List возвращает записи от новых к старым. Если не настроено ни одно
// хранилище, возвращается пустой (не nil) срез.
func (s *ListingService) List(ctx context.Context) ([]model.AssetRecord, error) {
	switch {
	case s.backends.Metadata != nil:
		listingsTotal.WithLabelValues(ListingSourceMetadata).Inc()
		records, err := s.backends.Metadata.ListRecent(ctx)
		if err != nil {
			s.logger.Error("Ошибка запроса метаданных", slog.String("error", err.Error()))
			return nil, StorageError("Не удалось получить список файлов", err)
		}
		if records == nil {
			records = []model.AssetRecord{}
		}
		return records, nil

	case s.backends.Blob != nil:
		listingsTotal.WithLabelValues(ListingSourceBlob).Inc()
		return s.listBlobs(ctx)

	default:
		listingsTotal.WithLabelValues(ListingSourceNone).Inc()
		return []model.AssetRecord{}, nil
	}
}

// objectEntry — результат разрешения одного объекта из листинга.
// Ошибки URL и MIME-типа сохраняются отдельно и не прерывают листинг:
// соответствующее поле записи остаётся пустым.
type objectEntry struct {
	info           blob.ObjectInfo
	url            string
	urlErr         error
	contentType    string
	contentTypeErr error
}

// record синтезирует AssetRecord из объекта (без userID и userName).
func (e objectEntry) record() model.AssetRecord {
	rec := model.AssetRecord{
		FileName:    path.Base(e.info.Key),
		BlobPath:    e.info.Key,
		BlobURL:     e.url,
		ContentType: e.contentType,
	}
	if !e.info.LastModified.IsZero() {
		rec.Timestamp = model.FormatTimestamp(e.info.LastModified)
	}
	return rec
}

func (s *ListingService) listBlobs(ctx context.Context) ([]model.AssetRecord, error) {
	objects, err := s.backends.Blob.List(ctx)
	if err != nil {
		s.logger.Error("Ошибка листинга blob-контейнера", slog.String("error", err.Error()))
		return nil, StorageError("Не удалось получить список файлов", err)
	}

	// Сортировка по времени изменения до синтеза записей:
	// у объектов без LastModified пустая метка, они уходят в конец.
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	records := make([]model.AssetRecord, 0, len(objects))
	for _, info := range objects {
		entry := s.resolve(ctx, info)
		if entry.urlErr != nil || entry.contentTypeErr != nil {
			s.logger.Warn("Не удалось разрешить свойства объекта",
				slog.String("key", info.Key),
				slog.Any("url_error", entry.urlErr),
				slog.Any("content_type_error", entry.contentTypeErr),
			)
		}
		records = append(records, entry.record())
	}
	if s.cache != nil {
		s.logger.Debug("Листинг blob-контейнера",
			slog.Int("objects", len(records)),
			slog.Int("content_type_cache_size", s.cache.Len()),
		)
	}
	return records, nil
}

// resolve разрешает URL и MIME-тип объекта.
func (s *ListingService) resolve(ctx context.Context, info blob.ObjectInfo) objectEntry {
	entry := objectEntry{info: info}
	entry.url, entry.urlErr = s.backends.Blob.URL(info.Key)
	if entry.urlErr != nil {
		entry.url = ""
	}

	if info.ContentType != "" {
		entry.contentType = info.ContentType
		return entry
	}
	if s.cache != nil {
		if ct, ok := s.cache.Get(info.Key); ok {
			entry.contentType = ct
			return entry
		}
	}

	ct, err := s.backends.Blob.ContentType(ctx, info.Key)
	if err != nil {
		entry.contentTypeErr = err
		return entry
	}
	entry.contentType = ct
	if s.cache != nil {
		s.cache.Set(info.Key, ct)
	}
	return entry
}
