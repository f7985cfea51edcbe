// Пакет memstore — in-memory реализации blob.Store и metadata.Store
// для локального запуска (CH_STORAGE_MEMORY=true) и тестов.
// Данные живут до завершения процесса.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
	"github.com/Garondorf03/GameClipsHub/internal/storage/metadata"
)

type memObject struct {
	data         []byte
	contentType  string
	lastModified time.Time
}

// BlobStore — потокобезопасное хранилище объектов в памяти.
type BlobStore struct {
	mu        sync.RWMutex
	objects   map[string]memObject
	container string
	baseURL   string
	now       func() time.Time
}

// NewBlobStore создаёт пустое хранилище. URL объектов строятся как
// {baseURL}/{container}/{key}, что совместимо с нормализацией /api/blob.
func NewBlobStore(container, baseURL string) *BlobStore {
	return &BlobStore{
		objects:   make(map[string]memObject),
		container: container,
		baseURL:   baseURL,
		now:       time.Now,
	}
}

// Upload сохраняет содержимое потока целиком.
func (s *BlobStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("ошибка чтения потока %s: %w", key, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memObject{data: data, contentType: contentType, lastModified: s.now().UTC()}
	return nil
}

// Download возвращает копию содержимого.
func (s *BlobStore) Download(_ context.Context, key string) (*blob.Object, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("объект %s: %w", key, blob.ErrNotFound)
	}
	return &blob.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

// List возвращает объекты в порядке ключей.
func (s *BlobStore) List(_ context.Context) ([]blob.ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]blob.ObjectInfo, 0, len(s.objects))
	for key, obj := range s.objects {
		objects = append(objects, blob.ObjectInfo{
			Key:          key,
			ContentType:  obj.contentType,
			LastModified: obj.lastModified,
			Size:         int64(len(obj.data)),
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

// ContentType возвращает сохранённый MIME-тип.
func (s *BlobStore) ContentType(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return "", fmt.Errorf("объект %s: %w", key, blob.ErrNotFound)
	}
	return obj.contentType, nil
}

// URL возвращает адрес объекта.
func (s *BlobStore) URL(key string) (string, error) {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.baseURL + "/" + s.container + "/" + strings.Join(segments, "/"), nil
}

// Container возвращает имя контейнера.
func (s *BlobStore) Container() string {
	return s.container
}

// Ping всегда успешен.
func (s *BlobStore) Ping(_ context.Context) error {
	return nil
}

// MetadataStore — записи AssetRecord в памяти.
type MetadataStore struct {
	mu      sync.RWMutex
	records []model.AssetRecord
	ids     map[string]struct{}
}

// NewMetadataStore создаёт пустое хранилище метаданных.
func NewMetadataStore() *MetadataStore {
	return &MetadataStore{ids: make(map[string]struct{})}
}

// Insert добавляет запись; повтор id — ошибка.
func (s *MetadataStore) Insert(_ context.Context, rec *model.AssetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[rec.ID]; exists {
		return fmt.Errorf("%w: запись %s", metadata.ErrConflict, rec.ID)
	}
	s.ids[rec.ID] = struct{}{}
	s.records = append(s.records, *rec)
	return nil
}

// ListRecent возвращает копии записей без id, от новых к старым.
func (s *MetadataStore) ListRecent(_ context.Context) ([]model.AssetRecord, error) {
	s.mu.RLock()
	records := make([]model.AssetRecord, len(s.records))
	copy(records, s.records)
	s.mu.RUnlock()

	for i := range records {
		records[i].ID = ""
	}
	metadata.SortByTimestampDesc(records)
	return records, nil
}

// Ping всегда успешен.
func (s *MetadataStore) Ping(_ context.Context) error {
	return nil
}

// Close ничего не делает.
func (s *MetadataStore) Close(_ context.Context) error {
	return nil
}

var (
	_ blob.Store     = (*BlobStore)(nil)
	_ metadata.Store = (*MetadataStore)(nil)
)
