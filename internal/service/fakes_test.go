package service

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
)

// testLogger — логгер для тестов (только ошибки).
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockBlobStore — blob.Store с настраиваемыми функциями.
// Неустановленная функция означает успешный вызов с нулевым результатом.
type mockBlobStore struct {
	container     string
	uploadFn      func(ctx context.Context, key string, r io.Reader, contentType string) error
	downloadFn    func(ctx context.Context, key string) (*blob.Object, error)
	listFn        func(ctx context.Context) ([]blob.ObjectInfo, error)
	contentTypeFn func(ctx context.Context, key string) (string, error)
	urlFn         func(key string) (string, error)
}

func (m *mockBlobStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, key, r, contentType)
	}
	return nil
}

func (m *mockBlobStore) Download(ctx context.Context, key string) (*blob.Object, error) {
	if m.downloadFn != nil {
		return m.downloadFn(ctx, key)
	}
	return nil, blob.ErrNotFound
}

func (m *mockBlobStore) List(ctx context.Context) ([]blob.ObjectInfo, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockBlobStore) ContentType(ctx context.Context, key string) (string, error) {
	if m.contentTypeFn != nil {
		return m.contentTypeFn(ctx, key)
	}
	return "", nil
}

func (m *mockBlobStore) URL(key string) (string, error) {
	if m.urlFn != nil {
		return m.urlFn(key)
	}
	return "http://blob/" + m.Container() + "/" + key, nil
}

func (m *mockBlobStore) Container() string {
	if m.container == "" {
		return "images"
	}
	return m.container
}

func (m *mockBlobStore) Ping(_ context.Context) error { return nil }

// mockMetadataStore — metadata.Store с настраиваемыми функциями.
type mockMetadataStore struct {
	insertFn func(ctx context.Context, rec *model.AssetRecord) error
	listFn   func(ctx context.Context) ([]model.AssetRecord, error)
}

func (m *mockMetadataStore) Insert(ctx context.Context, rec *model.AssetRecord) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, rec)
	}
	return nil
}

func (m *mockMetadataStore) ListRecent(ctx context.Context) ([]model.AssetRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockMetadataStore) Ping(_ context.Context) error { return nil }
func (m *mockMetadataStore) Close(_ context.Context) error { return nil }
