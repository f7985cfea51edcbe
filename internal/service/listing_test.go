package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
	"github.com/Garondorf03/GameClipsHub/internal/storage/blob"
	"github.com/Garondorf03/GameClipsHub/internal/storage/memstore"
)

func TestList_NothingConfigured(t *testing.T) {
	svc := NewListingService(Backends{}, nil, testLogger())

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if records == nil || len(records) != 0 {
		t.Errorf("ожидался пустой срез (не nil), получено %#v", records)
	}
}

// TestList_MetadataOrder — записи с T1 < T2: T2 идёт первой.
func TestList_MetadataOrder(t *testing.T) {
	meta := memstore.NewMetadataStore()
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_ = meta.Insert(context.Background(), model.NewAssetRecord("first", "u", "n", "a.png", "image/png", t1))
	_ = meta.Insert(context.Background(), model.NewAssetRecord("second", "u", "n", "b.png", "image/png", t1.Add(time.Second)))

	// Blob-хранилище тоже настроено, но приоритет у метаданных
	svc := NewListingService(Backends{
		Blob: &mockBlobStore{listFn: func(context.Context) ([]blob.ObjectInfo, error) {
			t.Error("листинг blob не должен вызываться при настроенных метаданных")
			return nil, nil
		}},
		Metadata: meta,
	}, nil, testLogger())

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(records) != 2 || records[0].FileName != "second" || records[1].FileName != "first" {
		t.Errorf("порядок записей неверный: %+v", records)
	}
}

func TestList_MetadataError(t *testing.T) {
	svc := NewListingService(Backends{Metadata: &mockMetadataStore{
		listFn: func(context.Context) ([]model.AssetRecord, error) { return nil, errors.New("timeout") },
	}}, nil, testLogger())

	if _, err := svc.List(context.Background()); KindOf(err) != KindStorage {
		t.Errorf("ожидалась ошибка KindStorage, получено %v", err)
	}
}

func TestList_MetadataNilResultBecomesEmpty(t *testing.T) {
	svc := NewListingService(Backends{Metadata: &mockMetadataStore{}}, nil, testLogger())

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if records == nil {
		t.Error("ожидался пустой срез, не nil")
	}
}

// TestList_BlobFallback — синтез записей из листинга с ошибками по отдельным объектам.
func TestList_BlobFallback(t *testing.T) {
	t0 := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	store := &mockBlobStore{
		listFn: func(context.Context) ([]blob.ObjectInfo, error) {
			return []blob.ObjectInfo{
				{Key: "u1/old.png", LastModified: t0, ContentType: "image/png"},
				{Key: "u2/bad-url.mp4", LastModified: t0.Add(2 * time.Hour)},
				{Key: "u3/bad-type.webm", LastModified: t0.Add(time.Hour)},
			}, nil
		},
		urlFn: func(key string) (string, error) {
			if key == "u2/bad-url.mp4" {
				return "", errors.New("url failure")
			}
			return "http://blob/images/" + key, nil
		},
		contentTypeFn: func(_ context.Context, key string) (string, error) {
			if key == "u3/bad-type.webm" {
				return "", errors.New("head failure")
			}
			return "video/mp4", nil
		},
	}
	svc := NewListingService(Backends{Blob: store}, nil, testLogger())

	records, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() вернул ошибку: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("ожидалось 3 записи, получено %d", len(records))
	}

	// Сортировка по времени изменения, от новых к старым
	if records[0].BlobPath != "u2/bad-url.mp4" || records[1].BlobPath != "u3/bad-type.webm" || records[2].BlobPath != "u1/old.png" {
		t.Errorf("порядок: %q, %q, %q", records[0].BlobPath, records[1].BlobPath, records[2].BlobPath)
	}

	badURL := records[0]
	if badURL.BlobURL != "" || badURL.ContentType != "video/mp4" || badURL.FileName != "bad-url.mp4" {
		t.Errorf("объект с ошибкой URL: %+v", badURL)
	}
	badType := records[1]
	if badType.ContentType != "" || badType.BlobURL != "http://blob/images/u3/bad-type.webm" {
		t.Errorf("объект с ошибкой MIME-типа: %+v", badType)
	}
	ok := records[2]
	if ok.FileName != "old.png" || ok.ContentType != "image/png" || ok.Timestamp != "2024-05-05T05:05:05.000000" {
		t.Errorf("обычный объект: %+v", ok)
	}
	if ok.UserID != "" || ok.UserName != "" {
		t.Errorf("userID/userName недоступны из листинга, получено %+v", ok)
	}
}

func TestList_BlobListError(t *testing.T) {
	svc := NewListingService(Backends{Blob: &mockBlobStore{
		listFn: func(context.Context) ([]blob.ObjectInfo, error) { return nil, errors.New("403") },
	}}, nil, testLogger())

	if _, err := svc.List(context.Background()); KindOf(err) != KindStorage {
		t.Errorf("ожидалась ошибка KindStorage, получено %v", err)
	}
}

// TestList_ContentTypeCache — повторный листинг не запрашивает MIME-тип повторно.
func TestList_ContentTypeCache(t *testing.T) {
	calls := 0
	store := &mockBlobStore{
		listFn: func(context.Context) ([]blob.ObjectInfo, error) {
			return []blob.ObjectInfo{{Key: "k.png", LastModified: time.Now()}}, nil
		},
		contentTypeFn: func(context.Context, string) (string, error) {
			calls++
			return "image/png", nil
		},
	}
	cache := NewContentTypeCache(16, time.Minute)
	svc := NewListingService(Backends{Blob: store}, cache, testLogger())

	for i := 0; i < 3; i++ {
		records, err := svc.List(context.Background())
		if err != nil {
			t.Fatalf("List() вернул ошибку: %v", err)
		}
		if records[0].ContentType != "image/png" {
			t.Errorf("ContentType = %q", records[0].ContentType)
		}
	}
	if calls != 1 {
		t.Errorf("ContentType вызван %d раз, ожидался 1", calls)
	}
}
