package metadata

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
)

// setupTestDB запускает PostgreSQL в Docker-контейнере через testcontainers.
// Возвращает URL подключения.
func setupTestDB(t *testing.T) string {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("clipshub_test"),
		postgres.WithUsername("clipshub"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Не удалось получить строку подключения: %v", err)
	}
	return dsn
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// TestMigrate проверяет применение миграций и их идемпотентность.
func TestMigrate(t *testing.T) {
	dsn := setupTestDB(t)
	logger := testLogger()

	if err := Migrate(dsn, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	// Повторное применение — должно быть без ошибки (ErrNoChange)
	if err := Migrate(dsn, logger); err != nil {
		t.Fatalf("Повторный Migrate() вернул ошибку: %v", err)
	}

	ctx := context.Background()
	pool, err := Connect(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	defer pool.Close()

	var exists bool
	err = pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = 'assets'
		)`).Scan(&exists)
	if err != nil {
		t.Fatalf("Ошибка проверки таблицы assets: %v", err)
	}
	if !exists {
		t.Error("Таблица assets не создана")
	}
}

// TestPostgresStore_InsertAndList проверяет вставку и порядок выдачи записей.
func TestPostgresStore_InsertAndList(t *testing.T) {
	dsn := setupTestDB(t)
	logger := testLogger()
	ctx := context.Background()

	if err := Migrate(dsn, logger); err != nil {
		t.Fatalf("Migrate() вернул ошибку: %v", err)
	}
	pool, err := Connect(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("Connect() вернул ошибку: %v", err)
	}
	store := NewPostgresStore(pool)
	defer store.Close(ctx)
	if store.Pool() != pool {
		t.Error("Pool() должен возвращать переданный пул")
	}

	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	older := model.NewAssetRecord("older", "u1", "Alice", "a.png", "image/png", t1)
	newer := model.NewAssetRecord("newer", "u1", "Alice", "b.mp4", "video/mp4", t1.Add(time.Minute))
	older.BlobURL = "http://blob/images/" + older.BlobPath
	newer.BlobURL = "http://blob/images/" + newer.BlobPath

	for _, rec := range []*model.AssetRecord{older, newer} {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s) вернул ошибку: %v", rec.ID, err)
		}
	}

	// Повторная вставка того же id — ошибка
	if err := store.Insert(ctx, older); !errors.Is(err, ErrConflict) {
		t.Errorf("Insert() дубликата = %v, ожидалась ErrConflict", err)
	}

	records, err := store.ListRecent(ctx)
	if err != nil {
		t.Fatalf("ListRecent() вернул ошибку: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("ListRecent() вернул %d записей, ожидалось 2", len(records))
	}
	if records[0].FileName != "newer" || records[1].FileName != "older" {
		t.Errorf("порядок записей: %q, %q; ожидалось newer, older", records[0].FileName, records[1].FileName)
	}
	if records[0].ID != "" {
		t.Errorf("ID не должен возвращаться в листинге, получено %q", records[0].ID)
	}
	if records[1].BlobURL != older.BlobURL || records[1].ContentType != "image/png" {
		t.Errorf("поля записи не совпадают: %+v", records[1])
	}

	if err := store.Ping(ctx); err != nil {
		t.Errorf("Ping() вернул ошибку: %v", err)
	}
}
