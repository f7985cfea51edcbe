package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/config"
	"github.com/Garondorf03/GameClipsHub/internal/storage/memstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenStorage_Memory(t *testing.T) {
	cfg := &config.Config{StorageMemory: true, PublicURL: "http://localhost:8000"}

	set, err := openStorage(context.Background(), cfg, testLogger())
	if err != nil {
		t.Fatalf("openStorage() вернул ошибку: %v", err)
	}
	defer set.Close(context.Background())

	if _, ok := set.backends.Blob.(*memstore.BlobStore); !ok {
		t.Errorf("Blob = %T, ожидался *memstore.BlobStore", set.backends.Blob)
	}
	if _, ok := set.backends.Metadata.(*memstore.MetadataStore); !ok {
		t.Errorf("Metadata = %T, ожидался *memstore.MetadataStore", set.backends.Metadata)
	}

	url, err := set.backends.Blob.URL("p1/a.png")
	if err != nil {
		t.Fatalf("URL() вернул ошибку: %v", err)
	}
	if url != "http://localhost:8000/images/p1/a.png" {
		t.Errorf("URL() = %q", url)
	}

	targets := set.readinessTargets()
	if len(targets) != 2 {
		t.Fatalf("readinessTargets(): %d, ожидалось 2", len(targets))
	}
	for _, target := range targets {
		if target.Pinger == nil || target.Backend != config.BackendMemory {
			t.Errorf("цель %q: backend=%q pinger=%v", target.Name, target.Backend, target.Pinger)
		}
	}
}

func TestOpenStorage_None(t *testing.T) {
	set, err := openStorage(context.Background(), &config.Config{}, testLogger())
	if err != nil {
		t.Fatalf("openStorage() вернул ошибку: %v", err)
	}
	defer set.Close(context.Background())

	if set.backends.Blob != nil || set.backends.Metadata != nil {
		t.Errorf("без настроек хранилища должны быть nil: %+v", set.backends)
	}
	for _, target := range set.readinessTargets() {
		if target.Pinger != nil {
			t.Errorf("цель %q: pinger должен быть nil", target.Name)
		}
	}

	deps := set.dephealthTargets(&config.Config{S3HealthPath: "/minio/health/live"})
	if deps.PostgresDB != nil || deps.S3URL != "" {
		t.Errorf("без хранилищ зависимостей быть не должно: %+v", deps)
	}
}

// TestOpenStorage_S3DefaultEndpoint — без CH_S3_ENDPOINT мониторинг получает публичный адрес AWS S3.
func TestOpenStorage_S3DefaultEndpoint(t *testing.T) {
	cfg := &config.Config{
		S3Region:     "eu-west-1",
		S3AccessKey:  "key",
		S3SecretKey:  "secret",
		S3HealthPath: "/",
	}
	// EnsureBucket к AWS завершится ошибкой или таймаутом: это только предупреждение.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	set, err := openStorage(ctx, cfg, testLogger())
	if err != nil {
		t.Fatalf("openStorage() вернул ошибку: %v", err)
	}
	defer set.Close(context.Background())

	if set.blobKind != config.BackendS3 {
		t.Fatalf("blobKind = %q, ожидался s3", set.blobKind)
	}
	deps := set.dephealthTargets(cfg)
	if deps.S3URL != "https://s3.eu-west-1.amazonaws.com" {
		t.Errorf("S3URL = %q, ожидался адрес AWS S3 в регионе", deps.S3URL)
	}
}

func TestOpenStorage_InvalidAzure(t *testing.T) {
	cfg := &config.Config{AzureStorageConnectionString: "not-a-connection-string"}

	if _, err := openStorage(context.Background(), cfg, testLogger()); err == nil {
		t.Fatal("ожидалась ошибка для некорректной строки подключения")
	}
}

func TestBackendLabel(t *testing.T) {
	if got := backendLabel(config.BackendNone); got != "none" {
		t.Errorf("backendLabel(\"\") = %q", got)
	}
	if got := backendLabel(config.BackendS3); got != config.BackendS3 {
		t.Errorf("backendLabel(s3) = %q", got)
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version вернул ошибку: %v", err)
	}
	if strings.TrimSpace(out.String()) != config.Version {
		t.Errorf("вывод %q, ожидалась версия %q", out.String(), config.Version)
	}
}

func TestMigrateCommand_NoDatabase(t *testing.T) {
	t.Setenv("CH_DATABASE_URL", "")
	t.Chdir(t.TempDir())

	if err := runMigrate(migrateCmd, nil); err != errNoDatabase {
		t.Errorf("runMigrate() = %v, ожидалась errNoDatabase", err)
	}
}
