// Пакет config — загрузка и валидация конфигурации GameClipsHub
// из переменных окружения (и файла .env, если он есть).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Фиксированные имена хранилищ.
const (
	// BlobContainer — контейнер Azure Blob (он же bucket S3) для медиафайлов.
	BlobContainer = "images"
	// MetadataDatabase — база данных метаданных (Cosmos DB / MongoDB).
	MetadataDatabase = "MediaDB"
	// MetadataCollection — контейнер/коллекция записей Asset Record.
	MetadataCollection = "Assets"
)

// Имена backend'ов хранилищ.
const (
	BackendNone     = ""
	BackendMemory   = "memory"
	BackendAzure    = "azure"
	BackendS3       = "s3"
	BackendCosmos   = "cosmos"
	BackendMongo    = "mongodb"
	BackendPostgres = "postgres"
)

// Config содержит все параметры конфигурации GameClipsHub.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Публичный базовый URL сервиса (используется in-memory хранилищем для blobUrl)
	PublicURL string
	// Максимальный размер тела запроса upload в байтах
	MaxUploadSize int64
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- HTTP Server Timeouts ---

	// Заголовки запроса читаются за ReadHeaderTimeout, всё тело — за ReadTimeout
	HTTPReadHeaderTimeout time.Duration
	HTTPReadTimeout       time.Duration
	HTTPWriteTimeout      time.Duration
	HTTPIdleTimeout       time.Duration
	// Таймаут graceful shutdown
	ShutdownTimeout time.Duration

	// --- Хранилища ---

	// In-memory хранилища вместо облачных (локальный запуск)
	StorageMemory bool
	// Строка подключения Azure Storage (AZURE_STORAGE_CONNECTION_STRING)
	AzureStorageConnectionString string
	// Строка подключения Cosmos DB (COSMOS_CONNECTION_STRING)
	CosmosConnectionString string
	// Поле записи, значение которого используется как partition key Cosmos DB
	CosmosPartitionKey string

	// S3-совместимое хранилище
	S3Endpoint   string
	S3Region     string
	S3AccessKey  string
	S3SecretKey  string
	S3HealthPath string

	// URI MongoDB
	MongoURI string
	// DSN PostgreSQL
	DatabaseURL string

	// --- Кэш content type ---

	ContentTypeCacheSize int
	ContentTypeCacheTTL  time.Duration

	// --- topologymetrics ---

	DephealthEnabled       bool
	DephealthGroup         string
	DephealthCheckInterval time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Перед чтением переменных подгружается .env из рабочей директории (если есть);
// уже заданные переменные окружения .env не перекрывает.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".env: %w", err)
	}

	cfg := &Config{}
	var err error

	// --- Сервер ---

	// CH_PORT — порт HTTP-сервера (по умолчанию 8000)
	cfg.Port, err = getEnvInt("CH_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("CH_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("CH_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	cfg.PublicURL = strings.TrimRight(getEnvDefault("CH_PUBLIC_URL", fmt.Sprintf("http://localhost:%d", cfg.Port)), "/")

	// CH_MAX_UPLOAD_SIZE — лимит тела upload (по умолчанию 100 MB)
	cfg.MaxUploadSize, err = getEnvInt64("CH_MAX_UPLOAD_SIZE", 100<<20)
	if err != nil {
		return nil, fmt.Errorf("CH_MAX_UPLOAD_SIZE: %w", err)
	}
	if cfg.MaxUploadSize <= 0 {
		return nil, fmt.Errorf("CH_MAX_UPLOAD_SIZE: значение должно быть положительным")
	}

	cfg.LogLevel, err = parseLogLevel(getEnvDefault("CH_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("CH_LOG_LEVEL: %w", err)
	}

	cfg.LogFormat = getEnvDefault("CH_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("CH_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadHeaderTimeout, err = getEnvDuration("CH_HTTP_READ_HEADER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_HTTP_READ_HEADER_TIMEOUT: %w", err)
	}
	// Тело upload до CH_MAX_UPLOAD_SIZE и ответ /api/blob могут идти минуты
	cfg.HTTPReadTimeout, err = getEnvDuration("CH_HTTP_READ_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_HTTP_READ_TIMEOUT: %w", err)
	}
	cfg.HTTPWriteTimeout, err = getEnvDuration("CH_HTTP_WRITE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_HTTP_WRITE_TIMEOUT: %w", err)
	}
	cfg.HTTPIdleTimeout, err = getEnvDuration("CH_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_HTTP_IDLE_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout, err = getEnvDuration("CH_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_SHUTDOWN_TIMEOUT: %w", err)
	}

	// --- Хранилища ---

	cfg.StorageMemory, err = getEnvBool("CH_STORAGE_MEMORY", false)
	if err != nil {
		return nil, fmt.Errorf("CH_STORAGE_MEMORY: %w", err)
	}

	// Имена переменных Azure совпадают с теми, что выдаёт портал Azure
	cfg.AzureStorageConnectionString = os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	cfg.CosmosConnectionString = os.Getenv("COSMOS_CONNECTION_STRING")
	cfg.CosmosPartitionKey = getEnvDefault("CH_COSMOS_PARTITION_KEY", "id")
	switch cfg.CosmosPartitionKey {
	case "id", "userID", "blobPath":
	default:
		return nil, fmt.Errorf("CH_COSMOS_PARTITION_KEY: недопустимое значение %q, допустимые: id, userID, blobPath", cfg.CosmosPartitionKey)
	}

	cfg.S3Endpoint = strings.TrimRight(os.Getenv("CH_S3_ENDPOINT"), "/")
	cfg.S3Region = getEnvDefault("CH_S3_REGION", "us-east-1")
	cfg.S3AccessKey = os.Getenv("CH_S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("CH_S3_SECRET_KEY")
	cfg.S3HealthPath = getEnvDefault("CH_S3_HEALTH_PATH", "/minio/health/live")
	if (cfg.S3AccessKey == "") != (cfg.S3SecretKey == "") {
		return nil, fmt.Errorf("CH_S3_ACCESS_KEY и CH_S3_SECRET_KEY должны задаваться вместе")
	}

	cfg.MongoURI = os.Getenv("CH_MONGODB_URI")
	cfg.DatabaseURL = os.Getenv("CH_DATABASE_URL")

	// --- Кэш content type ---

	cfg.ContentTypeCacheSize, err = getEnvInt("CH_CONTENT_TYPE_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("CH_CONTENT_TYPE_CACHE_SIZE: %w", err)
	}
	if cfg.ContentTypeCacheSize <= 0 {
		return nil, fmt.Errorf("CH_CONTENT_TYPE_CACHE_SIZE: значение должно быть положительным")
	}
	cfg.ContentTypeCacheTTL, err = getEnvDuration("CH_CONTENT_TYPE_CACHE_TTL", 10*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("CH_CONTENT_TYPE_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	cfg.DephealthEnabled, err = getEnvBool("CH_DEPHEALTH_ENABLED", false)
	if err != nil {
		return nil, fmt.Errorf("CH_DEPHEALTH_ENABLED: %w", err)
	}
	cfg.DephealthGroup = getEnvDefault("CH_DEPHEALTH_GROUP", "clipshub")
	cfg.DephealthCheckInterval, err = getEnvDuration("CH_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("CH_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	return cfg, nil
}

// BlobBackend возвращает выбранный backend blob-хранилища.
// Приоритет: memory > Azure > S3. Пустая строка — хранилище не настроено.
func (c *Config) BlobBackend() string {
	switch {
	case c.StorageMemory:
		return BackendMemory
	case c.AzureStorageConnectionString != "":
		return BackendAzure
	case c.S3Endpoint != "" || c.S3AccessKey != "":
		return BackendS3
	default:
		return BackendNone
	}
}

// MetadataBackend возвращает выбранный backend хранилища метаданных.
// Приоритет: memory > Cosmos DB > MongoDB > PostgreSQL.
func (c *Config) MetadataBackend() string {
	switch {
	case c.StorageMemory:
		return BackendMemory
	case c.CosmosConnectionString != "":
		return BackendCosmos
	case c.MongoURI != "":
		return BackendMongo
	case c.DatabaseURL != "":
		return BackendPostgres
	default:
		return BackendNone
	}
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvInt64 возвращает int64 значение переменной окружения или значение по умолчанию.
func getEnvInt64(key string, defaultVal int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	if d <= 0 {
		return 0, fmt.Errorf("значение должно быть > 0")
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
