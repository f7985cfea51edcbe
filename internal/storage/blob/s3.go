// s3.go — реализация Store поверх S3-совместимого хранилища (AWS S3, MinIO).
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Options — параметры подключения к S3-совместимому хранилищу.
type S3Options struct {
	// Endpoint — базовый URL (пусто — публичный AWS S3 в регионе Region)
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
}

// S3Store — клиент bucket'а S3. Адресация всегда path-style.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  *slog.Logger
}

// NewS3Store создаёт S3-клиент. Статические ключи используются, если заданы;
// иначе — стандартная цепочка учётных данных AWS.
func NewS3Store(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(opts.Region),
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации AWS: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		// MinIO и прочие совместимые хранилища не всегда принимают
		// контрольные суммы CRC32 по умолчанию.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	baseURL := opts.Endpoint
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://s3.%s.amazonaws.com", opts.Region)
	}

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "s3_blob")),
	}, nil
}

// EnsureBucket создаёт bucket, если его ещё нет.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(s.bucket),
	})
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) {
			switch apiError.ErrorCode() {
			case "BucketAlreadyOwnedByYou", "BucketAlreadyExists":
				return nil
			}
		}
		return fmt.Errorf("ошибка создания bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Bucket создан", slog.String("bucket", s.bucket))
	return nil
}

// Upload записывает объект, перезаписывая существующий.
func (s *S3Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("ошибка загрузки объекта %s: %w", key, err)
	}
	s.logger.Debug("Объект загружен", slog.String("key", key))
	return nil
}

// Download открывает поток чтения объекта.
func (s *S3Store) Download(ctx context.Context, key string) (*Object, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("объект %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения объекта %s: %w", key, err)
	}
	return &Object{
		Body:        out.Body,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
	}, nil
}

// List перечисляет все объекты bucket'а. ListObjectsV2 не возвращает
// Content-Type, поле ObjectInfo.ContentType остаётся пустым.
func (s *S3Store) List(ctx context.Context) ([]ObjectInfo, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})

	var objects []ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка листинга bucket %s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				LastModified: aws.ToTime(obj.LastModified),
				Size:         aws.ToInt64(obj.Size),
			})
		}
	}
	return objects, nil
}

// ContentType запрашивает HeadObject.
func (s *S3Store) ContentType(ctx context.Context, key string) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isS3NotFound(err) {
			return "", fmt.Errorf("объект %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("ошибка чтения заголовков объекта %s: %w", key, err)
	}
	return aws.ToString(out.ContentType), nil
}

// URL возвращает path-style адрес объекта: {endpoint}/{bucket}/{key}.
func (s *S3Store) URL(key string) (string, error) {
	return s.baseURL + "/" + s.bucket + "/" + escapeKey(key), nil
}

// Container возвращает имя bucket'а.
func (s *S3Store) Container() string {
	return s.bucket
}

// Ping проверяет доступность bucket'а через HeadBucket.
func (s *S3Store) Ping(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s недоступен: %w", s.bucket, err)
	}
	return nil
}

// BaseURL возвращает базовый адрес хранилища: CH_S3_ENDPOINT или публичный
// адрес AWS S3 в регионе. Используется для мониторинга зависимостей.
func (s *S3Store) BaseURL() string {
	return s.baseURL
}

// isS3NotFound распознаёт ответы «объект не найден» (NoSuchKey для GET, NotFound для HEAD).
func isS3NotFound(err error) bool {
	var apiError smithy.APIError
	if !errors.As(err, &apiError) {
		return false
	}
	switch apiError.ErrorCode() {
	case "NoSuchKey", "NotFound", "NoSuchBucket":
		return true
	}
	return false
}

var _ Store = (*S3Store)(nil)
