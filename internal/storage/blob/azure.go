// azure.go — реализация Store поверх Azure Blob Storage (azblob).
package blob

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	azblobblob "github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureStore — клиент контейнера Azure Blob Storage.
type AzureStore struct {
	client    *azblob.Client
	container string
	logger    *slog.Logger
}

// NewAzureStore создаёт клиент по строке подключения Azure Storage.
// Некорректная строка подключения — ошибка. Сеть при создании не используется.
func NewAzureStore(connectionString, container string, logger *slog.Logger) (*AzureStore, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Azure Blob: %w", err)
	}
	return &AzureStore{
		client:    client,
		container: container,
		logger:    logger.With(slog.String("component", "azure_blob")),
	}, nil
}

// EnsureContainer создаёт контейнер, если его ещё нет.
func (s *AzureStore) EnsureContainer(ctx context.Context) error {
	_, err := s.client.CreateContainer(ctx, s.container, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return fmt.Errorf("ошибка создания контейнера %s: %w", s.container, err)
	}
	return nil
}

// Upload загружает поток блоками, перезаписывая существующий blob.
func (s *AzureStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	_, err := s.client.UploadStream(ctx, s.container, key, r, &azblob.UploadStreamOptions{
		HTTPHeaders: &azblobblob.HTTPHeaders{
			BlobContentType: &contentType,
		},
	})
	if err != nil {
		return fmt.Errorf("ошибка загрузки blob %s: %w", key, err)
	}
	s.logger.Debug("Blob загружен", slog.String("key", key))
	return nil
}

// Download открывает поток чтения blob.
func (s *AzureStore) Download(ctx context.Context, key string) (*Object, error) {
	resp, err := s.client.DownloadStream(ctx, s.container, key, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
			return nil, fmt.Errorf("blob %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("ошибка чтения blob %s: %w", key, err)
	}

	obj := &Object{Body: resp.Body}
	if resp.ContentType != nil {
		obj.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		obj.Size = *resp.ContentLength
	}
	return obj, nil
}

// List перечисляет все blob контейнера постранично.
func (s *AzureStore) List(ctx context.Context) ([]ObjectInfo, error) {
	pager := s.client.NewListBlobsFlatPager(s.container, nil)

	var objects []ObjectInfo
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка листинга контейнера %s: %w", s.container, err)
		}
		for _, item := range page.Segment.BlobItems {
			if item == nil || item.Name == nil {
				continue
			}
			info := ObjectInfo{Key: *item.Name}
			if p := item.Properties; p != nil {
				if p.ContentType != nil {
					info.ContentType = *p.ContentType
				}
				if p.LastModified != nil {
					info.LastModified = *p.LastModified
				}
				if p.ContentLength != nil {
					info.Size = *p.ContentLength
				}
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}

// ContentType читает свойства blob.
func (s *AzureStore) ContentType(ctx context.Context, key string) (string, error) {
	props, err := s.blobClient(key).GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return "", fmt.Errorf("blob %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("ошибка чтения свойств blob %s: %w", key, err)
	}
	if props.ContentType == nil {
		return "", nil
	}
	return *props.ContentType, nil
}

// URL возвращает адрес blob в аккаунте хранилища.
func (s *AzureStore) URL(key string) (string, error) {
	return s.blobClient(key).URL(), nil
}

// Container возвращает имя контейнера.
func (s *AzureStore) Container() string {
	return s.container
}

// Ping запрашивает свойства сервиса хранилища.
func (s *AzureStore) Ping(ctx context.Context) error {
	if _, err := s.client.ServiceClient().GetProperties(ctx, nil); err != nil {
		return fmt.Errorf("хранилище Azure Blob недоступно: %w", err)
	}
	return nil
}

func (s *AzureStore) blobClient(key string) *azblobblob.Client {
	return s.client.ServiceClient().NewContainerClient(s.container).NewBlobClient(key)
}

var _ Store = (*AzureStore)(nil)
