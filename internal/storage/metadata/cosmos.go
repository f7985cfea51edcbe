// cosmos.go — хранилище метаданных в Azure Cosmos DB (NoSQL API).
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/azcosmos"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
)

// listQuery — выборка семи полей записи (без id) из всех партиций.
const listQuery = "SELECT c.fileName, c.userID, c.userName, c.blobUrl, c.blobPath, c.timestamp, c.contentType FROM c"

// CosmosStore — контейнер Cosmos DB с записями AssetRecord.
type CosmosStore struct {
	container    *azcosmos.ContainerClient
	partitionKey string
	logger       *slog.Logger
}

// NewCosmosStore создаёт клиент контейнера по строке подключения.
// partitionKey — поле записи, значение которого передаётся как ключ партиции
// (id, userID или blobPath; должно совпадать с partition key path контейнера).
func NewCosmosStore(connectionString, database, container, partitionKey string, logger *slog.Logger) (*CosmosStore, error) {
	client, err := azcosmos.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента Cosmos DB: %w", err)
	}
	cc, err := client.NewContainer(database, container)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения контейнера %s/%s: %w", database, container, err)
	}
	return &CosmosStore{
		container:    cc,
		partitionKey: partitionKey,
		logger:       logger.With(slog.String("component", "cosmos")),
	}, nil
}

// Insert создаёт документ. Конфликт id возвращается как ошибка.
func (s *CosmosStore) Insert(ctx context.Context, rec *model.AssetRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ошибка сериализации записи: %w", err)
	}

	pk := azcosmos.NewPartitionKeyString(partitionValue(rec, s.partitionKey))
	if _, err := s.container.CreateItem(ctx, pk, body, nil); err != nil {
		if isCosmosConflict(err) {
			return fmt.Errorf("%w: документ %s", ErrConflict, rec.ID)
		}
		return fmt.Errorf("ошибка создания документа %s: %w", rec.ID, err)
	}
	return nil
}

// ListRecent выполняет кросс-партиционный запрос. Шлюз Cosmos DB не выполняет
// ORDER BY между партициями, поэтому сортировка выполняется после чтения всех страниц.
func (s *CosmosStore) ListRecent(ctx context.Context) ([]model.AssetRecord, error) {
	pager := s.container.NewQueryItemsPager(listQuery, azcosmos.NewPartitionKey(), nil)

	records := make([]model.AssetRecord, 0)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка запроса документов: %w", err)
		}
		for _, item := range page.Items {
			var rec model.AssetRecord
			if err := json.Unmarshal(item, &rec); err != nil {
				return nil, fmt.Errorf("ошибка разбора документа: %w", err)
			}
			records = append(records, rec)
		}
	}

	SortByTimestampDesc(records)
	return records, nil
}

// Ping читает свойства контейнера.
func (s *CosmosStore) Ping(ctx context.Context) error {
	if _, err := s.container.Read(ctx, nil); err != nil {
		return fmt.Errorf("хранилище Cosmos DB недоступно: %w", err)
	}
	return nil
}

// Close — клиент Cosmos DB не держит постоянных соединений.
func (s *CosmosStore) Close(_ context.Context) error {
	return nil
}

// partitionValue возвращает значение поля записи, выбранного ключом партиции.
func partitionValue(rec *model.AssetRecord, field string) string {
	switch field {
	case "userID":
		return rec.UserID
	case "blobPath":
		return rec.BlobPath
	default:
		return rec.ID
	}
}

// isCosmosConflict проверяет ответ 409 Conflict от Cosmos DB.
func isCosmosConflict(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusConflict
}

var _ Store = (*CosmosStore)(nil)
