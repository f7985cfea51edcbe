// Пакет metadata — хранилища записей AssetRecord.
// Реализации: Azure Cosmos DB, MongoDB, PostgreSQL.
package metadata

import (
	"context"
	"errors"
	"sort"

	"github.com/Garondorf03/GameClipsHub/internal/domain/model"
)

// ErrConflict — запись с таким id уже существует.
var ErrConflict = errors.New("конфликт — запись уже существует")

// Store — клиент хранилища метаданных.
type Store interface {
	// Insert добавляет новую запись. Существующие записи не изменяются;
	// повтор id — ошибка, оборачивающая ErrConflict.
	Insert(ctx context.Context, rec *model.AssetRecord) error
	// ListRecent возвращает все записи, отсортированные по timestamp по убыванию.
	// Поле ID в результатах не заполняется.
	ListRecent(ctx context.Context) ([]model.AssetRecord, error)
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
	// Close освобождает ресурсы клиента.
	Close(ctx context.Context) error
}

// SortByTimestampDesc сортирует записи от новых к старым.
// Метки времени имеют фиксированную ширину, строкового сравнения достаточно.
func SortByTimestampDesc(records []model.AssetRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp > records[j].Timestamp
	})
}
