// Пакет blob — клиенты объектного хранилища медиафайлов.
// Store — общий интерфейс; реализации: Azure Blob Storage и S3-совместимое хранилище.
package blob

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound — объект с указанным ключом отсутствует в хранилище.
var ErrNotFound = errors.New("объект не найден")

// Object — содержимое объекта, полученное из хранилища.
// Вызывающий обязан закрыть Body.
type Object struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
}

// ObjectInfo — описание объекта из листинга контейнера.
// ContentType может быть пустым, если листинг его не возвращает.
type ObjectInfo struct {
	Key          string
	ContentType  string
	LastModified time.Time
	Size         int64
}

// Store — клиент blob-хранилища с фиксированным контейнером.
type Store interface {
	// Upload записывает поток под ключом key, перезаписывая существующий объект.
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	// Download открывает объект на чтение.
	Download(ctx context.Context, key string) (*Object, error)
	// List перечисляет все объекты контейнера.
	List(ctx context.Context) ([]ObjectInfo, error)
	// ContentType возвращает сохранённый MIME-тип объекта.
	ContentType(ctx context.Context, key string) (string, error)
	// URL возвращает адрес объекта, как его сообщает хранилище.
	URL(key string) (string, error)
	// Container возвращает имя контейнера (bucket).
	Container() string
	// Ping проверяет доступность хранилища.
	Ping(ctx context.Context) error
}
