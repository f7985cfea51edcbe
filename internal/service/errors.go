// Пакет service — бизнес-логика GameClipsHub: загрузка, листинг и выдача файлов.
package service

import "errors"

// Kind — категория ошибки сервисного слоя. Отображение в HTTP-статус
// выполняется один раз, в пакете api/errors.
type Kind int

const (
	// KindValidation — некорректный запрос клиента (400).
	KindValidation Kind = iota + 1
	// KindConfiguration — требуемое хранилище не настроено (500).
	KindConfiguration
	// KindStorage — ошибка обращения к хранилищу (500).
	KindStorage
	// KindTooLarge — тело запроса превышает лимит (413).
	KindTooLarge
)

// String возвращает имя категории для логов.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindStorage:
		return "storage"
	case KindTooLarge:
		return "too_large"
	default:
		return "unknown"
	}
}

// Error — типизированная ошибка сервиса.
// Message отдаётся клиенту; Err — исходная ошибка backend'а, только для логов.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError создаёт ошибку валидации.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ConfigurationError создаёт ошибку отсутствующей конфигурации.
func ConfigurationError(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// StorageError оборачивает ошибку хранилища.
func StorageError(message string, err error) *Error {
	return &Error{Kind: KindStorage, Message: message, Err: err}
}

// TooLargeError создаёт ошибку превышения лимита размера.
func TooLargeError(message string, err error) *Error {
	return &Error{Kind: KindTooLarge, Message: message, Err: err}
}

// KindOf возвращает категорию ошибки или 0, если это не *Error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return 0
}
