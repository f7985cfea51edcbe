// Пакет errors — формат ответов с ошибками GameClipsHub.
// Единый формат: {"error": "...", "code": "..."}.
// Поле error остаётся строкой: клиенты читают response.error.
package errors //nolint:revive // конфликт имени со stdlib, пакет импортируется с алиасом

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/Garondorf03/GameClipsHub/internal/service"
)

// Коды ошибок.
const (
	CodeValidationError    = "VALIDATION_ERROR"
	CodeConfigurationError = "CONFIGURATION_ERROR"
	CodeStorageError       = "STORAGE_ERROR"
	CodeFileTooLarge       = "FILE_TOO_LARGE"
	CodeNotFound           = "NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

// errorBody — тело ответа с ошибкой.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// WriteError записывает ответ ошибки.
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: message,
		Code:  code,
	})
}

// --- Конструкторы для типичных ошибок ---

// ValidationError — 400 некорректные входные данные.
func ValidationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, CodeValidationError, message)
}

// ConfigurationError — 500 хранилище не настроено.
func ConfigurationError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeConfigurationError, message)
}

// StorageError — 500 ошибка хранилища.
func StorageError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeStorageError, message)
}

// FileTooLarge — 413 файл превышает лимит.
func FileTooLarge(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusRequestEntityTooLarge, CodeFileTooLarge, message)
}

// NotFound — 404 ресурс не найден.
func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, CodeNotFound, message)
}

// InternalError — 500 внутренняя ошибка.
func InternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, CodeInternalError, message)
}

// FromError отображает ошибку сервисного слоя в HTTP-ответ.
// Клиент получает только сообщение сервиса; исходная ошибка backend'а
// в ответ не попадает.
func FromError(w http.ResponseWriter, err error) {
	var se *service.Error
	if !stderrors.As(err, &se) {
		InternalError(w, "Внутренняя ошибка сервера")
		return
	}

	switch se.Kind {
	case service.KindValidation:
		ValidationError(w, se.Message)
	case service.KindConfiguration:
		ConfigurationError(w, se.Message)
	case service.KindStorage:
		StorageError(w, se.Message)
	case service.KindTooLarge:
		FileTooLarge(w, se.Message)
	default:
		InternalError(w, se.Message)
	}
}
