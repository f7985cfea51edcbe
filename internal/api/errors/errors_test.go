package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Garondorf03/GameClipsHub/internal/service"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("ошибка декодирования тела: %v", err)
	}
	return body
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, CodeValidationError, "Файл не выбран")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, ожидался 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := decodeBody(t, rec)
	if body.Error != "Файл не выбран" || body.Code != CodeValidationError {
		t.Errorf("тело = %+v", body)
	}
}

func TestFromError(t *testing.T) {
	backendErr := stderrors.New("AuthenticationFailed: secret details")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"validation", service.ValidationError("Файл не передан"), 400, CodeValidationError, "Файл не передан"},
		{"configuration", service.ConfigurationError("Blob-хранилище не настроено"), 500, CodeConfigurationError, "Blob-хранилище не настроено"},
		{"storage", service.StorageError("Не удалось сохранить файл", backendErr), 500, CodeStorageError, "Не удалось сохранить файл"},
		{"too large", service.TooLargeError("Файл слишком большой", nil), 413, CodeFileTooLarge, "Файл слишком большой"},
		{"обёрнутая ошибка", fmt.Errorf("ctx: %w", service.ValidationError("x")), 400, CodeValidationError, "x"},
		{"неизвестная ошибка", backendErr, 500, CodeInternalError, "Внутренняя ошибка сервера"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("StatusCode = %d, ожидался %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body.Code != tt.wantCode {
				t.Errorf("code = %q, ожидался %q", body.Code, tt.wantCode)
			}
			if body.Error != tt.wantMsg {
				t.Errorf("error = %q, ожидалось %q", body.Error, tt.wantMsg)
			}
		})
	}
}
