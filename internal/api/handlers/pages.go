// pages.go — главная страница и OpenAPI-документ.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Garondorf03/GameClipsHub/internal/api/errors"
	"github.com/Garondorf03/GameClipsHub/internal/ui/pages"
)

// PagesHandler отдаёт HTML-страницу и /api/openapi.json.
type PagesHandler struct {
	index       pages.IndexData
	openapiJSON []byte
	logger      *slog.Logger
}

// NewPagesHandler создаёт обработчик страниц. openapiJSON — документ,
// загруженный и провалидированный при старте.
func NewPagesHandler(index pages.IndexData, openapiJSON []byte, logger *slog.Logger) *PagesHandler {
	return &PagesHandler{
		index:       index,
		openapiJSON: openapiJSON,
		logger:      logger.With(slog.String("component", "pages_handler")),
	}
}

// Index обрабатывает GET /.
func (h *PagesHandler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.RenderIndex(w, h.index); err != nil {
		h.logger.Error("Ошибка рендеринга страницы", slog.String("error", err.Error()))
		errors.InternalError(w, "Не удалось отобразить страницу")
	}
}

// OpenAPI обрабатывает GET /api/openapi.json.
func (h *PagesHandler) OpenAPI(w http.ResponseWriter, _ *http.Request) {
	if len(h.openapiJSON) == 0 {
		errors.NotFound(w, "OpenAPI документ недоступен")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.openapiJSON)
}
