// handler.go — APIHandler собирает доменные handlers в один объект,
// который монтируется роутером сервера.
package handlers

import "net/http"

// APIHandler — единая точка входа для всех endpoints.
type APIHandler struct {
	files  *FilesHandler
	health *HealthHandler
	pages  *PagesHandler
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(files *FilesHandler, health *HealthHandler, pages *PagesHandler) *APIHandler {
	return &APIHandler{
		files:  files,
		health: health,
		pages:  pages,
	}
}

// --- Файлы ---

func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	h.files.UploadFile(w, r)
}

func (h *APIHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	h.files.ListImages(w, r)
}

func (h *APIHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	h.files.GetBlob(w, r)
}

func (h *APIHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	h.files.GetObject(w, r)
}

// --- Страницы ---

func (h *APIHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.pages.Index(w, r)
}

func (h *APIHandler) OpenAPI(w http.ResponseWriter, r *http.Request) {
	h.pages.OpenAPI(w, r)
}

// --- Health ---

func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}
