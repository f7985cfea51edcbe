// files.go — HTTP handlers файловых операций: загрузка, список, выдача по ссылке и по пути.
package handlers

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/Garondorf03/GameClipsHub/internal/api/errors"
	"github.com/Garondorf03/GameClipsHub/internal/api/middleware"
	"github.com/Garondorf03/GameClipsHub/internal/config"
	"github.com/Garondorf03/GameClipsHub/internal/service"
)

// multipartMemory — часть формы, которая держится в памяти; остальное уходит во временные файлы.
const multipartMemory = 32 << 20

// UploadMessage — текст успешного ответа /api/upload.
const UploadMessage = "Файл успешно загружен"

// uploadResponse — тело ответа POST /api/upload.
type uploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	BlobURL string `json:"blobUrl"`
	// FileName — ключ объекта (blobPath), не пользовательское название
	FileName string `json:"fileName"`
}

// FilesHandler — обработчик файловых endpoints.
type FilesHandler struct {
	uploadSvc     *service.UploadService
	listingSvc    *service.ListingService
	downloadSvc   *service.DownloadService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewFilesHandler создаёт обработчик файловых endpoints.
// maxUploadSize — лимит тела запроса загрузки в байтах.
func NewFilesHandler(
	uploadSvc *service.UploadService,
	listingSvc *service.ListingService,
	downloadSvc *service.DownloadService,
	maxUploadSize int64,
	logger *slog.Logger,
) *FilesHandler {
	return &FilesHandler{
		uploadSvc:     uploadSvc,
		listingSvc:    listingSvc,
		downloadSvc:   downloadSvc,
		maxUploadSize: maxUploadSize,
		logger:        logger.With(slog.String("component", "files_handler")),
	}
}

// UploadFile обрабатывает POST /api/upload.
// Multipart form: file (обязательно), fileName, userID, userName (опционально).
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadSize {
		errors.FileTooLarge(w, tooLargeMessage(h.maxUploadSize))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			errors.FileTooLarge(w, tooLargeMessage(maxErr.Limit))
			return
		}
		errors.ValidationError(w, "Некорректная multipart-форма")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	in := service.UploadInput{
		FileName: r.FormValue("fileName"),
		UserID:   r.FormValue("userID"),
		UserName: r.FormValue("userName"),
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()
		in.File = file
		in.OriginalFilename = header.Filename
		in.ContentType = header.Header.Get("Content-Type")
		in.Size = header.Size
	case stderrors.Is(err, http.ErrMissingFile):
		// in.File остаётся nil: сервис вернёт ошибку валидации
	default:
		errors.ValidationError(w, "Некорректная multipart-форма")
		return
	}

	result, err := h.uploadSvc.Upload(r.Context(), in)
	if err != nil {
		h.logFailure(r, "Загрузка отклонена", err)
		errors.FromError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Message:  UploadMessage,
		BlobURL:  result.BlobURL,
		FileName: result.BlobPath,
	})
}

// ListImages обрабатывает GET /api/images.
func (h *FilesHandler) ListImages(w http.ResponseWriter, r *http.Request) {
	records, err := h.listingSvc.List(r.Context())
	if err != nil {
		h.logFailure(r, "Ошибка получения списка файлов", err)
		errors.FromError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetBlob обрабатывает GET /api/blob?path=...
// Параметр blobPath поддерживается для старых клиентов.
func (h *FilesHandler) GetBlob(w http.ResponseWriter, r *http.Request) {
	ref, err := blobReference(r)
	if err != nil {
		errors.ValidationError(w, "Некорректный параметр path")
		return
	}

	h.serveObject(w, r, ref)
}

// GetObject обрабатывает GET /images/{key...}: ключ объекта — остаток
// декодированного пути после имени контейнера.
func (h *FilesHandler) GetObject(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/"+config.BlobContainer+"/")
	h.serveObject(w, r, key)
}

func (h *FilesHandler) serveObject(w http.ResponseWriter, r *http.Request, ref string) {
	result, err := h.downloadSvc.Fetch(r.Context(), ref)
	if err != nil {
		h.logFailure(r, "Ошибка выдачи файла", err)
		errors.FromError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// blobReference извлекает ссылку на объект: path, иначе blobPath.
// Отсутствие обоих параметров — пустая строка (проверяется сервисом).
func blobReference(r *http.Request) (string, error) {
	query := r.URL.Query()

	var ref string
	if err := runtime.BindQueryParameter("form", true, false, "path", query, &ref); err != nil {
		return "", err
	}
	if ref != "" {
		return ref, nil
	}

	var legacy string
	if err := runtime.BindQueryParameter("form", true, false, "blobPath", query, &legacy); err != nil {
		return "", err
	}
	return legacy, nil
}

// logFailure логирует ошибку сервиса. Ошибки валидации — на уровне DEBUG,
// остальные уже залогированы сервисом с деталями backend'а.
func (h *FilesHandler) logFailure(r *http.Request, msg string, err error) {
	level := slog.LevelWarn
	if service.KindOf(err) == service.KindValidation {
		level = slog.LevelDebug
	}
	h.logger.LogAttrs(r.Context(), level, msg,
		slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		slog.String("kind", service.KindOf(err).String()),
		slog.String("error", err.Error()),
	)
}

func tooLargeMessage(limit int64) string {
	return "Размер файла превышает " + strconv.FormatInt(limit, 10) + " байт"
}

// writeJSON записывает JSON-ответ с указанным статусом.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
