package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/config"
)

// stubRoutes — заглушка, отвечающая именем вызванного обработчика.
type stubRoutes struct{}

func reply(name string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, name)
	}
}

func (stubRoutes) Index(w http.ResponseWriter, r *http.Request)       { reply("index")(w, r) }
func (stubRoutes) UploadFile(w http.ResponseWriter, r *http.Request)  { reply("upload")(w, r) }
func (stubRoutes) ListImages(w http.ResponseWriter, r *http.Request)  { reply("images")(w, r) }
func (stubRoutes) GetBlob(w http.ResponseWriter, r *http.Request)     { reply("blob")(w, r) }
func (stubRoutes) GetObject(w http.ResponseWriter, r *http.Request)   { reply("object")(w, r) }
func (stubRoutes) OpenAPI(w http.ResponseWriter, r *http.Request)     { reply("openapi")(w, r) }
func (stubRoutes) HealthLive(w http.ResponseWriter, r *http.Request)  { reply("live")(w, r) }
func (stubRoutes) HealthReady(w http.ResponseWriter, r *http.Request) { reply("ready")(w, r) }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRouter_Routes(t *testing.T) {
	router := NewRouter(stubRoutes{}, testLogger())

	tests := []struct {
		method   string
		path     string
		wantCode int
		wantBody string
	}{
		{http.MethodGet, "/", http.StatusOK, "index"},
		{http.MethodPost, "/api/upload", http.StatusOK, "upload"},
		{http.MethodGet, "/api/images", http.StatusOK, "images"},
		{http.MethodGet, "/api/blob?path=a", http.StatusOK, "blob"},
		{http.MethodGet, "/api/openapi.json", http.StatusOK, "openapi"},
		{http.MethodGet, "/images/p1/2024-01-01T00:00:00.000000_a%20b.png", http.StatusOK, "object"},
		{http.MethodPost, "/images/p1/a.png", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/health/live", http.StatusOK, "live"},
		{http.MethodGet, "/health/ready", http.StatusOK, "ready"},
		{http.MethodGet, "/api/upload", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Fatalf("статус %d, ожидался %d", rec.Code, tt.wantCode)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("тело %q, ожидалось %q", rec.Body.String(), tt.wantBody)
			}
			if rec.Header().Get("X-Request-ID") == "" {
				t.Error("нет заголовка X-Request-ID")
			}
		})
	}
}

func TestNewRouter_Static(t *testing.T) {
	router := NewRouter(stubRoutes{}, testLogger())

	for path, wantType := range map[string]string{
		"/static/css/style.css": "text/css",
		"/static/js/app.js":     "javascript",
	} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		if rec.Code != http.StatusOK {
			t.Errorf("%s: статус %d", path, rec.Code)
			continue
		}
		if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, wantType) {
			t.Errorf("%s: Content-Type = %q", path, ct)
		}
	}
}

func TestNewRouter_Metrics(t *testing.T) {
	router := NewRouter(stubRoutes{}, testLogger())

	// Запрос, чтобы HTTP-метрики появились в выводе
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("статус %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ch_http_requests_total") {
		t.Error("в выводе /metrics нет ch_http_requests_total")
	}
}

func TestNew_Timeouts(t *testing.T) {
	cfg := &config.Config{
		Port:                  9000,
		HTTPReadHeaderTimeout: 3 * time.Second,
		HTTPReadTimeout:       5 * time.Second,
		HTTPWriteTimeout:      7 * time.Second,
		HTTPIdleTimeout:       11 * time.Second,
		ShutdownTimeout:       time.Second,
	}
	srv := New(cfg, testLogger(), stubRoutes{})

	if srv.httpServer.Addr != ":9000" {
		t.Errorf("Addr = %q", srv.httpServer.Addr)
	}
	if srv.httpServer.ReadHeaderTimeout != cfg.HTTPReadHeaderTimeout ||
		srv.httpServer.ReadTimeout != cfg.HTTPReadTimeout ||
		srv.httpServer.WriteTimeout != cfg.HTTPWriteTimeout ||
		srv.httpServer.IdleTimeout != cfg.HTTPIdleTimeout {
		t.Error("таймауты сервера не взяты из конфигурации")
	}
	if srv.Handler() == nil {
		t.Error("Handler() вернул nil")
	}
}
