// metrics.go — Prometheus HTTP метрики GameClipsHub.
// Регистрирует метрики: ch_http_requests_total, ch_http_request_duration_seconds,
// ch_http_response_size_bytes.
// Бизнес-метрики (ch_uploads_total и др.) регистрируются в пакете service.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ch_http_requests_total",
			Help: "Общее количество HTTP-запросов к GameClipsHub",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ch_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к GameClipsHub в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// httpResponseSize — гистограмма размера тела ответа.
	httpResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ch_http_response_size_bytes",
			Help:    "Размер тела HTTP-ответа GameClipsHub в байтах",
			Buckets: prometheus.ExponentialBuckets(256, 8, 8),
		},
		[]string{"path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := normalizePath(r.URL.Path)

			rec := recordResponse(w)
			next.ServeHTTP(rec, r)

			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			httpResponseSize.WithLabelValues(route).Observe(float64(rec.bytes))
		})
	}
}

// normalizePath ограничивает кардинальность лейбла path известными маршрутами.
// То же значение пишется в поле route журнала запросов.
func normalizePath(path string) string {
	switch path {
	case "/", "/api/upload", "/api/images", "/api/blob", "/api/openapi.json",
		"/health/live", "/health/ready", "/metrics":
		return path
	}
	if strings.HasPrefix(path, "/static/") {
		return "/static/*"
	}
	if strings.HasPrefix(path, "/images/") {
		return "/images/*"
	}
	return "other"
}
