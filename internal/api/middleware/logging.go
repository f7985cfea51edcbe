// logging.go — журнал HTTP-запросов через slog.
package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestLogger пишет одну запись на запрос. Поле route совпадает с лейблом
// path HTTP-метрик, request_bytes — заявленный Content-Length (-1, если неизвестен).
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			rec := recordResponse(w)

			next.ServeHTTP(rec, r)

			logger.LogAttrs(r.Context(), levelForStatus(rec.status), "HTTP запрос",
				slog.String("request_id", RequestIDFromContext(r.Context())),
				slog.String("method", r.Method),
				slog.String("route", normalizePath(r.URL.Path)),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int64("request_bytes", r.ContentLength),
				slog.Int64("response_bytes", rec.bytes),
				slog.Duration("duration", time.Since(started)),
				slog.String("remote_addr", r.RemoteAddr),
			)
		})
	}
}

// levelForStatus: 5xx — ERROR, 4xx — WARN, остальное — INFO.
func levelForStatus(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
