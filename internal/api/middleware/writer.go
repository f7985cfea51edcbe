// writer.go — общая обёртка http.ResponseWriter для логирования и метрик.
package middleware

import "net/http"

// statusRecorder запоминает статус-код и объём тела ответа.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int64
}

// recordResponse оборачивает w. Если w уже обёрнут внешним middleware,
// возвращается та же обёртка: статус и размер считаются один раз.
func recordResponse(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(b)
	rec.bytes += int64(n)
	return n, err
}

// Unwrap открывает исходный ResponseWriter для http.ResponseController.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}
