// health.go — обработчики health endpoints для Kubernetes probes.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Garondorf03/GameClipsHub/internal/config"
)

// Статусы проверок готовности.
const (
	statusOK            = "ok"
	statusFail          = "fail"
	statusDegraded      = "degraded"
	statusNotConfigured = "not_configured"
)

// defaultPingTimeout — таймаут проверки одного хранилища.
const defaultPingTimeout = 3 * time.Second

// Pinger — хранилище, доступность которого проверяется в /health/ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadinessTarget — одно проверяемое хранилище.
// Pinger == nil означает, что хранилище не настроено.
type ReadinessTarget struct {
	Name    string
	Backend string
	Pinger  Pinger
}

// HealthHandler реализует health endpoints: /health/live, /health/ready.
type HealthHandler struct {
	version     string
	targets     []ReadinessTarget
	pingTimeout time.Duration
}

// NewHealthHandler создаёт обработчик health endpoints.
func NewHealthHandler(targets ...ReadinessTarget) *HealthHandler {
	return &HealthHandler{
		version:     config.Version,
		targets:     targets,
		pingTimeout: defaultPingTimeout,
	}
}

// HealthLive обрабатывает GET /health/live.
// Возвращает 200, пока процесс жив. Зависимости не проверяются.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    statusOK,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   h.version,
		"service":   "clipshub",
	})
}

// HealthReady обрабатывает GET /health/ready.
// Недоступное хранилище — fail (503); ненастроенное — degraded (200).
func (h *HealthHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	overallStatus := statusOK
	httpStatus := http.StatusOK
	checks := make(map[string]any, len(h.targets))

	for _, target := range h.targets {
		check := h.check(r.Context(), target)
		checks[target.Name] = check

		switch check["status"] {
		case statusFail:
			overallStatus = statusFail
			httpStatus = http.StatusServiceUnavailable
		case statusNotConfigured:
			if overallStatus == statusOK {
				overallStatus = statusDegraded
			}
		}
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// check пингует одно хранилище с таймаутом.
func (h *HealthHandler) check(ctx context.Context, target ReadinessTarget) map[string]any {
	if target.Pinger == nil {
		return map[string]any{
			"status":  statusNotConfigured,
			"message": "хранилище не настроено",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, h.pingTimeout)
	defer cancel()

	if err := target.Pinger.Ping(ctx); err != nil {
		return map[string]any{
			"status":  statusFail,
			"backend": target.Backend,
			"message": err.Error(),
		}
	}
	return map[string]any{
		"status":  statusOK,
		"backend": target.Backend,
	}
}
