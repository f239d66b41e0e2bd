package handler

import (
	"context"
	"net/http"
	"time"

	"signup-gateway/internal/container"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	container *container.Container
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(container *container.Container) *HealthHandler {
	return &HealthHandler{
		container: container,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Service   string            `json:"service"`
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Check handles GET /health. Redis being down degrades the status but the
// service keeps answering; the submission lock fails open.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	logger := h.container.GetLogger()

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   "1.0.0",
		Service:   "signup-gateway",
		Ready:     h.container.Pipeline.Ready(),
	}

	if h.container.HasRedis() {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		response.Checks = map[string]string{"redis": "ok"}
		if err := h.container.RedisClient.Health(ctx); err != nil {
			logger.WithError(err).Warn("Redis health check failed")
			response.Checks["redis"] = "unavailable"
			response.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, response, logger)
}
