package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is implemented by dependencies that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves GET /health.
type HealthHandler struct {
	detector Detector
	cache    Pinger
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(d Detector, cache Pinger) *HealthHandler {
	return &HealthHandler{detector: d, cache: cache}
}

// HealthStatus is the /health response body.
type HealthStatus struct {
	Status string `json:"status"`
	Labels int    `json:"labels"`
	Cache  string `json:"cache,omitempty"`
}

// Health reports the loaded label count. The cache is optional, so an
// unreachable cache is reported without failing the check.
func (h *HealthHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status: "ok",
		Labels: len(h.detector.Labels()),
	}

	if h.cache != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.cache.Ping(ctx); err != nil {
			status.Cache = "unavailable"
		} else {
			status.Cache = "ok"
		}
	}

	c.JSON(http.StatusOK, status)
}
