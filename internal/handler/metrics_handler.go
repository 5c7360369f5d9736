package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Orel-y/U-Schedule/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics   *service.MetricsService
	readiness func() error
}

// NewMetricsHandler constructs a metrics handler. The readiness probe may
// be nil, in which case Ready always reports ready.
func NewMetricsHandler(metrics *service.MetricsService, readiness func() error) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, readiness: readiness}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether downstream dependencies answer.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.readiness != nil {
		if err := h.readiness(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
