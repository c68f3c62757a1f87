package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is overridable at build time via -ldflags.
var Version = "0.1.0"

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	started time.Time
	ready   func(ctx context.Context) error
}

// NewHealthHandler constructs the handler; ready may be nil when there is no
// dependency to probe.
func NewHealthHandler(ready func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{started: time.Now(), ready: ready}
}

// Health godoc
// @Summary Liveness probe with process uptime
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
		"uptime":  time.Since(h.started).Round(time.Second).String(),
	})
}

// Ready godoc
// @Summary Readiness probe; verifies the catalog is loadable
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
