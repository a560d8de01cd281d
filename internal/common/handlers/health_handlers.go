package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/architect/classroom-backend/internal/common/health"
)

// HealthHandler exposes the health probes over HTTP.
type HealthHandler struct {
	checker *health.Checker
}

func NewHealthHandler(checker *health.Checker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health returns the full health report.
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.checker.Check())
}

// Readiness reports whether the service can take traffic.
// GET /health/readiness
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.checker.IsReady() {
		c.JSON(http.StatusOK, gin.H{"ready": true})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false})
}

// Liveness reports process liveness.
// GET /health/liveness
func (h *HealthHandler) Liveness(c *gin.Context) {
	if h.checker.IsAlive() {
		c.JSON(http.StatusOK, gin.H{"alive": true})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"alive": false})
}
