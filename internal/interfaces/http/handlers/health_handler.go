package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/roofsight/RoofSight-Engine/pkg/types/common"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 3 * time.Second

// HealthChecker probes one dependency.
type HealthChecker func(ctx context.Context) error

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	checkers map[string]HealthChecker
}

// NewHealthHandler registers named dependency probes for readiness.
func NewHealthHandler(checkers map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers}
}

// Liveness reports the process is up.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": common.HealthUp})
}

// Readiness probes every registered dependency; any failure yields 503 with
// the per-component breakdown.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	status := http.StatusOK
	components := make([]common.ComponentHealth, 0, len(h.checkers))
	for name, check := range h.checkers {
		start := time.Now()
		component := common.ComponentHealth{Name: name, Status: common.HealthUp}
		if err := check(ctx); err != nil {
			component.Status = common.HealthDown
			component.Message = err.Error()
			status = http.StatusServiceUnavailable
		}
		component.Latency = time.Since(start)
		components = append(components, component)
	}

	overall := common.HealthUp
	if status != http.StatusOK {
		overall = common.HealthDown
	}
	c.JSON(status, gin.H{"status": overall, "components": components})
}
