package handlers

import (
	"net/http"

	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports dependency health.
type HealthHandler struct {
	Monitor *utils.HealthMonitor
}

func NewHealthHandler(m *utils.HealthMonitor) *HealthHandler {
	return &HealthHandler{Monitor: m}
}

// CheckHandler handles GET /health. Unhealthy dependencies yield 503.
func (h *HealthHandler) CheckHandler(c *gin.Context) {
	status := h.Monitor.Status()
	if status.CheckedAt.IsZero() {
		status = h.Monitor.Check(c.Request.Context())
	}
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, utils.SuccessResponse{Success: status.Healthy, Message: "WheelsTrust API", Data: status})
}
