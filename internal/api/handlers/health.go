package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/health"
	"github.com/loisapp/lois/internal/models"
)

type HealthHandler struct {
	checker *health.Checker
	logger  *logrus.Logger
}

func NewHealthHandler(checker *health.Checker, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// Health is the cheap liveness probe.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Service:   "lois-backend",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// DetailedHealth reports per-dependency status. The cached result is
// preferred; a cache miss triggers a live check.
func (h *HealthHandler) DetailedHealth(c *gin.Context) {
	overall, err := h.checker.CheckCached(c.Request.Context())
	if err != nil || len(overall.Services) == 0 {
		live := h.checker.CheckAll()
		overall = &live
	}

	code := http.StatusOK
	if overall.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, overall)
}
