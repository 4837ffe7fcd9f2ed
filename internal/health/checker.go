// Package health checks the service's dependencies (PostgreSQL, redis,
// and the model API) and records the results for the status endpoints.
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/database"
	"github.com/loisapp/lois/internal/models"
)

type Checker struct {
	dbManager    *database.Manager
	cache        *database.Cache
	healthRepo   models.SystemHealthRepository
	logger       *logrus.Logger
	anthropicURL string
}

func NewChecker(dbManager *database.Manager, healthRepo models.SystemHealthRepository, logger *logrus.Logger, anthropicURL string) *Checker {
	return &Checker{
		dbManager:    dbManager,
		cache:        database.NewCache(dbManager.Redis, logger),
		healthRepo:   healthRepo,
		logger:       logger,
		anthropicURL: anthropicURL,
	}
}

type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

func (h *Checker) record(name string, start time.Time, err error) ServiceHealth {
	responseTime := int(time.Since(start).Milliseconds())
	status := "healthy"
	errorMsg := ""
	if err != nil {
		status = "unhealthy"
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", name).Error("Health check failed")
	}

	if repoErr := h.healthRepo.UpdateServiceHealth(name, status, responseTime, errorMsg); repoErr != nil {
		h.logger.WithError(repoErr).Warn("Failed to persist health status")
	}

	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

func (h *Checker) CheckPostgreSQL() ServiceHealth {
	start := time.Now()
	return h.record("postgresql", start, h.dbManager.PingDatabase())
}

func (h *Checker) CheckRedis() ServiceHealth {
	start := time.Now()
	return h.record("redis", start, h.dbManager.PingRedis())
}

// CheckAnthropic verifies the API endpoint is reachable. Any HTTP response
// counts as reachable; an unauthenticated GET is expected to 4xx.
func (h *Checker) CheckAnthropic() ServiceHealth {
	start := time.Now()

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(h.anthropicURL + "/v1/messages")
	if err == nil {
		resp.Body.Close()
	}
	return h.record("anthropic", start, err)
}

func (h *Checker) CheckAll() OverallHealth {
	services := []ServiceHealth{
		h.CheckPostgreSQL(),
		h.CheckRedis(),
		h.CheckAnthropic(),
	}

	return OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.getUptime(),
	}
}

func overallStatus(services []ServiceHealth) string {
	status := "healthy"
	for _, service := range services {
		if service.Status == "unhealthy" {
			return "unhealthy"
		}
		if service.Status == "degraded" {
			status = "degraded"
		}
	}
	return status
}

// CheckCached returns the last cached check so the status endpoint does
// not hammer dependencies on every request.
func (h *Checker) CheckCached(ctx context.Context) (*OverallHealth, error) {
	cached, err := h.cache.GetCachedSystemHealth(ctx)
	if err != nil {
		return nil, err
	}

	services := make([]ServiceHealth, len(cached))
	for i, entry := range cached {
		services[i] = ServiceHealth{
			Name:         entry.ServiceName,
			Status:       entry.Status,
			ResponseTime: entry.ResponseTimeMs,
			Error:        entry.ErrorMessage,
			LastChecked:  entry.CheckedAt.Format(time.RFC3339),
		}
	}

	return &OverallHealth{
		Status:   overallStatus(services),
		Services: services,
		Uptime:   h.getUptime(),
	}, nil
}

var startTime = time.Now()

func (h *Checker) getUptime() string {
	return time.Since(startTime).String()
}

// RunPeriodic re-checks every interval and caches the result until the
// context is cancelled.
func (h *Checker) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			health := h.CheckAll()

			cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			entries := make([]models.SystemHealth, len(health.Services))
			for i, service := range health.Services {
				checkedAt, _ := time.Parse(time.RFC3339, service.LastChecked)
				entries[i] = models.SystemHealth{
					ServiceName:    service.Name,
					Status:         service.Status,
					ResponseTimeMs: service.ResponseTime,
					ErrorMessage:   service.Error,
					CheckedAt:      checkedAt,
				}
			}
			if err := h.cache.CacheSystemHealth(cacheCtx, entries, 2*interval); err != nil {
				h.logger.WithError(err).Error("Failed to cache health status")
			}
			cancel()

			h.logger.WithField("status", health.Status).Debug("Periodic health check completed")
		}
	}
}
