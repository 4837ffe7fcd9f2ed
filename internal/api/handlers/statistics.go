package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/loisapp/lois/internal/models"
	"github.com/loisapp/lois/pkg/utils"
)

// statisticsTTL is how long the aggregate snapshot stays cached. Case
// data changes slowly enough that five minutes of staleness is fine.
const statisticsTTL = 5 * time.Minute

// StatsCache is the slice of the redis cache the statistics endpoint uses,
// satisfied by database.Cache.
type StatsCache interface {
	GetCachedCaseStatistics(ctx context.Context) (*models.CaseStatistics, error)
	CacheCaseStatistics(ctx context.Context, stats *models.CaseStatistics, expiration time.Duration) error
	InvalidateCaseStatistics(ctx context.Context) error
}

type StatisticsHandler struct {
	projects models.ProjectRepository
	cache    StatsCache
	logger   *logrus.Logger
}

func NewStatisticsHandler(projects models.ProjectRepository, cache StatsCache, logger *logrus.Logger) *StatisticsHandler {
	return &StatisticsHandler{projects: projects, cache: cache, logger: logger}
}

// Statistics serves the case-count snapshot, cache first. `?refresh=true`
// drops the cached snapshot and recomputes, for callers that just changed
// case data out of band.
func (h *StatisticsHandler) Statistics(c *gin.Context) {
	ctx := c.Request.Context()
	refresh := c.Query("refresh") == "true"

	if h.cache != nil {
		if refresh {
			if err := h.cache.InvalidateCaseStatistics(ctx); err != nil && h.logger != nil {
				h.logger.WithError(err).Warn("Failed to invalidate case statistics")
			}
		} else if stats, err := h.cache.GetCachedCaseStatistics(ctx); err == nil {
			utils.SuccessResponse(c, http.StatusOK, "Case statistics", stats)
			return
		}
	}

	stats, err := h.projects.GetStatistics()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.CacheCaseStatistics(ctx, stats, statisticsTTL); err != nil && h.logger != nil {
			h.logger.WithError(err).Warn("Failed to cache case statistics")
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "Case statistics", stats)
}
