package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/loisapp/lois/internal/models"
	"github.com/sirupsen/logrus"
)

// Cache implementation over Redis
type Cache struct {
	client *redis.Client
	logger *logrus.Logger
}

func NewCache(client *redis.Client, logger *logrus.Logger) *Cache {
	return &Cache{
		client: client,
		logger: logger,
	}
}

// Cache key constants
const (
	CaseStatisticsKey = "stats:cases"
	SystemHealthKey   = "system:health"
)

// CacheCaseStatistics caches the aggregate case snapshot used by the
// conversational handler.
func (c *Cache) CacheCaseStatistics(ctx context.Context, stats *models.CaseStatistics, expiration time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal case statistics: %w", err)
	}

	return c.client.Set(ctx, CaseStatisticsKey, data, expiration).Err()
}

// GetCachedCaseStatistics retrieves the cached case snapshot
func (c *Cache) GetCachedCaseStatistics(ctx context.Context) (*models.CaseStatistics, error) {
	data, err := c.client.Get(ctx, CaseStatisticsKey).Result()
	if err != nil {
		return nil, err
	}

	var stats models.CaseStatistics
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// CacheSystemHealth caches system health status
func (c *Cache) CacheSystemHealth(ctx context.Context, health []models.SystemHealth, expiration time.Duration) error {
	data, err := json.Marshal(health)
	if err != nil {
		return fmt.Errorf("failed to marshal system health: %w", err)
	}

	return c.client.Set(ctx, SystemHealthKey, data, expiration).Err()
}

// GetCachedSystemHealth retrieves cached system health
func (c *Cache) GetCachedSystemHealth(ctx context.Context) ([]models.SystemHealth, error) {
	data, err := c.client.Get(ctx, SystemHealthKey).Result()
	if err != nil {
		return nil, err
	}

	var health []models.SystemHealth
	err = json.Unmarshal([]byte(data), &health)
	return health, err
}

// InvalidateCaseStatistics drops the cached aggregate snapshot
func (c *Cache) InvalidateCaseStatistics(ctx context.Context) error {
	return c.client.Del(ctx, CaseStatisticsKey).Err()
}
