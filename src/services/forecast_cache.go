package services

import (
	"context"
	"time"

	"stocksim/src/schemas"
	"stocksim/src/utils"
	redis_utils "stocksim/src/utils/redis"
)

// ForecastCache stores forecast responses by (symbol, days) key. Fitting the
// model and calling the explainer dominate forecast latency, so responses are
// reused for a short window.
type ForecastCache interface {
	Get(ctx context.Context, key string) (*schemas.ForecastResponse, bool)
	Set(ctx context.Context, key string, value *schemas.ForecastResponse, ttl time.Duration)
}

type memoryForecastCache struct {
	cache *utils.Cache[*schemas.ForecastResponse]
}

// NewMemoryForecastCache is the in-process fallback used when Redis is not
// configured.
func NewMemoryForecastCache() ForecastCache {
	return &memoryForecastCache{cache: utils.NewCache[*schemas.ForecastResponse]()}
}

func (c *memoryForecastCache) Get(_ context.Context, key string) (*schemas.ForecastResponse, bool) {
	return c.cache.Get(key)
}

func (c *memoryForecastCache) Set(_ context.Context, key string, value *schemas.ForecastResponse, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

type redisForecastCache struct {
	handler *redis_utils.RedisHandler
}

func NewRedisForecastCache(handler *redis_utils.RedisHandler) ForecastCache {
	return &redisForecastCache{handler: handler}
}

func (c *redisForecastCache) Get(ctx context.Context, key string) (*schemas.ForecastResponse, bool) {
	var resp schemas.ForecastResponse
	ok, err := c.handler.Get(ctx, key, &resp)
	if err != nil {
		utils.LoggerFromContext(ctx).Warnf("forecast cache read failed: %v", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &resp, true
}

func (c *redisForecastCache) Set(ctx context.Context, key string, value *schemas.ForecastResponse, ttl time.Duration) {
	if err := c.handler.Set(ctx, key, value, ttl); err != nil {
		utils.LoggerFromContext(ctx).Warnf("forecast cache write failed: %v", err)
	}
}
