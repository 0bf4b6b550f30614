package cache

import (
	"concierge/internal/model"
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DetectionCache memoizes detection results keyed by normalized text.
// Detection is a pure function of the text and the knowledge base, so the
// only staleness risk is a KB change; callers bake a KB fingerprint into
// the key.
type DetectionCache interface {
	Get(ctx context.Context, key string) (*model.DetectionResult, error)
	Set(ctx context.Context, key string, result *model.DetectionResult) error
}

type detectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDetectionCache creates a redis-backed detection cache
func NewDetectionCache(client *redis.Client) DetectionCache {
	return &detectionCache{
		client: client,
		ttl:    10 * time.Minute,
	}
}

func (c *detectionCache) Get(ctx context.Context, key string) (*model.DetectionResult, error) {
	data, err := c.client.Get(ctx, "detect:"+key).Result()
	if err != nil {
		return nil, err
	}
	var result model.DetectionResult
	err = json.Unmarshal([]byte(data), &result)
	return &result, err
}

func (c *detectionCache) Set(ctx context.Context, key string, result *model.DetectionResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, "detect:"+key, data, c.ttl).Err()
}
