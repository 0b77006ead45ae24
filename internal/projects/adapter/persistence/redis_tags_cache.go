package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"trackserver/internal/projects/domain/model"
	"trackserver/internal/projects/domain/repository"
	"trackserver/internal/shared/logger"

	"github.com/redis/go-redis/v9"
)

// RedisTagsCache caches per-company tag sets in Redis with a TTL. Entries are
// keyed by company and entity type, and dropped when any project of the
// company changes.
type RedisTagsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

var _ repository.TagsCache = (*RedisTagsCache)(nil)

// NewRedisTagsCache creates a tag cache with the given entry TTL.
func NewRedisTagsCache(client *redis.Client, ttl time.Duration, log logger.Logger) *RedisTagsCache {
	return &RedisTagsCache{
		client: client,
		ttl:    ttl,
		logger: log,
	}
}

func tagsCacheKey(company string, entity model.TaggedEntity) string {
	return fmt.Sprintf("tags:%s:%s", company, entity)
}

// Get returns the cached tag sets for the company and entity type, or ok=false
// on a miss. Corrupted entries are treated as misses and dropped.
func (c *RedisTagsCache) Get(ctx context.Context, company string, entity model.TaggedEntity) (*model.TagSets, bool, error) {
	key := tagsCacheKey(company, entity)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read tag cache: %w", err)
	}

	var sets model.TagSets
	if err := json.Unmarshal(data, &sets); err != nil {
		c.logger.WithFields(map[string]interface{}{
			"key": key,
		}).Warn("Dropping corrupted tag cache entry")
		_ = c.client.Del(ctx, key).Err()
		return nil, false, nil
	}

	return &sets, true, nil
}

// Set stores the tag sets for the company and entity type.
func (c *RedisTagsCache) Set(ctx context.Context, company string, entity model.TaggedEntity, sets *model.TagSets) error {
	data, err := json.Marshal(sets)
	if err != nil {
		return fmt.Errorf("failed to serialize tag sets: %w", err)
	}

	if err := c.client.Set(ctx, tagsCacheKey(company, entity), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write tag cache: %w", err)
	}

	return nil
}

// Invalidate drops all cached tag sets for the company.
func (c *RedisTagsCache) Invalidate(ctx context.Context, company string) error {
	keys := []string{
		tagsCacheKey(company, model.TaggedEntityTask),
		tagsCacheKey(company, model.TaggedEntityModel),
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate tag cache: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"company_id": company,
	}).Debug("Invalidated tag cache")

	return nil
}
