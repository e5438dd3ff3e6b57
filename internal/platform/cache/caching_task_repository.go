// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"taskmanager/internal/feature/tasks/domain/entity"
	"taskmanager/internal/feature/tasks/usecase"
)

// CachingTaskRepository decorates a TaskRepository with Redis caching of list queries.
// Lists are cached per owner and filter; any write by an owner drops all of that owner's lists.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb disables caching.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

// List checks the cache first and falls back to the inner repository.
func (c *CachingTaskRepository) List(ctx context.Context, ownerID string, filter entity.ListFilter) ([]entity.Task, error) {
	if c.rdb == nil {
		return c.inner.List(ctx, ownerID, filter)
	}

	key := c.cacheKey(ownerID, filter)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Task
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.List(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

func (c *CachingTaskRepository) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	return c.inner.FindByID(ctx, ownerID, id)
}

func (c *CachingTaskRepository) Update(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Update(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.OwnerID)
	return nil
}

func (c *CachingTaskRepository) Delete(ctx context.Context, ownerID, id string) error {
	if err := c.inner.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

func (c *CachingTaskRepository) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	n, err := c.inner.DeleteByOwner(ctx, ownerID)
	if err != nil {
		return n, err
	}
	c.invalidate(ctx, ownerID)
	return n, nil
}

// invalidate drops every cached list of the owner. Failures are logged, never returned.
func (c *CachingTaskRepository) invalidate(ctx context.Context, ownerID string) {
	if c.rdb == nil {
		return
	}
	if err := c.deleteByPattern(ctx, c.ownerPrefix(ownerID)+"*"); err != nil {
		slog.Warn("task cache invalidation failed", "error", err, "owner_id", ownerID)
	}
}

func (c *CachingTaskRepository) cacheKey(ownerID string, filter entity.ListFilter) string {
	return c.ownerPrefix(ownerID) + filter.Key()
}

func (c *CachingTaskRepository) ownerPrefix(ownerID string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(ownerID))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingTaskRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic in Redis keys and glob patterns.
func safe(s string) string {
	return strings.NewReplacer(" ", "_", ":", "_", "*", "_", "?", "_", "[", "_", "]", "_").Replace(s)
}
