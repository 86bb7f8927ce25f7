// internal/directory/cache.go
package directory

import (
	"context"
	"encoding/json"
	"time"

	"aid-workflow/internal/common/logger"
	"aid-workflow/internal/models"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "directory:person:"

// CachedDirectory is a read-through Redis cache in front of another
// Directory. Only successful lookups are cached; a cache failure falls
// back to the inner directory and is logged, never surfaced.
type CachedDirectory struct {
	inner  Directory
	client *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedDirectory(inner Directory, client *redis.Client, ttl time.Duration, log logger.Logger) *CachedDirectory {
	return &CachedDirectory{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "directory-cache"}),
	}
}

func (d *CachedDirectory) Lookup(ctx context.Context, id string) (*models.Person, error) {
	key := cacheKeyPrefix + id

	val, err := d.client.Get(ctx, key).Result()
	if err == nil {
		var p models.Person
		if err := json.Unmarshal([]byte(val), &p); err == nil {
			return &p, nil
		}
		// Corrupt entry; drop it and fall through to the inner lookup.
		d.client.Del(ctx, key)
	} else if err != redis.Nil {
		d.logger.Warn("directory cache read failed", map[string]interface{}{
			"error":    err,
			"personId": id,
		})
	}

	p, err := d.inner.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := d.client.Set(ctx, key, data, d.ttl).Err(); err != nil {
			d.logger.Warn("directory cache write failed", map[string]interface{}{
				"error":    err,
				"personId": id,
			})
		}
	}

	return p, nil
}
