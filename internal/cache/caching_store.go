// Package cache puts a Redis read-through cache in front of a metadata store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/repository"
	"github.com/MihaiIliescu/egeria/pkg/metrics"
)

// ErrCacheMiss indicates a cache miss
var ErrCacheMiss = errors.New("cache miss")

// generationTTL bounds how long the write generation of an entity is remembered. Fills
// that take longer than this are not protected.
const generationTTL = 24 * time.Hour

// fillScript stores the entity only when no write bumped its generation since the fill
// started.
var fillScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
  return 0
end
local ttl = tonumber(ARGV[3])
if ttl > 0 then
  redis.call('SET', KEYS[2], ARGV[2], 'PX', ttl)
else
  redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// invalidateScript bumps the generation and drops the cached copy in one step.
var invalidateScript = redis.NewScript(`
redis.call('INCR', KEYS[1])
redis.call('PEXPIRE', KEYS[1], ARGV[1])
redis.call('DEL', KEYS[2])
return 1
`)

// CachingStore caches entities by GUID. Entity writes go to the store first and then
// invalidate the cached copy. Every write bumps a generation counter; a miss only fills
// the cache when the generation is unchanged since before the store was read, so a copy
// read before a concurrent write is never cached. Redis failures are logged and the store
// is used directly.
type CachingStore struct {
	repository.Store
	client redis.Cmdable
	log    *zap.Logger
	prefix string
	ttl    time.Duration
}

var _ repository.Store = (*CachingStore)(nil)

// NewCachingStore wraps store. Keys are prefix + "entity:" + guid.
func NewCachingStore(store repository.Store, client redis.Cmdable, log *zap.Logger, prefix string, ttl time.Duration) *CachingStore {
	if log == nil {
		log = zap.NewNop()
	}
	if prefix == "" {
		prefix = "omag:"
	}
	return &CachingStore{Store: store, client: client, log: log, prefix: prefix, ttl: ttl}
}

func (c *CachingStore) entityKey(guid string) string {
	return c.prefix + "entity:" + guid
}

func (c *CachingStore) generationKey(guid string) string {
	return c.prefix + "gen:" + guid
}

// GetEntity returns the cached copy or reads through to the store.
func (c *CachingStore) GetEntity(ctx context.Context, guid string) (*repository.EntityDetail, error) {
	cached, err := c.getCached(ctx, guid)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	case errors.Is(err, ErrCacheMiss):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
	}

	generation, genErr := c.generation(ctx, guid)
	entity, err := c.Store.GetEntity(ctx, guid)
	if err != nil {
		return nil, err
	}
	if genErr == nil {
		c.setCached(ctx, entity, generation)
	}
	return entity, nil
}

// UpdateEntity writes through and invalidates.
func (c *CachingStore) UpdateEntity(ctx context.Context, entity *repository.EntityDetail) error {
	if err := c.Store.UpdateEntity(ctx, entity); err != nil {
		return err
	}
	c.invalidate(ctx, entity.GUID)
	return nil
}

// DeleteEntity deletes from the store and invalidates.
func (c *CachingStore) DeleteEntity(ctx context.Context, guid string) error {
	if err := c.Store.DeleteEntity(ctx, guid); err != nil {
		return err
	}
	c.invalidate(ctx, guid)
	return nil
}

func (c *CachingStore) getCached(ctx context.Context, guid string) (*repository.EntityDetail, error) {
	key := c.entityKey(guid)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		c.log.Warn("failed to get entity from cache", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	var entity repository.EntityDetail
	if err := json.Unmarshal(data, &entity); err != nil {
		c.log.Warn("failed to unmarshal cached entity", zap.Error(err), zap.String("key", key))
		return nil, err
	}
	return &entity, nil
}

// generation returns the write generation of guid, "0" when it was never written.
func (c *CachingStore) generation(ctx context.Context, guid string) (string, error) {
	gen, err := c.client.Get(ctx, c.generationKey(guid)).Result()
	switch {
	case err == nil:
		return gen, nil
	case errors.Is(err, redis.Nil):
		return "0", nil
	default:
		c.log.Warn("failed to read entity generation", zap.Error(err), zap.String("guid", guid))
		return "", err
	}
}

func (c *CachingStore) setCached(ctx context.Context, entity *repository.EntityDetail, generation string) {
	key := c.entityKey(entity.GUID)
	data, err := json.Marshal(entity)
	if err != nil {
		c.log.Warn("failed to marshal entity for cache", zap.Error(err))
		return
	}
	keys := []string{c.generationKey(entity.GUID), key}
	stored, err := fillScript.Run(ctx, c.client, keys, generation, data, c.ttl.Milliseconds()).Int()
	if err != nil {
		c.log.Warn("failed to set entity in cache", zap.Error(err), zap.String("key", key))
		return
	}
	if stored == 0 {
		c.log.Debug("entity changed while reading, not caching", zap.String("key", key))
	}
}

func (c *CachingStore) invalidate(ctx context.Context, guid string) {
	keys := []string{c.generationKey(guid), c.entityKey(guid)}
	if err := invalidateScript.Run(ctx, c.client, keys, generationTTL.Milliseconds()).Err(); err != nil {
		c.log.Warn("failed to invalidate entity cache", zap.Error(err), zap.String("guid", guid))
	}
}
