package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MihaiIliescu/egeria/internal/cache"
	"github.com/MihaiIliescu/egeria/internal/repository"
)

func setup(t *testing.T) (*cache.CachingStore, *repository.MemoryStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := repository.NewMemoryStore()
	return cache.NewCachingStore(store, client, zap.NewNop(), "test:", time.Minute), store, mr
}

func process(guid, name string) *repository.EntityDetail {
	return &repository.EntityDetail{
		InstanceHeader: repository.InstanceHeader{GUID: guid, Type: repository.NewInstanceType(repository.ProcessType)},
		Properties:     repository.InstanceProperties{repository.QualifiedNameProperty: name},
	}
}

func TestGetEntityFillsCache(t *testing.T) {
	ctx := context.Background()
	c, _, mr := setup(t)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))

	got, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:one", got.Properties.GetString(repository.QualifiedNameProperty))
	assert.True(t, mr.Exists("test:entity:p1"))
	assert.Equal(t, time.Minute, mr.TTL("test:entity:p1"))
}

func TestGetEntityServedFromCache(t *testing.T) {
	ctx := context.Background()
	c, store, _ := setup(t)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))
	_, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)

	// Bypass the cache: the cached copy is still returned.
	require.NoError(t, store.UpdateEntity(ctx, process("p1", "Process:changed")))
	got, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:one", got.Properties.GetString(repository.QualifiedNameProperty))
}

func TestUpdateInvalidates(t *testing.T) {
	ctx := context.Background()
	c, _, mr := setup(t)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))
	_, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, c.UpdateEntity(ctx, process("p1", "Process:two")))
	assert.False(t, mr.Exists("test:entity:p1"))

	got, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:two", got.Properties.GetString(repository.QualifiedNameProperty))
}

func TestDeleteInvalidates(t *testing.T) {
	ctx := context.Background()
	c, _, mr := setup(t)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))
	_, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)

	require.NoError(t, c.DeleteEntity(ctx, "p1"))
	assert.False(t, mr.Exists("test:entity:p1"))
	_, err = c.GetEntity(ctx, "p1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRedisDownFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 50 * time.Millisecond})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewCachingStore(repository.NewMemoryStore(), client, zap.NewNop(), "", time.Minute)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))

	got, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.GUID)
	require.NoError(t, c.UpdateEntity(ctx, process("p1", "Process:two")))
	require.NoError(t, c.DeleteEntity(ctx, "p1"))
}

// racingStore runs onRead after each inner read, before the caller sees the result.
type racingStore struct {
	*repository.MemoryStore
	onRead func()
}

func (s *racingStore) GetEntity(ctx context.Context, guid string) (*repository.EntityDetail, error) {
	e, err := s.MemoryStore.GetEntity(ctx, guid)
	if s.onRead != nil {
		hook := s.onRead
		s.onRead = nil
		hook()
	}
	return e, err
}

func TestWriteDuringFillIsNotCached(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := &racingStore{MemoryStore: repository.NewMemoryStore()}
	c := cache.NewCachingStore(store, client, zap.NewNop(), "test:", time.Minute)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:old")))

	store.onRead = func() {
		require.NoError(t, c.UpdateEntity(ctx, process("p1", "Process:new")))
	}
	got, err := c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:old", got.Properties.GetString(repository.QualifiedNameProperty))
	assert.False(t, mr.Exists("test:entity:p1"))

	got, err = c.GetEntity(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Process:new", got.Properties.GetString(repository.QualifiedNameProperty))
	assert.True(t, mr.Exists("test:entity:p1"))
}

func TestInvalidateBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	c, _, mr := setup(t)
	require.NoError(t, c.CreateEntity(ctx, process("p1", "Process:one")))
	require.NoError(t, c.UpdateEntity(ctx, process("p1", "Process:two")))
	require.NoError(t, c.UpdateEntity(ctx, process("p1", "Process:three")))

	gen, err := mr.Get("test:gen:p1")
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
	assert.Positive(t, mr.TTL("test:gen:p1"))
}
