package cache

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// memoryCache keeps JSON-encoded values in process, mirroring the Redis
// cache's copy semantics.
type memoryCache struct {
	store *gocache.Cache
}

func NewMemoryCache() Cache {
	return &memoryCache{store: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.store.Get(key)
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(raw.([]byte), dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if expiration <= 0 {
		expiration = gocache.NoExpiration
	}
	m.store.Set(key, data, expiration)
	return nil
}
