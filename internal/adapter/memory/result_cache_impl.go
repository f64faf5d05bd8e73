package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/user/site-cloner/internal/entity"
	"github.com/user/site-cloner/internal/repository"
)

// ResultCacheImpl is the in-process ResultCache used when no Redis address is configured.
type ResultCacheImpl struct {
	cache *gocache.Cache
}

// NewResultCache creates an in-memory cache. Expired items are purged every cleanupInterval.
func NewResultCache(cleanupInterval time.Duration) *ResultCacheImpl {
	return &ResultCacheImpl{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (r *ResultCacheImpl) Get(_ context.Context, id string) (*entity.CloneResult, error) {
	v, found := r.cache.Get(id)
	if !found {
		return nil, repository.ErrCacheMiss
	}
	result, ok := v.(entity.CloneResult)
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &result, nil
}

// Set stores a copy of result. A zero expiry never expires.
func (r *ResultCacheImpl) Set(_ context.Context, result *entity.CloneResult, expiry time.Duration) error {
	if expiry <= 0 {
		expiry = gocache.NoExpiration
	}
	r.cache.Set(result.ID, *result, expiry)
	return nil
}

func (r *ResultCacheImpl) Ping(context.Context) error {
	return nil
}
