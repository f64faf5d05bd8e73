package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/user/site-cloner/internal/entity"
	"github.com/user/site-cloner/internal/repository"
)

const resultKeyPrefix = "cloner:result:"

// ResultCacheImpl provides a concrete implementation for the ResultCache interface using Redis.
type ResultCacheImpl struct {
	client *redis.Client
}

// NewResultCache creates a new instance of ResultCacheImpl.
func NewResultCache(client *redis.Client) *ResultCacheImpl {
	return &ResultCacheImpl{client: client}
}

func (r *ResultCacheImpl) generateKey(id string) string {
	return fmt.Sprintf("%s%s", resultKeyPrefix, id)
}

// Get loads a cached clone by ID.
func (r *ResultCacheImpl) Get(ctx context.Context, id string) (*entity.CloneResult, error) {
	raw, err := r.client.Get(ctx, r.generateKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrCacheMiss
		}
		return nil, err
	}

	var result entity.CloneResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode cached clone %s: %w", id, err)
	}
	return &result, nil
}

// Set stores a clone with SETEX. A zero expiry keeps the key forever.
func (r *ResultCacheImpl) Set(ctx context.Context, result *entity.CloneResult, expiry time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.generateKey(result.ID), raw, expiry).Err()
}

func (r *ResultCacheImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
