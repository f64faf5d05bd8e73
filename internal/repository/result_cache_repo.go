package repository

import (
	"context"
	"time"

	"github.com/user/site-cloner/internal/entity"
)

// ResultCache defines the interface for caching generated clones by ID.
type ResultCache interface {
	// Get returns ErrCacheMiss when nothing is stored under id.
	Get(ctx context.Context, id string) (*entity.CloneResult, error)
	// Set stores the result under result.ID with the given expiry.
	Set(ctx context.Context, result *entity.CloneResult, expiry time.Duration) error
	Ping(ctx context.Context) error
}
