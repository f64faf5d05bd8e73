package repository

import (
	"context"

	"github.com/user/site-cloner/internal/entity"
)

// HistoryRepository defines the interface for recording clone attempts.
type HistoryRepository interface {
	// Save inserts a record and fills in its ID and CreatedAt.
	Save(ctx context.Context, record *entity.CloneRecord) error
	// ListRecent returns at most limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.CloneRecord, error)
	Ping(ctx context.Context) error
}
