package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/user/site-cloner/internal/entity"
)

const maxHistoryLimit = 100

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// HistoryRepoImpl provides a concrete implementation for the HistoryRepository interface using PostgreSQL.
type HistoryRepoImpl struct {
	db DB
}

// NewHistoryRepo creates a new instance of HistoryRepoImpl.
func NewHistoryRepo(db DB) *HistoryRepoImpl {
	return &HistoryRepoImpl{db: db}
}

// EnsureSchema creates the clone_history table when it does not exist yet.
func (r *HistoryRepoImpl) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS clone_history (
			id             BIGSERIAL PRIMARY KEY,
			url            TEXT        NOT NULL,
			status         TEXT        NOT NULL,
			failure_reason TEXT        NOT NULL DEFAULT '',
			html_bytes     INTEGER     NOT NULL DEFAULT 0,
			duration_ms    BIGINT      NOT NULL DEFAULT 0,
			cached         BOOLEAN     NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS clone_history_created_at_idx ON clone_history (created_at DESC);
	`
	_, err := r.db.Exec(ctx, query)
	return err
}

// Save inserts a clone attempt and scans back the generated id and timestamp.
func (r *HistoryRepoImpl) Save(ctx context.Context, record *entity.CloneRecord) error {
	query := `
		INSERT INTO clone_history (url, status, failure_reason, html_bytes, duration_ms, cached)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at;
	`
	return r.db.QueryRow(ctx, query,
		record.URL,
		record.Status,
		record.FailureReason,
		record.HTMLBytes,
		record.DurationMS,
		record.Cached,
	).Scan(&record.ID, &record.CreatedAt)
}

// ListRecent retrieves the newest clone attempts.
func (r *HistoryRepoImpl) ListRecent(ctx context.Context, limit int) ([]*entity.CloneRecord, error) {
	if limit <= 0 || limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	query := `
		SELECT id, url, status, failure_reason, html_bytes, duration_ms, cached, created_at
		FROM clone_history
		ORDER BY created_at DESC, id DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*entity.CloneRecord, 0, limit)
	for rows.Next() {
		var rec entity.CloneRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.URL,
			&rec.Status,
			&rec.FailureReason,
			&rec.HTMLBytes,
			&rec.DurationMS,
			&rec.Cached,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}

	return records, rows.Err()
}

func (r *HistoryRepoImpl) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
