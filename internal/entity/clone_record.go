package entity

import "time"

const (
	CloneStatusCompleted = "completed"
	CloneStatusFailed    = "failed"
)

// CloneRecord mirrors the `clone_history` PostgreSQL table schema.
type CloneRecord struct {
	ID            int64
	URL           string
	Status        string // "completed" or "failed"
	FailureReason string
	HTMLBytes     int
	DurationMS    int64
	Cached        bool
	CreatedAt     time.Time
}
