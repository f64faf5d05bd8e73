package response

import "time"

// CloneResponse is returned by POST /clone. Clients only rely on HTML.
type CloneResponse struct {
	HTML   string `json:"html"`
	ID     string `json:"id"`
	URL    string `json:"url"`
	Cached bool   `json:"cached"`
}

// CloneDetailResponse is returned by GET /api/clones/{id}.
type CloneDetailResponse struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	HTML      string    `json:"html"`
	Scraper   string    `json:"scraper"`
	CreatedAt time.Time `json:"created_at"`
}

// CloneRecordResponse is a DTO for a clone_history row.
type CloneRecordResponse struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Status        string    `json:"status"` // "completed", "failed"
	FailureReason string    `json:"failure_reason,omitempty"`
	HTMLBytes     int       `json:"html_bytes"`
	DurationMS    int64     `json:"duration_ms"`
	Cached        bool      `json:"cached"`
	CreatedAt     time.Time `json:"created_at"`
}

// ErrorResponse carries a human-readable failure in the field clients display.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
