package entity

import "time"

// CloneResult is a generated page, as cached and returned by POST /clone.
type CloneResult struct {
	ID        string    `json:"id"` // SHA-256 of URL
	URL       string    `json:"url"`
	HTML      string    `json:"html"`
	Scraper   string    `json:"scraper"`
	CreatedAt time.Time `json:"created_at"`
	Cached    bool      `json:"-"`
}
