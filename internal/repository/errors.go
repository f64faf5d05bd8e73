package repository

import "errors"

var (
	ErrCacheMiss         = errors.New("clone result not found in cache")
	ErrScrapeTimeout     = errors.New("scrape timed out")
	ErrNavigationFailed  = errors.New("navigation failed")
	ErrContentRestricted = errors.New("content is restricted or requires authentication")
	ErrHistoryDisabled   = errors.New("clone history storage is not configured")
)
