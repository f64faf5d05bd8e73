package repository

import "context"

// Scraper defines the contract for fetching the raw HTML of a page.
type Scraper interface {
	// Name identifies the backend, e.g. "firecrawl" or "chromedp".
	Name() string
	// Scrape returns the page HTML. An empty string with a nil error means the page had no HTML.
	Scrape(ctx context.Context, url string) (string, error)
}
