package repository

import "context"

// Generator turns simplified page HTML into a single self-contained HTML document.
type Generator interface {
	Generate(ctx context.Context, pageURL, html string) (string, error)
}
