package repository

// Simplifier reduces scraped HTML to what the generator needs.
type Simplifier interface {
	Simplify(pageURL, html string) (string, error)
}
