package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/site-cloner/internal/repository"
	"go.uber.org/zap"
)

const maxErrorBody = 512

type scrapeRequest struct {
	URL         string      `json:"url"`
	PageOptions pageOptions `json:"pageOptions"`
}

type pageOptions struct {
	OnlyMainContent bool `json:"onlyMainContent"`
	IncludeHTML     bool `json:"includeHtml"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		HTML string `json:"html"`
	} `json:"data"`
}

// FirecrawlScraper fetches pages through a Firecrawl instance's /v0/scrape endpoint.
type FirecrawlScraper struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *zap.Logger
}

// NewFirecrawlScraper creates a scraper for the Firecrawl instance at host.
func NewFirecrawlScraper(host, apiKey string, timeout time.Duration, logger *zap.Logger) *FirecrawlScraper {
	return &FirecrawlScraper{
		endpoint: strings.TrimRight(host, "/") + "/v0/scrape",
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (s *FirecrawlScraper) Name() string { return "firecrawl" }

// Scrape asks Firecrawl for the full page HTML, not just the main content.
func (s *FirecrawlScraper) Scrape(ctx context.Context, url string) (string, error) {
	payload, err := json.Marshal(scrapeRequest{
		URL:         url,
		PageOptions: pageOptions{OnlyMainContent: false, IncludeHTML: true},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", fmt.Errorf("%w: %s", repository.ErrScrapeTimeout, url)
		}
		s.logger.Error("firecrawl request failed", zap.String("url", url), zap.Error(err))
		return "", fmt.Errorf("firecrawl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		s.logger.Error("firecrawl returned an error status",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("firecrawl returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode firecrawl response: %w", err)
	}
	if out.Error != "" && out.Data.HTML == "" {
		return "", fmt.Errorf("firecrawl: %s", out.Error)
	}

	return out.Data.HTML, nil
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
