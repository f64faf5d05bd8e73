package chromedp_scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/site-cloner/internal/repository"
	"go.uber.org/zap"
)

const userAgent = `Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36`

type allocator struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newAllocator() *allocator {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	ctx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &allocator{ctx: ctx, cancel: cancel}
}

// ChromedpScraper renders pages in headless Chrome and returns the final DOM.
type ChromedpScraper struct {
	// idle holds the allocators not in use. Taking one is also what limits
	// concurrency.
	idle    chan *allocator
	all     []*allocator
	timeout time.Duration
	logger  *zap.Logger

	closeOnce sync.Once
}

// NewChromedpScraper creates a scraper with a fixed set of maxConcurrency
// browser allocators, so at most that many pages render at once.
func NewChromedpScraper(maxConcurrency int, pageLoadTimeout time.Duration, logger *zap.Logger) *ChromedpScraper {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	s := &ChromedpScraper{
		idle:    make(chan *allocator, maxConcurrency),
		all:     make([]*allocator, 0, maxConcurrency),
		timeout: pageLoadTimeout,
		logger:  logger,
	}
	for i := 0; i < maxConcurrency; i++ {
		a := newAllocator()
		s.all = append(s.all, a)
		s.idle <- a
	}
	return s
}

func (s *ChromedpScraper) Name() string { return "chromedp" }

// acquire waits for an idle allocator. The caller must hand it back to release.
func (s *ChromedpScraper) acquire(ctx context.Context) (*allocator, error) {
	select {
	case a := <-s.idle:
		return a, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ChromedpScraper) release(a *allocator) {
	s.idle <- a
}

// Scrape navigates to url and returns the outer HTML of the rendered document.
func (s *ChromedpScraper) Scrape(ctx context.Context, url string) (string, error) {
	alloc, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer s.release(alloc)

	taskCtx, cancel := chromedp.NewContext(alloc.ctx, chromedp.WithLogf(s.logger.Sugar().Debugf))
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, s.timeout)
	defer cancel()

	// Stop the browser task when the request goes away.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	// The first document response is the navigation itself.
	var statusCode atomic.Int64
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok && resp.Type == network.ResourceTypeDocument {
			statusCode.CompareAndSwap(0, resp.Response.Status)
		}
	})

	var html string
	start := time.Now()
	err = chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if errors.Is(taskCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%w after %s: %s", repository.ErrScrapeTimeout, s.timeout, url)
		}
		return "", fmt.Errorf("%w: %v", repository.ErrNavigationFailed, err)
	}
	if err := statusError(statusCode.Load()); err != nil {
		return "", err
	}

	s.logger.Info("rendered page",
		zap.String("url", url),
		zap.Int64("status_code", statusCode.Load()),
		zap.Int("html_bytes", len(html)),
		zap.Duration("duration", time.Since(start)),
	)
	return html, nil
}

// Close shuts down every browser allocator.
func (s *ChromedpScraper) Close() {
	s.closeOnce.Do(func() {
		for _, a := range s.all {
			a.cancel()
		}
	})
}

func statusError(code int64) error {
	switch {
	case code == 401 || code == 403:
		return fmt.Errorf("%w: received status code %d", repository.ErrContentRestricted, code)
	case code >= 400:
		return fmt.Errorf("%w: received status code %d", repository.ErrNavigationFailed, code)
	default:
		return nil
	}
}
