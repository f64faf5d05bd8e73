package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/user/site-cloner/internal/entity"
	"github.com/user/site-cloner/internal/repository"
	"github.com/user/site-cloner/pkg/metrics"
	"github.com/user/site-cloner/pkg/utils"
	"go.uber.org/zap"
)

var (
	ErrInvalidURL       = errors.New("URL must be a full http or https URL")
	ErrScrapeFailed     = errors.New("failed to scrape the website")
	ErrEmptyPage        = errors.New("scraped page has no HTML")
	ErrSimplifyFailed   = errors.New("failed to simplify the scraped HTML")
	ErrGenerationFailed = errors.New("failed to generate the cloned page")
	ErrEmptyGeneration  = errors.New("model produced no HTML")
	ErrNotFound         = errors.New("clone not found")
	ErrHistoryDisabled  = repository.ErrHistoryDisabled
)

const defaultHistoryLimit = 20

// Cloner defines the interface for producing and looking up clones.
type Cloner interface {
	Clone(ctx context.Context, url string, force bool) (*entity.CloneResult, error)
	Get(ctx context.Context, id string) (*entity.CloneResult, error)
	History(ctx context.Context, limit int) ([]*entity.CloneRecord, error)
}

type cloneUseCase struct {
	scraper    repository.Scraper
	simplifier repository.Simplifier
	generator  repository.Generator
	cache      repository.ResultCache
	history    repository.HistoryRepository // nil when not configured
	cacheTTL   time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewCloneUseCase wires the clone pipeline. history may be nil.
func NewCloneUseCase(
	scraper repository.Scraper,
	simplifier repository.Simplifier,
	generator repository.Generator,
	cache repository.ResultCache,
	history repository.HistoryRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) Cloner {
	metrics.Init()
	return &cloneUseCase{
		scraper:    scraper,
		simplifier: simplifier,
		generator:  generator,
		cache:      cache,
		history:    history,
		cacheTTL:   cacheTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Clone scrapes, simplifies and regenerates url. Unless force is set a cached
// result for the same URL is returned instead.
func (uc *cloneUseCase) Clone(ctx context.Context, rawURL string, force bool) (*entity.CloneResult, error) {
	if _, err := utils.ParseHTTPURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	id := utils.HashURL(rawURL)
	startTime := uc.now()

	if !force {
		if cached := uc.lookup(ctx, id); cached != nil {
			cached.Cached = true
			uc.record(ctx, rawURL, startTime, cached, nil)
			return cached, nil
		}
	}

	result, err := uc.run(ctx, id, rawURL)
	uc.record(ctx, rawURL, startTime, result, err)
	if err != nil {
		metrics.ClonesTotal.WithLabelValues("failure", errorType(err)).Inc()
		uc.logger.Error("clone failed", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	metrics.ClonesTotal.WithLabelValues("success", "").Inc()
	if err := uc.cache.Set(ctx, result, uc.cacheTTL); err != nil {
		// The clone itself succeeded, a cold cache only costs the next caller.
		uc.logger.Warn("failed to cache clone", zap.String("url", rawURL), zap.Error(err))
	}

	uc.logger.Info("clone completed",
		zap.String("url", rawURL),
		zap.String("id", id),
		zap.Int("html_bytes", len(result.HTML)),
		zap.Duration("duration", uc.now().Sub(startTime)),
	)
	return result, nil
}

func (uc *cloneUseCase) run(ctx context.Context, id, rawURL string) (*entity.CloneResult, error) {
	stage := time.Now()
	source, err := uc.scraper.Scrape(ctx, rawURL)
	metrics.CloneStageDuration.WithLabelValues("scrape").Observe(time.Since(stage).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScrapeFailed, err)
	}
	if source == "" {
		return nil, ErrEmptyPage
	}

	stage = time.Now()
	simplified, err := uc.simplifier.Simplify(rawURL, source)
	metrics.CloneStageDuration.WithLabelValues("simplify").Observe(time.Since(stage).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSimplifyFailed, err)
	}
	if simplified == "" {
		return nil, ErrSimplifyFailed
	}

	stage = time.Now()
	generated, err := uc.generator.Generate(ctx, rawURL, simplified)
	metrics.CloneStageDuration.WithLabelValues("generate").Observe(time.Since(stage).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if generated == "" {
		return nil, ErrEmptyGeneration
	}

	return &entity.CloneResult{
		ID:        id,
		URL:       rawURL,
		HTML:      generated,
		Scraper:   uc.scraper.Name(),
		CreatedAt: uc.now(),
	}, nil
}

func (uc *cloneUseCase) lookup(ctx context.Context, id string) *entity.CloneResult {
	cached, err := uc.cache.Get(ctx, id)
	switch {
	case err == nil:
		metrics.CacheLookupsTotal.WithLabelValues("hit").Inc()
		return cached
	case errors.Is(err, repository.ErrCacheMiss):
		metrics.CacheLookupsTotal.WithLabelValues("miss").Inc()
	default:
		metrics.CacheLookupsTotal.WithLabelValues("error").Inc()
		uc.logger.Warn("cache lookup failed, cloning anyway", zap.String("id", id), zap.Error(err))
	}
	return nil
}

func (uc *cloneUseCase) record(ctx context.Context, rawURL string, start time.Time, result *entity.CloneResult, cloneErr error) {
	if uc.history == nil {
		return
	}

	rec := &entity.CloneRecord{
		URL:        rawURL,
		Status:     entity.CloneStatusCompleted,
		DurationMS: uc.now().Sub(start).Milliseconds(),
	}
	if cloneErr != nil {
		rec.Status = entity.CloneStatusFailed
		rec.FailureReason = cloneErr.Error()
	} else if result != nil {
		rec.HTMLBytes = len(result.HTML)
		rec.Cached = result.Cached
	}

	if err := uc.history.Save(ctx, rec); err != nil {
		uc.logger.Warn("failed to record clone history", zap.String("url", rawURL), zap.Error(err))
	}
}

// Get returns a previously generated clone from the cache.
func (uc *cloneUseCase) Get(ctx context.Context, id string) (*entity.CloneResult, error) {
	result, err := uc.cache.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCacheMiss) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return result, nil
}

// History lists recent clone attempts, newest first.
func (uc *cloneUseCase) History(ctx context.Context, limit int) ([]*entity.CloneRecord, error) {
	if uc.history == nil {
		return nil, ErrHistoryDisabled
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	return uc.history.ListRecent(ctx, limit)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, repository.ErrScrapeTimeout):
		return "scrape_timeout"
	case errors.Is(err, repository.ErrContentRestricted):
		return "restricted"
	case errors.Is(err, ErrScrapeFailed), errors.Is(err, ErrEmptyPage):
		return "scrape"
	case errors.Is(err, ErrSimplifyFailed):
		return "simplify"
	case errors.Is(err, ErrGenerationFailed), errors.Is(err, ErrEmptyGeneration):
		return "generate"
	default:
		return "unknown"
	}
}
