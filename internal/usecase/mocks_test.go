package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/user/site-cloner/internal/entity"
	"github.com/user/site-cloner/internal/repository"
)

type fakeScraper struct {
	html  string
	err   error
	calls int
}

func (f *fakeScraper) Name() string { return "fake" }

func (f *fakeScraper) Scrape(context.Context, string) (string, error) {
	f.calls++
	return f.html, f.err
}

type fakeSimplifier struct {
	out string
	err error
	in  string
}

func (f *fakeSimplifier) Simplify(_ string, html string) (string, error) {
	f.in = html
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return html, nil
}

type fakeGenerator struct {
	out   string
	err   error
	in    string
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ string, html string) (string, error) {
	f.calls++
	f.in = html
	return f.out, f.err
}

type fakeCache struct {
	mu     sync.Mutex
	items  map[string]entity.CloneResult
	getErr error
	setErr error
	ttl    time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]entity.CloneResult{}}
}

func (f *fakeCache) Get(_ context.Context, id string) (*entity.CloneResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	r, ok := f.items[id]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &r, nil
}

func (f *fakeCache) Set(_ context.Context, r *entity.CloneResult, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.ttl = ttl
	f.items[r.ID] = *r
	return nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }

type fakeHistory struct {
	records []*entity.CloneRecord
	err     error
}

func (f *fakeHistory) Save(_ context.Context, r *entity.CloneRecord) error {
	if f.err != nil {
		return f.err
	}
	r.ID = int64(len(f.records) + 1)
	f.records = append(f.records, r)
	return nil
}

func (f *fakeHistory) ListRecent(_ context.Context, limit int) ([]*entity.CloneRecord, error) {
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

func (f *fakeHistory) Ping(context.Context) error { return nil }
