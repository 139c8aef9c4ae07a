package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/propfacts/internal/cache"
	"github.com/ppiankov/propfacts/internal/model"
)

type countingProvider struct {
	calls   int
	results []model.SearchResult
	err     error
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	p.calls++
	return p.results, p.err
}

func TestCached_HitsAfterFirstFetch(t *testing.T) {
	inner := &countingProvider{results: []model.SearchResult{{Title: "t", Snippet: "s", URL: "u"}}}
	c := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	results, hit, err := c.FetchCached(context.Background(), "Luxury Apartments")
	if err != nil || hit {
		t.Fatalf("first fetch: hit=%v err=%v", hit, err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	results, hit, err = c.FetchCached(context.Background(), "  luxury apartments ")
	if err != nil || !hit {
		t.Fatalf("second fetch: hit=%v err=%v", hit, err)
	}
	if results[0].Title != "t" {
		t.Errorf("unexpected cached result: %+v", results[0])
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.calls)
	}
	if c.Name() != "counting" {
		t.Errorf("expected inner name, got %s", c.Name())
	}
}

func TestCached_DoesNotCacheErrorsOrEmpty(t *testing.T) {
	inner := &countingProvider{err: errors.New("boom")}
	c := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute)

	if _, err := c.Fetch(context.Background(), "q"); err == nil {
		t.Fatal("expected error")
	}

	inner.err = nil
	_, _ = c.Fetch(context.Background(), "q")
	_, _ = c.Fetch(context.Background(), "q")

	if inner.calls != 3 {
		t.Errorf("expected 3 upstream calls, got %d", inner.calls)
	}
}

func TestCached_ScopedByResultCount(t *testing.T) {
	shared := cache.NewMemoryCache(time.Minute, time.Minute)

	one, err := NewMock("luxury", 1)
	if err != nil {
		t.Fatal(err)
	}
	three, err := NewMock("luxury", 3)
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if results, _, err := NewCached(one, shared, time.Minute).FetchCached(ctx, "villas"); err != nil || len(results) != 1 {
		t.Fatalf("num=1: got %d results, err=%v", len(results), err)
	}

	results, hit, err := NewCached(three, shared, time.Minute).FetchCached(ctx, "villas")
	if err != nil {
		t.Fatal(err)
	}
	if hit {
		t.Error("a different result count must not share the cache entry")
	}
	if len(results) != 3 {
		t.Errorf("num=3: got %d results", len(results))
	}
}

func TestCached_ScopedByEndpoint(t *testing.T) {
	shared := cache.NewMemoryCache(time.Minute, time.Minute)
	getter := &httpGetter{}

	a, err := NewSearXNG(model.SearXNGConfig{BaseURL: "http://a.example"}, 3, getter)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewSearXNG(model.SearXNGConfig{BaseURL: "http://b.example"}, 3, getter)
	if err != nil {
		t.Fatal(err)
	}

	if NewCached(a, shared, time.Minute).scope == NewCached(b, shared, time.Minute).scope {
		t.Error("different SearXNG instances must use different cache scopes")
	}
}
