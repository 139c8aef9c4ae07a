// Package provider fetches search results for real estate queries.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/ppiankov/propfacts/internal/model"
	"github.com/ppiankov/propfacts/internal/util"
	"github.com/ppiankov/propfacts/internal/worker"
)

// ErrMissingCredential is returned when a provider needs an API key that is not configured
var ErrMissingCredential = errors.New("missing API credential")

// ErrDisallowed is returned when robots.txt forbids fetching a search page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Provider returns search results for a query
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string) ([]model.SearchResult, error)
}

// ProviderError wraps a failure from a search backend
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s search failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Names lists the supported provider names
var Names = []string{"mock", "serpapi", "searxng", "scrape"}

// NewProvider creates the provider selected by cfg.Provider.Name
func NewProvider(cfg *model.Config) (Provider, error) {
	num := cfg.Provider.Num
	if num <= 0 {
		num = 3
	}

	switch cfg.Provider.Name {
	case "", "mock":
		return NewMock(cfg.Provider.Fixture, num)
	case "serpapi":
		return NewSerpAPI(cfg.Provider.SerpAPI, num, newHTTPGetter(cfg))
	case "searxng":
		return NewSearXNG(cfg.Provider.SearXNG, num, newHTTPGetter(cfg))
	case "scrape":
		getter := newHTTPGetter(cfg)
		var robots *util.RobotsChecker
		if cfg.Provider.Scrape.RespectRobots {
			robots = util.NewRobotsChecker(getter.client, cfg.HTTP.UserAgent)
		}
		return NewScrape(cfg.Provider.Scrape, num, getter, robots)
	default:
		return nil, fmt.Errorf("unsupported provider: %s (supported: %v)", cfg.Provider.Name, Names)
	}
}

func newHTTPGetter(cfg *model.Config) *httpGetter {
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	for host, rps := range cfg.RateLimiting.Hosts {
		limiter.SetHostRate(host, rps, cfg.RateLimiting.BurstSize)
	}

	return &httpGetter{
		client:    util.NewHTTPClient(cfg.HTTP),
		limiter:   limiter,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
	}
}

func truncate(results []model.SearchResult, num int) []model.SearchResult {
	if num > 0 && len(results) > num {
		return results[:num]
	}
	return results
}
