package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/propfacts/internal/logger"
	"github.com/ppiankov/propfacts/internal/worker"
)

const defaultMaxBodyBytes = 2_000_000

// httpGetter performs rate limited GET requests with a body size limit
type httpGetter struct {
	client    *http.Client
	limiter   *worker.Limiter
	userAgent string
	maxBytes  int64
}

func (g *httpGetter) get(ctx context.Context, rawURL string, accept string, delay time.Duration) ([]byte, error) {
	if g.limiter != nil {
		if err := g.limiter.WaitWithDelay(ctx, rawURL, delay); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	client := g.client
	if client == nil {
		client = http.DefaultClient
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Debug("search request", "host", req.URL.Host, "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	maxBytes := g.maxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}
