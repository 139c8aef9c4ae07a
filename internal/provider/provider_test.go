package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/ppiankov/propfacts/internal/model"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*model.Config)
		wantName string
		wantErr  error
		anyErr   bool
	}{
		{name: "default mock", mutate: func(c *model.Config) {}, wantName: "mock"},
		{name: "empty name", mutate: func(c *model.Config) { c.Provider.Name = "" }, wantName: "mock"},
		{
			name:   "serpapi with key",
			mutate: func(c *model.Config) {
				c.Provider.Name = "serpapi"
				c.Provider.SerpAPI.APIKey = "test-key"
			},
			wantName: "serpapi",
		},
		{
			name:    "serpapi without key",
			mutate:  func(c *model.Config) { c.Provider.Name = "serpapi" },
			wantErr: ErrMissingCredential,
		},
		{name: "searxng", mutate: func(c *model.Config) { c.Provider.Name = "searxng" }, wantName: "searxng"},
		{name: "scrape", mutate: func(c *model.Config) { c.Provider.Name = "scrape" }, wantName: "scrape"},
		{name: "unknown", mutate: func(c *model.Config) { c.Provider.Name = "bing" }, anyErr: true},
		{name: "unknown fixture", mutate: func(c *model.Config) { c.Provider.Fixture = "castle" }, anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := model.DefaultConfig()
			tt.mutate(cfg)

			p, err := NewProvider(cfg)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if tt.anyErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewProvider failed: %v", err)
			}
			if p.Name() != tt.wantName {
				t.Errorf("expected provider %s, got %s", tt.wantName, p.Name())
			}
		})
	}
}

func TestProviderError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &ProviderError{Provider: "searxng", Err: inner}

	if err.Error() != "searxng search failed: connection refused" {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected ProviderError to unwrap to inner error")
	}
}

func TestNewHTTPGetter_HostRateOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"results":[{"title":"t","content":"c","url":"https://example.com"}]}`)
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultConfig()
	cfg.RateLimiting.RequestsPerSecond = 0.001
	cfg.RateLimiting.BurstSize = 1
	cfg.RateLimiting.Hosts = map[string]float64{u.Host: 0}

	getter := newHTTPGetter(cfg)
	getter.client = srv.Client()

	p, err := NewSearXNG(model.SearXNGConfig{BaseURL: srv.URL}, 3, getter)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// The default rate would block the second request far past the deadline
	for i := 0; i < 3; i++ {
		if _, err := p.Fetch(ctx, "villas"); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
}
