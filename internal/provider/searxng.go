package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

// SearXNG queries a SearXNG instance through its JSON API
type SearXNG struct {
	baseURL string
	num     int
	http    *httpGetter
}

type searxngResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	} `json:"results"`
}

// NewSearXNG creates a SearXNG provider
func NewSearXNG(cfg model.SearXNGConfig, num int, getter *httpGetter) (*SearXNG, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("searxng: base_url is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("searxng: invalid base_url: %w", err)
	}
	return &SearXNG{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		num:     num,
		http:    getter,
	}, nil
}

func (s *SearXNG) Name() string {
	return "searxng"
}

// CacheScope identifies the instance and result count
func (s *SearXNG) CacheScope() string {
	return scopeOf(s.baseURL, strconv.Itoa(s.num))
}

func (s *SearXNG) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")

	body, err := s.http.get(ctx, s.baseURL+"/search?"+params.Encode(), "application/json", 0)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}

	var resp searxngResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}

	results := make([]model.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, model.SearchResult{
			Title:   PlainText(r.Title),
			Snippet: PlainText(r.Content),
			URL:     r.URL,
		})
	}

	return truncate(results, s.num), nil
}
