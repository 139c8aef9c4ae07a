package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/ppiankov/propfacts/internal/model"
)

const defaultSerpAPIURL = "https://serpapi.com/search.json"

// SerpAPI queries the SerpAPI Google search endpoint
type SerpAPI struct {
	baseURL string
	engine  string
	apiKey  string
	num     int
	http    *httpGetter
}

type serpAPIResponse struct {
	Error          string `json:"error"`
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
}

// NewSerpAPI creates a SerpAPI provider. The API key is required.
func NewSerpAPI(cfg model.SerpAPIConfig, num int, getter *httpGetter) (*SerpAPI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("serpapi: %w (set SERPAPI_API_KEY)", ErrMissingCredential)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultSerpAPIURL
	}
	engine := cfg.Engine
	if engine == "" {
		engine = "google"
	}

	return &SerpAPI{
		baseURL: baseURL,
		engine:  engine,
		apiKey:  cfg.APIKey,
		num:     num,
		http:    getter,
	}, nil
}

func (s *SerpAPI) Name() string {
	return "serpapi"
}

// CacheScope identifies the endpoint, engine and result count
func (s *SerpAPI) CacheScope() string {
	return scopeOf(s.baseURL, s.engine, strconv.Itoa(s.num))
}

func (s *SerpAPI) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("parse base URL: %w", err)}
	}

	params := url.Values{}
	params.Set("engine", s.engine)
	params.Set("q", query)
	params.Set("num", strconv.Itoa(s.num))
	params.Set("api_key", s.apiKey)
	u.RawQuery = params.Encode()

	body, err := s.http.get(ctx, u.String(), "application/json", 0)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}

	var resp serpAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.Error != "" && len(resp.OrganicResults) == 0 {
		// SerpAPI reports an empty search as an error message
		if resp.Error == "Google hasn't returned any results for this query." {
			return []model.SearchResult{}, nil
		}
		return nil, &ProviderError{Provider: s.Name(), Err: errors.New(resp.Error)}
	}

	results := make([]model.SearchResult, 0, len(resp.OrganicResults))
	for _, r := range resp.OrganicResults {
		results = append(results, model.SearchResult{
			Title:   PlainText(r.Title),
			Snippet: PlainText(r.Snippet),
			URL:     r.Link,
		})
	}

	return truncate(results, s.num), nil
}
