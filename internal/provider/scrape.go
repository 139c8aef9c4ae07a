package provider

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ppiankov/propfacts/internal/model"
	"github.com/ppiankov/propfacts/internal/util"
)

const defaultSearchURL = "https://www.google.com/search"

// Scrape parses result blocks from an HTML search page
type Scrape struct {
	searchURL string
	selectors model.ScrapeConfig
	num       int
	http      *httpGetter
	robots    *util.RobotsChecker
}

// NewScrape creates a scraping provider. robots may be nil to skip robots.txt checks.
func NewScrape(cfg model.ScrapeConfig, num int, getter *httpGetter, robots *util.RobotsChecker) (*Scrape, error) {
	searchURL := cfg.SearchURL
	if searchURL == "" {
		searchURL = defaultSearchURL
	}
	if _, err := url.Parse(searchURL); err != nil {
		return nil, fmt.Errorf("scrape: invalid search_url: %w", err)
	}

	sel := cfg
	if sel.ResultSelector == "" {
		sel.ResultSelector = "div.g"
	}
	if sel.TitleSelector == "" {
		sel.TitleSelector = "h3"
	}
	if sel.SnippetSelector == "" {
		sel.SnippetSelector = "div.IsZvec"
	}
	if sel.LinkSelector == "" {
		sel.LinkSelector = "a"
	}

	return &Scrape{
		searchURL: searchURL,
		selectors: sel,
		num:       num,
		http:      getter,
		robots:    robots,
	}, nil
}

func (s *Scrape) Name() string {
	return "scrape"
}

// CacheScope identifies the search page, selectors and result count
func (s *Scrape) CacheScope() string {
	return scopeOf(
		s.searchURL,
		s.selectors.ResultSelector,
		s.selectors.TitleSelector,
		s.selectors.SnippetSelector,
		s.selectors.LinkSelector,
		strconv.Itoa(s.num),
	)
}

func (s *Scrape) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	pageURL, err := s.buildURL(query)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}

	var delay time.Duration
	if s.robots != nil {
		allowed, crawlDelay, err := s.robots.CanFetch(ctx, pageURL)
		if err != nil {
			return nil, &ProviderError{Provider: s.Name(), Err: err}
		}
		if !allowed {
			return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("%w: %s", ErrDisallowed, pageURL)}
		}
		delay = crawlDelay
	}

	body, err := s.http.get(ctx, pageURL, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8", delay)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}

	results, err := s.parse(body, pageURL)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}
	return results, nil
}

func (s *Scrape) buildURL(query string) (string, error) {
	u, err := url.Parse(s.searchURL)
	if err != nil {
		return "", fmt.Errorf("parse search URL: %w", err)
	}
	params := u.Query()
	params.Set("q", query)
	if s.num > 0 {
		params.Set("num", strconv.Itoa(s.num))
	}
	u.RawQuery = params.Encode()
	return u.String(), nil
}

func (s *Scrape) parse(body []byte, pageURL string) ([]model.SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page URL: %w", err)
	}

	results := []model.SearchResult{}
	doc.Find(s.selectors.ResultSelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		title := collapseSpace(block.Find(s.selectors.TitleSelector).First().Text())
		if title == "" {
			return true
		}

		href, _ := block.Find(s.selectors.LinkSelector).First().Attr("href")

		results = append(results, model.SearchResult{
			Title:   title,
			Snippet: collapseSpace(block.Find(s.selectors.SnippetSelector).First().Text()),
			URL:     resolveLink(base, href),
		})

		return s.num <= 0 || len(results) < s.num
	})

	return results, nil
}

// resolveLink unwraps /url?q= redirect links and resolves relative hrefs
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if parsed.Path == "/url" {
		if target := parsed.Query().Get("q"); target != "" {
			return target
		}
		if target := parsed.Query().Get("url"); target != "" {
			return target
		}
	}

	return base.ResolveReference(parsed).String()
}
