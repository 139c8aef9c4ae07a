package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/propfacts/internal/model"
)

func newTestSerpAPI(t *testing.T, handler http.HandlerFunc) *SerpAPI {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p, err := NewSerpAPI(model.SerpAPIConfig{BaseURL: srv.URL + "/search.json", APIKey: "test-key"}, 3,
		&httpGetter{client: srv.Client(), userAgent: "propfacts-test"})
	if err != nil {
		t.Fatalf("NewSerpAPI failed: %v", err)
	}
	return p
}

func TestSerpAPI_Fetch(t *testing.T) {
	p := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google" || q.Get("q") != "prestige city price" || q.Get("num") != "3" || q.Get("api_key") != "test-key" {
			t.Errorf("unexpected query parameters: %s", r.URL.RawQuery)
		}
		if r.Header.Get("User-Agent") != "propfacts-test" {
			t.Errorf("unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"organic_results":[
			{"title":"Prestige City","snippet":"Apartments from <b>₹75 lakhs</b> by Prestige &amp; Co","link":"https://example.com/a"},
			{"title":"Review","snippet":"3 BHK units","link":"https://example.com/b"},
			{"title":"Map","snippet":"East Bangalore","link":"https://example.com/c"},
			{"title":"Extra","snippet":"ignored","link":"https://example.com/d"}
		]}`)
	})

	results, err := p.Fetch(context.Background(), "prestige city price")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	want := model.SearchResult{
		Title:   "Prestige City",
		Snippet: "Apartments from ₹75 lakhs by Prestige & Co",
		URL:     "https://example.com/a",
	}
	if results[0] != want {
		t.Errorf("got %+v, want %+v", results[0], want)
	}
}

func TestSerpAPI_NoResults(t *testing.T) {
	p := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"error":"Google hasn't returned any results for this query."}`)
	})

	results, err := p.Fetch(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSerpAPI_MissingOrganicResults(t *testing.T) {
	p := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"search_metadata":{"status":"Success"}}`)
	})

	results, err := p.Fetch(context.Background(), "zzzz")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestSerpAPI_ErrorMessage(t *testing.T) {
	p := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `{"error":"Invalid API key."}`)
	})

	_, err := p.Fetch(context.Background(), "q")
	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if perr.Provider != "serpapi" {
		t.Errorf("expected provider serpapi, got %s", perr.Provider)
	}
}

func TestSerpAPI_HTTPError(t *testing.T) {
	p := newTestSerpAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := p.Fetch(context.Background(), "q"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestSerpAPI_MissingKey(t *testing.T) {
	_, err := NewSerpAPI(model.SerpAPIConfig{}, 3, &httpGetter{})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
