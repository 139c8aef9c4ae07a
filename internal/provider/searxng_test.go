package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ppiankov/propfacts/internal/model"
)

func TestSearXNG_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("format") != "json" || r.URL.Query().Get("q") != "2 BHK Pune" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = fmt.Fprint(w, `{"results":[
			{"title":"Flats in Pune","content":"2 BHK from ₹60 lakhs","url":"https://example.com/pune"},
			{"title":"Second","content":"second","url":"https://example.com/2"}
		]}`)
	}))
	defer srv.Close()

	p, err := NewSearXNG(model.SearXNGConfig{BaseURL: srv.URL + "/"}, 1, &httpGetter{client: srv.Client()})
	if err != nil {
		t.Fatalf("NewSearXNG failed: %v", err)
	}

	results, err := p.Fetch(context.Background(), "2 BHK Pune")
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Snippet != "2 BHK from ₹60 lakhs" || results[0].URL != "https://example.com/pune" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestSearXNG_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, `<html>not json</html>`)
	}))
	defer srv.Close()

	p, _ := NewSearXNG(model.SearXNGConfig{BaseURL: srv.URL}, 3, &httpGetter{client: srv.Client()})
	if _, err := p.Fetch(context.Background(), "q"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSearXNG_RequiresBaseURL(t *testing.T) {
	if _, err := NewSearXNG(model.SearXNGConfig{}, 3, &httpGetter{}); err == nil {
		t.Error("expected error for empty base_url")
	}
}
