package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/propfacts/internal/model"
)

func TestKeywordClassifier_Categorizes(t *testing.T) {
	results := []model.SearchResult{
		{Title: "Project Information", Snippet: "The project offers units starting from ₹XX lakhs. Located in a prime area with excellent connectivity."},
		{Title: "Developer Details", Snippet: "Developed by a trusted name with 20+ years of experience in real estate development."},
		{Title: "Configuration Options", Snippet: "Available in 1BHK, 2BHK, and 3BHK configurations. Units range from 600-1500 sq.ft."},
	}

	fs := NewKeywordClassifier().Extract(results)

	if len(fs[model.CategoryPricing]) != 1 || !strings.Contains(fs[model.CategoryPricing][0], "₹XX lakhs") {
		t.Errorf("pricing = %q", fs[model.CategoryPricing])
	}
	if len(fs[model.CategoryLocation]) != 1 {
		t.Errorf("expected 1 location snippet, got %d", len(fs[model.CategoryLocation]))
	}
	// "developed by" and "development" are not developer keywords
	if len(fs[model.CategoryDeveloper]) != 0 {
		t.Errorf("developer = %q, want none", fs[model.CategoryDeveloper])
	}
	if len(fs[model.CategoryConfiguration]) != 1 || !strings.HasPrefix(fs[model.CategoryConfiguration][0], "Available in 1BHK") {
		t.Errorf("configuration = %q", fs[model.CategoryConfiguration])
	}
}

func TestKeywordClassifier_EmptyAndDedup(t *testing.T) {
	k := NewKeywordClassifier()

	fs := k.Extract(nil)
	assertAllCategories(t, fs)
	if !fs.IsEmpty() {
		t.Errorf("expected empty set, got %v", fs)
	}

	dup := []model.SearchResult{
		{Snippet: "2 BHK homes at a good price"},
		{Snippet: "2 BHK homes at a good price"},
		{Snippet: "   "},
	}
	fs = k.Extract(dup)
	assertNoDuplicates(t, fs)
	if len(fs[model.CategoryPricing]) != 1 || len(fs[model.CategoryConfiguration]) != 1 {
		t.Errorf("unexpected fact set %v", fs)
	}
}

func TestKeywordClassifier_Heuristic(t *testing.T) {
	facts := NewKeywordClassifier().ExtractFacts(snippet("Starting price on request"))

	if len(facts) != 1 {
		t.Fatalf("expected 1 fact, got %d", len(facts))
	}
	if facts[0].Heuristic != "keyword:price" {
		t.Errorf("heuristic = %q, want keyword:price", facts[0].Heuristic)
	}
}

func TestNewExtractor_Modes(t *testing.T) {
	tests := []struct {
		mode    string
		want    string
		wantErr bool
	}{
		{"", "regex", false},
		{"regex", "regex", false},
		{"keyword", "keyword", false},
		{"nlp", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			e, err := NewExtractor(model.ExtractConfig{Mode: tt.mode})
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if e.Name() != tt.want {
				t.Errorf("Name() = %q, want %q", e.Name(), tt.want)
			}
		})
	}
}

func TestNewExtractor_BadVariant(t *testing.T) {
	_, err := NewExtractor(model.ExtractConfig{
		Mode:     "regex",
		Variants: map[string]string{"pricing": "dollars"},
	})
	if err == nil {
		t.Fatal("Expected error for unknown variant")
	}
}
