package extract

import (
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

// KeywordClassifier files whole snippets under a category when they contain
// one of the category's keywords. It is the coarse alternative to the
// regular-expression extractor.
type KeywordClassifier struct {
	keywords map[model.Category][]string
}

// NewKeywordClassifier creates a classifier with the built-in keyword lists
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		keywords: map[model.Category][]string{
			model.CategoryPricing:       {"price", "₹", "lakhs", "crore", "starting"},
			model.CategoryDeveloper:     {"developer", "built by", "constructed by"},
			model.CategoryLocation:      {"located", "area", "region", "connectivity"},
			model.CategoryConfiguration: {"bhk", "configuration", "sq.ft", "layout"},
		},
	}
}

// Name returns the extraction mode name
func (k *KeywordClassifier) Name() string {
	return "keyword"
}

// Version returns the pattern table version the report is tagged with
func (k *KeywordClassifier) Version() string {
	return PatternVersion
}

// Extract groups snippets by category
func (k *KeywordClassifier) Extract(results []model.SearchResult) model.FactSet {
	return model.FactSetFromFacts(k.ExtractFacts(results))
}

// ExtractFacts returns one fact per (category, distinct snippet)
func (k *KeywordClassifier) ExtractFacts(results []model.SearchResult) []model.Fact {
	seen := model.NewFactSet()
	var facts []model.Fact

	for i, result := range results {
		snippet := strings.TrimSpace(result.Snippet)
		if snippet == "" {
			continue
		}
		lower := strings.ToLower(snippet)

		for _, category := range model.Categories {
			for _, keyword := range k.keywords[category] {
				if !strings.Contains(lower, keyword) {
					continue
				}
				if seen.Add(category, snippet) {
					facts = append(facts, model.Fact{
						Category:  category,
						Value:     snippet,
						Heuristic: "keyword:" + keyword,
						Result:    i,
						Context:   snippetContext(snippet),
					})
				}
				break // Only match once per category
			}
		}
	}

	return facts
}
