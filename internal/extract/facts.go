package extract

import (
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

// contextLength is how much of the snippet is kept as fact context
const contextLength = 100

// FactExtractor pulls pricing, developer, location and configuration facts
// out of search results using the regular expressions of a PatternSet.
// It holds no mutable state and is safe for concurrent use.
type FactExtractor struct {
	patterns *PatternSet
}

// NewFactExtractor creates an extractor using the default pattern variants
func NewFactExtractor() *FactExtractor {
	return &FactExtractor{patterns: DefaultPatternSet()}
}

// NewFactExtractorWithPatterns creates an extractor using the given pattern set
func NewFactExtractorWithPatterns(ps *PatternSet) *FactExtractor {
	if ps == nil {
		ps = DefaultPatternSet()
	}
	return &FactExtractor{patterns: ps}
}

// Name returns the extraction mode name
func (e *FactExtractor) Name() string {
	return "regex"
}

// Version returns the pattern table version
func (e *FactExtractor) Version() string {
	return e.patterns.Version
}

// Extract returns the distinct values found per category in first-seen order.
// All four categories are always present.
func (e *FactExtractor) Extract(results []model.SearchResult) model.FactSet {
	return model.FactSetFromFacts(e.ExtractFacts(results))
}

// ExtractFacts returns every distinct value with the rule and result it came from
func (e *FactExtractor) ExtractFacts(results []model.SearchResult) []model.Fact {
	seen := model.NewFactSet()
	var facts []model.Fact

	for i, result := range results {
		text := result.Text()
		for _, category := range model.Categories {
			for _, p := range e.patterns.Patterns(category) {
				for _, match := range p.Expr.FindAllStringSubmatch(text, -1) {
					if len(match) < 2 {
						continue
					}
					value := match[1]
					if strings.TrimSpace(value) == "" {
						continue
					}
					if !seen.Add(category, value) {
						continue
					}
					facts = append(facts, model.Fact{
						Category:  category,
						Value:     value,
						Heuristic: p.Heuristic(),
						Result:    i,
						Context:   snippetContext(result.Snippet),
					})
				}
			}
		}
	}

	return facts
}

// snippetContext returns the leading part of a snippet, cut on a rune boundary
func snippetContext(snippet string) string {
	runes := []rune(snippet)
	if len(runes) <= contextLength {
		return snippet
	}
	return string(runes[:contextLength]) + "..."
}
