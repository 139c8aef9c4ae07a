package extract

import (
	"fmt"

	"github.com/ppiankov/propfacts/internal/model"
)

// Extractor turns search results into categorized facts. Implementations
// never fail: unmatched input simply yields empty categories.
type Extractor interface {
	// Name returns the extraction mode ("regex" or "keyword")
	Name() string

	// Version returns the version of the rules in use
	Version() string

	// Extract returns the distinct values per category
	Extract(results []model.SearchResult) model.FactSet

	// ExtractFacts returns the same values with provenance
	ExtractFacts(results []model.SearchResult) []model.Fact
}

// NewExtractor builds the extractor selected by configuration
func NewExtractor(cfg model.ExtractConfig) (Extractor, error) {
	switch cfg.Mode {
	case "", "regex":
		ps, err := NewPatternSet(cfg.Variants)
		if err != nil {
			return nil, err
		}
		return NewFactExtractorWithPatterns(ps), nil

	case "keyword":
		return NewKeywordClassifier(), nil

	default:
		return nil, fmt.Errorf("unknown extract mode: %s (supported: regex, keyword)", cfg.Mode)
	}
}
