package extract

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/ppiankov/propfacts/internal/model"
)

// PatternVersion identifies the revision of the built-in pattern table.
// Bump it whenever a pattern changes so cached reports can be told apart.
const PatternVersion = "2024.1"

// Pattern is a compiled extraction rule. The value is the first capture group.
type Pattern struct {
	Category model.Category
	Variant  string
	Index    int // 1-based position within the variant
	Expr     *regexp.Regexp
}

// Heuristic names the pattern for fact provenance
func (p Pattern) Heuristic() string {
	return fmt.Sprintf("pattern:%s/%s#%d", p.Category, p.Variant, p.Index)
}

// Shared fragments.
const (
	amount     = `\d+(?:[,.]\d+)?`
	currency   = `(?:₹|Rs\.?|INR)`
	scale      = `(?:lakhs?|lacs?|crores?|L|Cr)`
	devSuffix  = `(?:Developers|Properties|Builders|Group|Realty|Construction)`
	indianCity = `(?:Bangalore|Chennai|Mumbai|Delhi|Kolkata|Hyderabad|Pune|Ahmedabad)`
	direction  = `(?:East|West|North|South|Central)`
	phrase     = `[A-Z][A-Za-z\s]+`
	continued  = `(?:,\s*[A-Za-z\s]+)?`
	areaUnits  = `(?:sq\.?(?:\s*ft\.?)?|sqft|square\s*feet)`
)

// patternTable holds the raw expressions per category and variant.
// Every expression is matched case-insensitively.
var patternTable = map[model.Category]map[string][]string{
	model.CategoryPricing: {
		"amount": {
			`(?:starting|price|from)[^\d]*` + currency + `?[^\d]*(` + amount + `)\s*` + scale,
			currency + `\s*(` + amount + `)\s*` + scale,
			`(` + amount + `)\s*` + scale,
		},
		"amount-with-unit": {
			`starting (?:from|at) ` + currency + `?\s*(` + amount + `\s*` + scale + `)`,
			currency + `?\s*(` + amount + `\s*` + scale + `)`,
			`(?:price|priced)(?:\s+at)?\s+` + currency + `?\s*(` + amount + `\s*` + scale + `)`,
			`(` + amount + `)\s*` + scale,
		},
	},
	model.CategoryDeveloper: {
		"default": {
			`(?:developed|developer|built|constructed)(?:\s+by)?\s+(` + phrase + devSuffix + `)`,
			`(` + phrase + devSuffix + `)`,
		},
	},
	model.CategoryLocation: {
		"open": {
			`(?:located|situated|placed)(?:\s+at|in)?\s+(` + phrase + continued + `)`,
			`(?:at|in)\s+(` + phrase + continued + `)`,
		},
		"comma": {
			`(?:located|situated|placed)(?:\s+at|in)?\s+(` + phrase + `,\s*[A-Za-z\s]+)`,
			`(?:at|in)\s+(` + phrase + continued + `)`,
		},
		"city": {
			`(?:located|situated|placed)(?:\s+in|at)?\s+([A-Za-z\s]+` + indianCity + `)`,
			`(?:in|at)\s+([A-Za-z\s]+` + indianCity + `)`,
			`(?:in|at)\s+([A-Za-z\s]+` + direction + `[A-Za-z\s]+)`,
		},
	},
	model.CategoryConfiguration: {
		"default": {
			`(\d+\s*BHK)`,
			`(\d+\s*bedroom)`,
			`(` + amount + `\s*` + areaUnits + `)`,
		},
	},
}

// compiled mirrors patternTable with compiled expressions
var compiled = compileTable(patternTable)

func compileTable(table map[model.Category]map[string][]string) map[model.Category]map[string][]Pattern {
	out := make(map[model.Category]map[string][]Pattern, len(table))
	for category, variants := range table {
		out[category] = make(map[string][]Pattern, len(variants))
		for variant, exprs := range variants {
			patterns := make([]Pattern, 0, len(exprs))
			for i, expr := range exprs {
				patterns = append(patterns, Pattern{
					Category: category,
					Variant:  variant,
					Index:    i + 1,
					Expr:     regexp.MustCompile(`(?i)` + expr),
				})
			}
			out[category][variant] = patterns
		}
	}
	return out
}

// DefaultVariants returns the variant used for each category when none is configured
func DefaultVariants() map[model.Category]string {
	return map[model.Category]string{
		model.CategoryPricing:       "amount",
		model.CategoryDeveloper:     "default",
		model.CategoryLocation:      "open",
		model.CategoryConfiguration: "default",
	}
}

// Variants lists the available variant names for a category, sorted
func Variants(category model.Category) []string {
	var names []string
	for name := range compiled[category] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PatternSet is the ordered list of patterns selected for each category
type PatternSet struct {
	Version  string
	Variants map[model.Category]string
	patterns map[model.Category][]Pattern
}

// NewPatternSet selects one variant per category. Categories missing from
// overrides use DefaultVariants. Unknown categories or variants are an error.
func NewPatternSet(overrides map[string]string) (*PatternSet, error) {
	selected := DefaultVariants()
	for name, variant := range overrides {
		category, ok := model.ParseCategory(name)
		if !ok {
			return nil, fmt.Errorf("unknown fact category: %q", name)
		}
		if variant == "" {
			continue
		}
		if _, ok := compiled[category][variant]; !ok {
			return nil, fmt.Errorf("unknown %s pattern variant %q (available: %v)", category, variant, Variants(category))
		}
		selected[category] = variant
	}

	ps := &PatternSet{
		Version:  PatternVersion,
		Variants: selected,
		patterns: make(map[model.Category][]Pattern, len(selected)),
	}
	for category, variant := range selected {
		ps.patterns[category] = compiled[category][variant]
	}
	return ps, nil
}

// DefaultPatternSet returns the pattern set built from DefaultVariants
func DefaultPatternSet() *PatternSet {
	ps, err := NewPatternSet(nil)
	if err != nil {
		panic(err) // built-in table is always valid
	}
	return ps
}

// Patterns returns the selected patterns for a category in match order
func (ps *PatternSet) Patterns(category model.Category) []Pattern {
	return ps.patterns[category]
}
