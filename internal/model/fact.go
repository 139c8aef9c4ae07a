package model

import "encoding/json"

// Category classifies an extracted fact
type Category string

const (
	CategoryPricing       Category = "pricing"
	CategoryDeveloper     Category = "developer"
	CategoryLocation      Category = "location"
	CategoryConfiguration Category = "configuration"
)

// Categories lists every category in canonical order
var Categories = []Category{
	CategoryPricing,
	CategoryDeveloper,
	CategoryLocation,
	CategoryConfiguration,
}

// ParseCategory returns the category with the given name
func ParseCategory(name string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

// Fact is a single value pulled out of a search result
type Fact struct {
	Category  Category `json:"category"`
	Value     string   `json:"value"`
	Heuristic string   `json:"heuristic,omitempty"` // Which rule matched (e.g., "pattern:pricing/amount#1")
	Result    int      `json:"result"`              // Index of the source result (0-based)
	Context   string   `json:"context,omitempty"`   // Leading part of the snippet the value came from
}

// FactSet maps every category to its distinct values in first-seen order.
// A FactSet built with NewFactSet always carries all four categories.
type FactSet map[Category][]string

// NewFactSet returns a FactSet with an empty list for every category
func NewFactSet() FactSet {
	fs := make(FactSet, len(Categories))
	for _, c := range Categories {
		fs[c] = []string{}
	}
	return fs
}

// Add appends value to the category unless it is already present.
// It reports whether the value was added.
func (fs FactSet) Add(category Category, value string) bool {
	for _, existing := range fs[category] {
		if existing == value {
			return false
		}
	}
	fs[category] = append(fs[category], value)
	return true
}

// Top returns at most n values of the category. A negative n returns all
// values. Appending to the result never modifies the set.
func (fs FactSet) Top(category Category, n int) []string {
	values := fs[category]
	if n < 0 || n > len(values) {
		n = len(values)
	}
	return values[:n:n]
}

// IsEmpty reports whether no category holds a value
func (fs FactSet) IsEmpty() bool {
	for _, values := range fs {
		if len(values) > 0 {
			return false
		}
	}
	return true
}

// Count returns the total number of values across categories
func (fs FactSet) Count() int {
	n := 0
	for _, values := range fs {
		n += len(values)
	}
	return n
}

// FactSetFromFacts groups facts by category, keeping the first occurrence of each value
func FactSetFromFacts(facts []Fact) FactSet {
	fs := NewFactSet()
	for _, f := range facts {
		fs.Add(f.Category, f.Value)
	}
	return fs
}

// MarshalJSON writes categories in canonical order
func (fs FactSet) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, c := range Categories {
		values := fs[c]
		if values == nil {
			values = []string{}
		}
		k, err := json.Marshal(string(c))
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, k...)
		buf = append(buf, ':')
		buf = append(buf, v...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// UnmarshalJSON fills in missing categories with empty lists
func (fs *FactSet) UnmarshalJSON(data []byte) error {
	raw := make(map[Category][]string)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewFactSet()
	for c, values := range raw {
		if values == nil {
			values = []string{}
		}
		out[c] = values
	}
	*fs = out
	return nil
}
