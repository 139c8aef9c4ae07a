package provider

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/ppiankov/propfacts/internal/model"
)

// Fixtures are the built-in result sets served by the mock provider
var Fixtures = map[string][]model.SearchResult{
	"luxury": {
		{
			Title:   "Luxury Apartments in Bangalore - Premium Project",
			Snippet: "Starting from ₹85 lakhs, these luxury apartments offer 2 BHK and 3 BHK configurations. Located in North Bangalore, developed by Premier Builders Group.",
			URL:     "https://example.com/luxury-apartments",
		},
		{
			Title:   "Premier Builders Group - Official Website",
			Snippet: "Premier Builders Group is a leading developer with over 15 years of experience. Current projects include luxury apartments in North Bangalore with 2-3 BHK options starting at ₹85 lakhs.",
			URL:     "https://example.com/premier-builders",
		},
		{
			Title:   "Real Estate Reviews - Luxury Apartments Project",
			Snippet: "The Luxury Apartments project offers units sized between 1200-1800 sq.ft. Located just 5 km from the airport in North Bangalore. Prices range from ₹85-120 lakhs depending on configuration.",
			URL:     "https://example.com/reviews",
		},
	},
	"prestige": {
		{
			Title:   "Prestige City in East Bangalore - Official Information",
			Snippet: "Prestige City offers apartments starting from ₹75 lakhs. Located in East Bangalore, the project features 1, 2, and 3 BHK configurations ranging from 650-1500 sq.ft. Developed by Prestige Group, one of the leading real estate developers in South India.",
			URL:     "https://example.com/prestige-city",
		},
		{
			Title:   "Prestige Group - Developer Profile",
			Snippet: "Prestige Group has developed over 250 projects across South India. Current projects include Prestige City in East Bangalore with premium apartments in various configurations including 2 BHK units starting at ₹75 lakhs and 3 BHK units from ₹95 lakhs.",
			URL:     "https://example.com/prestige-group",
		},
		{
			Title:   "Real Estate Review: Prestige City",
			Snippet: "Prestige City is located 15 km from MG Road, East Bangalore. The project offers good connectivity to major tech parks. Units are available in 650, 950 and 1500 sq.ft. configurations with prices ranging from ₹75-120 lakhs depending on the size and type.",
			URL:     "https://example.com/prestige-city-review",
		},
	},
}

// FixtureNames returns the available fixture names, sorted
func FixtureNames() []string {
	names := make([]string, 0, len(Fixtures))
	for name := range Fixtures {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Mock serves a fixed result set regardless of the query
type Mock struct {
	fixture string
	results []model.SearchResult
	num     int
}

// NewMock creates a mock provider for the named fixture ("luxury" when empty)
func NewMock(fixture string, num int) (*Mock, error) {
	if fixture == "" {
		fixture = "luxury"
	}
	results, ok := Fixtures[fixture]
	if !ok {
		return nil, fmt.Errorf("unknown mock fixture: %q (available: %v)", fixture, FixtureNames())
	}
	return &Mock{fixture: fixture, results: results, num: num}, nil
}

// NewMockResults creates a mock provider serving the given results
func NewMockResults(results []model.SearchResult) *Mock {
	return &Mock{results: results}
}

func (m *Mock) Name() string {
	return "mock"
}

// CacheScope identifies the fixture and result count
func (m *Mock) CacheScope() string {
	return scopeOf(m.fixture, strconv.Itoa(m.num))
}

func (m *Mock) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.SearchResult, len(m.results))
	copy(out, m.results)
	return truncate(out, m.num), nil
}
