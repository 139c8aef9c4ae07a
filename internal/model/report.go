package model

import "time"

// Report is the complete result of a single lookup
type Report struct {
	Query          string         `json:"query"`
	Provider       string         `json:"provider"`
	FetchedAt      time.Time      `json:"fetched_at"`
	Results        []SearchResult `json:"results"`
	Facts          FactSet        `json:"facts"`
	FactDetails    []Fact         `json:"fact_details,omitempty"`
	Mode           string         `json:"mode"`            // regex or keyword
	PatternVersion string         `json:"pattern_version"` // Version of the pattern table used
	Cached         bool           `json:"cached,omitempty"`

	LLM *LLMSummary `json:"llm,omitempty"` // Optional summary (never changes facts)
}

// LLMSummary contains an optional model-written summary of the facts
type LLMSummary struct {
	Enabled        bool     `json:"enabled"`
	Provider       string   `json:"provider,omitempty"`
	Model          string   `json:"model,omitempty"`
	StrictEvidence bool     `json:"strict_evidence"`
	SummaryMD      string   `json:"summary_md,omitempty"`
	Warnings       []string `json:"warnings,omitempty"`
}

// SourceURLs returns the URLs of the results in order
func (r *Report) SourceURLs() []string {
	urls := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		if res.URL != "" {
			urls = append(urls, res.URL)
		}
	}
	return urls
}
