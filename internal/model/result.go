package model

// SearchResult is a single search hit returned by a result provider
type SearchResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	URL     string `json:"url"`
}

// Text returns the string the extractor scans: title and snippet joined by a space
func (r SearchResult) Text() string {
	return r.Title + " " + r.Snippet
}
