package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize writes a short summary of the extracted facts
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	Report model.Report

	// EvidenceURLs is the allowlist of URLs the summary may cite
	EvidenceURLs []string

	// Prompt overrides the default prompt when set
	Prompt string

	Model     string
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	Summary    string
	CitedURLs  []string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama" or "" (disabled)
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	// Timeout for API requests in seconds
	Timeout int

	// StrictEvidence rejects summaries citing URLs outside the result set
	StrictEvidence bool

	MaxTokens int
}

// DefaultConfig returns the defaults: disabled, strict citations
func DefaultConfig() Config {
	return Config{
		Timeout:        30,
		StrictEvidence: true,
		MaxTokens:      500,
	}
}

const maxPromptURLs = 20

// BuildPrompt constructs the default summarization prompt for a report
func BuildPrompt(report model.Report, evidenceURLs []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing facts extracted from real estate search results for the query %q.
The facts were matched by fixed text patterns and may contain noise.

RULES:
1. You MUST ONLY cite URLs from this allowed list:
%s

2. Do not add prices, developers, locations or configurations that are not listed below.
3. If a category is empty, say that no information was found for it.

Extracted facts:
`, report.Query, joinURLs(evidenceURLs))

	for _, category := range model.Categories {
		values := report.Facts[category]
		if len(values) == 0 {
			fmt.Fprintf(&b, "- %s: (none)\n", category)
			continue
		}
		fmt.Fprintf(&b, "- %s: %s\n", category, strings.Join(values, "; "))
	}

	b.WriteString("\nWrite a 2-3 sentence summary for a home buyer.")

	return b.String()
}

func joinURLs(urls []string) string {
	if len(urls) == 0 {
		return "(No source URLs available)"
	}
	var b strings.Builder
	for i, url := range urls {
		if i >= maxPromptURLs {
			fmt.Fprintf(&b, "\n... and %d more URLs", len(urls)-maxPromptURLs)
			break
		}
		fmt.Fprintf(&b, "\n- %s", url)
	}
	return b.String()
}
