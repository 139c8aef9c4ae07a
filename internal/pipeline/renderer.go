package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/propfacts/internal/model"
)

// NoFactsMessage is printed when every category is empty
const NoFactsMessage = "No specific real estate facts were found in the search results."

// NoResultsMessage is printed when the provider returned nothing
const NoResultsMessage = "No search results found."

var categoryLabels = map[model.Category]struct {
	header string
	item   string
}{
	model.CategoryPricing:       {"Pricing Information:", "Price point"},
	model.CategoryDeveloper:     {"Developer Information:", "Developer"},
	model.CategoryLocation:      {"Location Information:", "Located in"},
	model.CategoryConfiguration: {"Configuration Information:", "Unit type"},
}

// Renderer writes reports as text, JSON and Markdown
type Renderer struct {
	topResults int
	topFacts   int
}

// NewRenderer creates a renderer showing topResults results and topFacts
// values per category (3 and 2 when non-positive)
func NewRenderer(topResults, topFacts int) *Renderer {
	if topResults <= 0 {
		topResults = 3
	}
	if topFacts <= 0 {
		topFacts = 2
	}
	return &Renderer{topResults: topResults, topFacts: topFacts}
}

// FormatText returns the plain text report
func (r *Renderer) FormatText(results []model.SearchResult, facts model.FactSet) string {
	lines := []string{fmt.Sprintf("Top %d Relevant Snippets:", r.topResults)}

	shown := results
	if len(shown) > r.topResults {
		shown = shown[:r.topResults]
	}
	for i, res := range shown {
		lines = append(lines,
			fmt.Sprintf("\n%d. %s", i+1, res.Title),
			"   "+res.Snippet,
			"   Source: "+res.URL,
		)
	}

	lines = append(lines, "\nSummary of Facts:")

	if facts.IsEmpty() {
		lines = append(lines, "\n"+NoFactsMessage)
		return strings.Join(lines, "\n") + "\n"
	}

	for _, category := range model.Categories {
		values := facts.Top(category, r.topFacts)
		if len(values) == 0 {
			continue
		}
		label := categoryLabels[category]
		lines = append(lines, "\n"+label.header)
		for _, v := range values {
			lines = append(lines, fmt.Sprintf("- %s: %s", label.item, v))
		}
	}

	return strings.Join(lines, "\n") + "\n"
}

// RenderText writes the plain text report to w
func (r *Renderer) RenderText(w io.Writer, report *model.Report) error {
	_, err := io.WriteString(w, r.FormatText(report.Results, report.Facts))
	return err
}

// WriteJSON writes the report as indented JSON to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// RenderJSON writes the report as JSON to path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		return r.WriteJSON(w, report)
	})
}

// FormatMarkdown returns the report as Markdown with every extracted value
func (r *Renderer) FormatMarkdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Real Estate Facts: %s\n\n", report.Query)
	fmt.Fprintf(&b, "- **Provider**: %s\n", report.Provider)
	if !report.FetchedAt.IsZero() {
		fmt.Fprintf(&b, "- **Fetched**: %s\n", report.FetchedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&b, "- **Mode**: %s", report.Mode)
	if report.PatternVersion != "" {
		fmt.Fprintf(&b, " (rules %s)", report.PatternVersion)
	}
	b.WriteString("\n")
	if report.Cached {
		b.WriteString("- **Cached**: yes\n")
	}

	b.WriteString("\n## Top Results\n\n")
	shown := report.Results
	if len(shown) > r.topResults {
		shown = shown[:r.topResults]
	}
	for i, res := range shown {
		if res.URL != "" {
			fmt.Fprintf(&b, "%d. [%s](%s)\n", i+1, res.Title, res.URL)
		} else {
			fmt.Fprintf(&b, "%d. %s\n", i+1, res.Title)
		}
		if res.Snippet != "" {
			fmt.Fprintf(&b, "   %s\n", res.Snippet)
		}
	}

	b.WriteString("\n## Facts\n")
	if report.Facts.IsEmpty() {
		fmt.Fprintf(&b, "\n_%s_\n", NoFactsMessage)
		return b.String()
	}

	for _, category := range model.Categories {
		values := report.Facts[category]
		if len(values) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n", strings.TrimSuffix(categoryLabels[category].header, ":"))
		for _, v := range values {
			fmt.Fprintf(&b, "- %s\n", v)
		}
	}

	return b.String()
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, r.FormatMarkdown(report))
		return err
	})
}

// RenderLLMMarkdown writes a pre-rendered LLM summary to path
func (r *Renderer) RenderLLMMarkdown(content string, path string) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
