package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/propfacts/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON       string
	outMD         string
	searchTimeout time.Duration
	searchFlags   lookupFlags
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search a real estate query and summarize the facts found",
	Long: `Search fetches a few results for the query and extracts:
- Pricing (amounts in crore or lakh)
- Developer names
- Locations
- Unit configurations (BHK, bedrooms)

The top results and the first facts of each category are printed.

Example:
  propfacts search "luxury apartments in Bangalore"
  propfacts search "prestige projects" --provider serpapi --json report.json
  propfacts search "villas in Whitefield" --mode keyword --md report.md`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	// Output flags
	searchCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	searchCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "overall lookup timeout (default: http.timeout)")

	searchFlags.register(searchCmd.Flags())
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := searchFlags.apply(cfg, cmd.Flags()); err != nil {
		return err
	}

	timeout := cfg.HTTP.Timeout
	if searchTimeout > 0 {
		timeout = searchTimeout
		cfg.HTTP.Timeout = searchTimeout
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	query := args[0]
	if verbose {
		fmt.Fprintf(os.Stderr, "Searching: %s\n", query)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.Provider.Name)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, closer, err := buildPipeline(ctx, cfg)
	defer func() { _ = closer.Close() }()
	if err != nil {
		return err
	}

	report, err := p.Lookup(ctx, query)
	if errors.Is(err, pipeline.ErrNoResults) {
		fmt.Fprintln(cmd.OutOrStdout(), pipeline.NoResultsMessage)
		return nil
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Fetched %d results (cached: %v)\n", len(report.Results), report.Cached)
		fmt.Fprintf(os.Stderr, "✓ Extracted %d facts (%s mode)\n", report.Facts.Count(), report.Mode)
		if report.LLM != nil && report.LLM.Enabled {
			fmt.Fprintf(os.Stderr, "✓ Generated LLM summary using %s/%s\n", report.LLM.Provider, report.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderReport(cmd.OutOrStdout(), report, outJSON, outMD); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	return nil
}
