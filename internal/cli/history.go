package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ppiankov/propfacts/internal/history"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyJSON  bool
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent lookups",
	Long: `List the most recent lookups recorded in the history database.

History is recorded only when history.enabled is true.

Example:
  propfacts history
  propfacts history --limit 50 --json`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of entries to show")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "print entries as JSON")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := history.Open(cmd.Context(), cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	entries, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if entries == nil {
			entries = []history.Entry{}
		}
		return enc.Encode(entries)
	}

	return printHistory(cmd.OutOrStdout(), entries)
}

// printHistory writes entries as an aligned table
func printHistory(w io.Writer, entries []history.Entry) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No lookups recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tPROVIDER\tMODE\tRESULTS\tFACTS\tQUERY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			e.CreatedAt.Local().Format(time.DateTime),
			e.Provider,
			e.Mode,
			e.ResultCount,
			e.FactCount,
			e.Query,
		)
	}
	return tw.Flush()
}
