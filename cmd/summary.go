package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/report"
	"github.com/pable/go-league-stats/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level ledger overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the ledger",
	Long: `Display per-slot match and player counts, how many matches still have a
player the roster cannot place, and the ingest runs that filled the ledger.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	slots, err := db.SlotSummaries()
	if err != nil {
		return fmt.Errorf("get slot summaries: %w", err)
	}
	if len(slots) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'leaguestats ingest <dir>' to add some.")
		return nil
	}

	total, unknown := 0, 0
	for _, s := range slots {
		total += s.Matches
		unknown += s.UnknownTeam
	}
	fmt.Fprintf(os.Stdout, "\n=== Ledger Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Matches stored : %d\n", total)
	fmt.Fprintf(os.Stdout, "  Slots covered  : %d\n", len(slots))
	fmt.Fprintf(os.Stdout, "  Unknown team   : %d\n", unknown)

	fmt.Fprintf(os.Stdout, "\n--- Slots ---\n\n")
	report.PrintSlotSummary(os.Stdout, slots)

	runs, err := db.ListRuns()
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Runs ---\n\n")
	report.PrintRuns(os.Stdout, runs)
	return nil
}
