package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/report"
	"github.com/pable/go-league-stats/internal/storage"
)

var listSlot string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored matches",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listSlot, "slot", "", "only matches of this slot (e.g. Week3, Round1)")
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	matches, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if listSlot != "" {
		kept := matches[:0]
		for _, m := range matches {
			if m.Slot == listSlot {
				kept = append(kept, m)
			}
		}
		matches = kept
	}
	if len(matches) == 0 {
		fmt.Fprintln(os.Stdout, "No matches stored yet. Run 'leaguestats ingest <dir>' to add some.")
		return nil
	}

	report.PrintMatches(os.Stdout, matches)
	fmt.Fprintf(os.Stdout, "\n(%d matches)\n", len(matches))
	return nil
}
