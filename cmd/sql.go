package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/report"
	"github.com/pable/go-league-stats/internal/storage"
)

var sqlCSV bool

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the match ledger",
	Long: `Run an arbitrary SQL query against the match ledger and print results as a table.

Schema overview:
  matches(hash, match_key, file, slot, map_name, played_at, duration,
    p1_name, p1_team, p1_race, p1_won, p1_mmr, p1_apm,
    p2_name, p2_team, p2_race, p2_won, p2_mmr, p2_apm, run_id)
  runs(id, started_at, records_dir, processed, stored, skipped)
  diagnostics(id, run_id, kind, file, message)

Note: p1_team / p2_team are NULL when the roster cannot place the player.
Example: SELECT slot, COUNT(*) FROM matches WHERE p1_team IS NULL OR p2_team IS NULL GROUP BY slot`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlCSV, "csv", false, "print rows as CSV instead of a table")
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	logger.Debug("running query", "sql", query)
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if sqlCSV {
		return report.WriteRawCSV(os.Stdout, cols, rows)
	}
	if len(rows) == 0 {
		fmt.Fprintln(os.Stdout, "(no rows)")
		return nil
	}
	report.PrintRaw(os.Stdout, cols, rows)
	fmt.Fprintf(os.Stdout, "\n(%d rows)\n", len(rows))
	return nil
}
