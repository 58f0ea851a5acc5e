package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/aggregator"
	"github.com/pable/go-league-stats/internal/metrics"
	"github.com/pable/go-league-stats/internal/report"
)

var (
	compileCSV         string
	compileLeaderboard bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [records-dir]",
	Short: "Compile the season statistics table",
	Long: `Aggregate every match into per-player season stats and print the table.
Without a directory the matches stored in the ledger are used.

Rows are ordered worst record first: by wins minus losses, then games played,
then fewest losses. Use --leaderboard to reverse the order.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compileCSV, "csv", "", "also write the full table (with opponent lists) to this CSV file")
	compileCmd.Flags().BoolVar(&compileLeaderboard, "leaderboard", false, "best record first")
}

func runCompile(cmd *cobra.Command, args []string) error {
	lg, err := loadLeague()
	if err != nil {
		return err
	}
	svc := metrics.NewService()
	defer flushMetrics(svc)

	records, err := lg.loadRecords(cmd.Context(), args, svc)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found. Run 'leaguestats ingest <dir>' or pass a records directory.")
		return nil
	}

	tbl := aggregator.Aggregate(records, aggregator.Options{MMROverrides: lg.season.MMROverrides})
	rows := report.Build(tbl, lg.roster, report.Options{Leaderboard: compileLeaderboard})
	svc.SetPlayers(len(rows))

	report.PrintSeason(os.Stdout, rows)
	if compileCSV != "" {
		if err := report.WriteCSVFile(compileCSV, rows); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "\nWrote %d rows to %s\n", len(rows), compileCSV)
	}
	return nil
}
