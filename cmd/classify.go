package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/metrics"
	"github.com/pable/go-league-stats/internal/report"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [records-dir]",
	Short: "Show the slot and match key of every record file",
	Long: `Classify each record file into its schedule slot and print the canonical
match key (slot-team1-team2-player1-player2-race1-race2-map). Nothing is
stored and no file is moved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	dir := cfg.RecordsDir
	if len(args) > 0 {
		dir = args[0]
	}
	lg, err := loadLeague()
	if err != nil {
		return err
	}
	svc := metrics.NewService()
	defer flushMetrics(svc)

	rep, err := lg.runBatch(cmd.Context(), dir, svc)
	if err != nil {
		return fmt.Errorf("run batch: %w", err)
	}
	printRunSummary(os.Stderr, rep)
	printDiagnostics(os.Stderr, rep.Diagnostics)
	fmt.Fprintln(os.Stderr)

	report.PrintClassified(os.Stdout, rep.Records)
	return nil
}
