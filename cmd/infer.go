package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/inference"
	"github.com/pable/go-league-stats/internal/metrics"
	"github.com/pable/go-league-stats/internal/report"
)

var inferAll bool

var inferCmd = &cobra.Command{
	Use:   "infer [records-dir]",
	Short: "Suggest teams for players missing from the roster",
	Long: `Build each slot's matchup graph and suggest a team for every player the
roster cannot place, based on the one opposing team their opponents faced that
slot. Teams that faced more than one known team in a slot are reported as
contradictions. The roster is never modified; review and edit it by hand.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfer,
}

func init() {
	inferCmd.Flags().BoolVar(&inferAll, "all", false, "list every suggestion, not one per player and team")
}

func runInfer(cmd *cobra.Command, args []string) error {
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

	res := inference.Infer(records, lg.roster)
	svc.ObserveInference(res)

	suggestions := res.Suggestions
	if !inferAll {
		suggestions = inference.Unique(suggestions)
	}

	cHeader.Fprintf(os.Stdout, "\n--- Suggestions (%d) ---\n\n", len(suggestions))
	if len(suggestions) > 0 {
		report.PrintSuggestions(os.Stdout, suggestions)
	}
	cHeader.Fprintf(os.Stdout, "\n--- Contradictions (%d) ---\n\n", len(res.Contradictions))
	if len(res.Contradictions) > 0 {
		report.PrintContradictions(os.Stdout, res.Contradictions)
		fmt.Fprintln(os.Stderr)
		printContradictionLines(os.Stderr, res.Contradictions)
	}
	return nil
}
