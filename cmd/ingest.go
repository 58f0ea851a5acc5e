package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/metrics"
)

var ingestVerbose bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [records-dir]",
	Short: "Normalize a directory of match records and store them in the ledger",
	Long: `Decode every record file in the directory, classify and normalize it and
store new matches in the ledger keyed by content hash. Matches already stored
are skipped, so ingesting the same directory twice is a no-op.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "print every diagnostic")
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir := cfg.RecordsDir
	if len(args) > 0 {
		dir = args[0]
	}

	lg, err := loadLeague()
	if err != nil {
		return err
	}
	db, err := openLedger()
	if err != nil {
		return err
	}
	defer db.Close()

	svc := metrics.NewService()
	defer flushMetrics(svc)

	res, err := lg.ingest(cmd.Context(), db, dir, svc)
	if err != nil {
		return err
	}

	printRunSummary(os.Stdout, res.Report)
	if ingestVerbose {
		printDiagnostics(os.Stdout, res.Report.Diagnostics)
	}
	fmt.Fprintf(os.Stdout, "Stored %d new matches in %s (%d already in the ledger)\n",
		res.Run.Stored, dbPath, res.Known)
	return nil
}
