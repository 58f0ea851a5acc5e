package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/config"
)

var (
	dbPath      string
	rosterPath  string
	seasonPath  string
	logLevel    string
	metricsFile string
	workers     int

	cfg    config.Config
	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
)

var rootCmd = &cobra.Command{
	Use:   "leaguestats",
	Short: "StarCraft II league season classifier and stats tool",
	Long: `Classify decoded league match records into schedule slots, resolve player
identities against the team roster, infer missing team assignments and compile
the season statistics table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lvl, err := log.ParseLevel(logLevel)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		logger.SetLevel(lvl)
		return nil
	},
}

// Execute runs the root command. Interrupts cancel the running batch.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cfg = config.Load(logger)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dbPath, "db", cfg.DBPath, "path to SQLite match ledger")
	pf.StringVar(&rosterPath, "roster", cfg.RosterPath, "team roster CSV (team, player=alias, ...)")
	pf.StringVar(&seasonPath, "season", cfg.SeasonFile, "season YAML file (default: built-in reference season)")
	pf.StringVar(&logLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	pf.StringVar(&metricsFile, "metrics-file", cfg.MetricsFile, "write run metrics to this Prometheus textfile")
	pf.IntVar(&workers, "workers", cfg.Workers, "records decoded in parallel")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(inferCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(dropCmd)
}
