package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the match ledger file.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the match ledger",
	Long:  "Permanently delete the SQLite match ledger, including stored runs and diagnostics. Re-run ingest afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	if err := os.Remove(dbPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stdout, "Ledger does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove ledger: %w", err)
	}
	// WAL side files; absent when the ledger was closed cleanly.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(dbPath + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("could not remove ledger side file", "file", dbPath+suffix, "err", err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
