package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/aggregator"
	"github.com/pable/go-league-stats/internal/inference"
	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/report"
	"github.com/pable/go-league-stats/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive session against the ledger",
	Long:  "Open a persistent session against the match ledger. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// session holds what the shell keeps open between commands.
type session struct {
	db  *storage.DB
	lg  *league
	out io.Writer
}

func runShell(cmd *cobra.Command, _ []string) error {
	lg, err := loadLeague()
	if err != nil {
		return err
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("leaguestats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	s := &session{db: db, lg: lg, out: os.Stdout}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("league")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		if tokens[0] == "exit" || tokens[0] == "quit" {
			return nil
		}
		if err := s.exec(tokens[0], tokens[1:]); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return scanner.Err()
}

// exec runs one shell command.
func (s *session) exec(name string, args []string) error {
	switch name {
	case "help":
		shellHelp(s.out)
	case "list":
		return s.list(args)
	case "show":
		if len(args) == 0 {
			return fmt.Errorf("usage: show <player>")
		}
		return showPlayer(s.out, s.db, s.lg.roster, s.lg.season.MMROverrides, strings.Join(args, " "))
	case "table":
		return s.table(len(args) > 0 && args[0] == "--leaderboard")
	case "infer":
		return s.infer()
	case "slots":
		slots, err := s.db.SlotSummaries()
		if err != nil {
			return err
		}
		report.PrintSlotSummary(s.out, slots)
	case "runs":
		runs, err := s.db.ListRuns()
		if err != nil {
			return err
		}
		report.PrintRuns(s.out, runs)
	default:
		cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
	}
	return nil
}

func shellHelp(w io.Writer) {
	fmt.Fprintln(w)
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list [slot]", "list stored matches, optionally one slot"},
		{"show <player>", "a player's games, by name or alias"},
		{"table [--leaderboard]", "season statistics table"},
		{"infer", "team suggestions and contradictions"},
		{"slots", "per-slot match counts"},
		{"runs", "ingest runs"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Fprint(w, "  ")
		cCmd.Fprintf(w, "%-24s", r.cmd)
		fmt.Fprintln(w, r.desc)
	}
	fmt.Fprintln(w)
}

// records returns the ledger resolved against the session roster.
func (s *session) records() ([]model.MatchRecord, error) {
	return s.lg.ledgerRecords(s.db)
}

func (s *session) list(args []string) error {
	matches, err := s.records()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		kept := matches[:0]
		for _, m := range matches {
			if strings.EqualFold(m.Slot, args[0]) {
				kept = append(kept, m)
			}
		}
		matches = kept
	}
	if len(matches) == 0 {
		cMuted.Fprintln(s.out, "No matches.")
		return nil
	}
	report.PrintMatches(s.out, matches)
	return nil
}

func (s *session) table(leaderboard bool) error {
	records, err := s.records()
	if err != nil {
		return err
	}
	tbl := aggregator.Aggregate(records, aggregator.Options{MMROverrides: s.lg.season.MMROverrides})
	report.PrintSeason(s.out, report.Build(tbl, s.lg.roster, report.Options{Leaderboard: leaderboard}))
	return nil
}

func (s *session) infer() error {
	records, err := s.records()
	if err != nil {
		return err
	}
	res := inference.Infer(records, s.lg.roster)
	if suggestions := inference.Unique(res.Suggestions); len(suggestions) > 0 {
		report.PrintSuggestions(s.out, suggestions)
	} else {
		cMuted.Fprintln(s.out, "No suggestions.")
	}
	printContradictionLines(s.out, res.Contradictions)
	return nil
}
