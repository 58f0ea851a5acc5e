package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-stats/internal/aggregator"
	"github.com/pable/go-league-stats/internal/config"
	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/normalizer"
	"github.com/pable/go-league-stats/internal/report"
	"github.com/pable/go-league-stats/internal/roster"
	"github.com/pable/go-league-stats/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <player>",
	Short: "Show a player's stored games and head-to-head record",
	Long: `Show every stored game of one player. The name may be any alias listed in
the roster; it is resolved to the canonical name first.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	var r *roster.Roster
	if loaded, err := roster.LoadFile(rosterPath); err == nil {
		r = loaded
	} else {
		logger.Debug("roster not loaded, using name as given", "err", err)
	}
	var overrides map[string]int
	if season, err := config.LoadSeason(seasonPath); err == nil {
		overrides = season.MMROverrides
	}
	return showPlayer(os.Stdout, db, r, overrides, args[0])
}

// showPlayer prints one player's games and biggest win and loss. Stored
// records are resolved against r first; r may be nil.
func showPlayer(w io.Writer, db *storage.DB, r *roster.Roster, overrides map[string]int, name string) error {
	all, err := db.ListMatches()
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	if r != nil {
		name = r.Resolve(name)
		normalizer.ReresolveAll(all, r)
	}

	var matches []model.MatchRecord
	for _, m := range all {
		for _, p := range m.Players {
			if strings.EqualFold(p.Name, name) {
				name = p.Name
				matches = append(matches, m)
				break
			}
		}
	}
	if len(matches) == 0 {
		fmt.Fprintf(w, "No games found for %q\n", name)
		return nil
	}

	// Ratings of opponents need their other games too.
	tbl := aggregator.Aggregate(all, aggregator.Options{MMROverrides: overrides})
	st, _ := tbl.Player(name)

	fmt.Fprintf(w, "\n%s  |  W %d  L %d  |  MMR %d  |  Race %s  |  APM %.0f\n\n",
		name, st.Wins, st.Losses(), st.MMR(), st.Race(), st.APM())
	report.PrintPlayerGames(w, name, matches)

	if d, ok := tbl.BiggestWin(name); ok {
		fmt.Fprintf(w, "\nBiggest win  : %s\n", d)
	}
	if d, ok := tbl.BiggestLoss(name); ok {
		fmt.Fprintf(w, "Biggest loss : %s\n", d)
	}
	return nil
}
