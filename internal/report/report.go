// Package report orders aggregated players and renders season tables.
package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pable/go-league-stats/internal/aggregator"
	"github.com/pable/go-league-stats/internal/model"
)

// ListSeparator joins opponent lists inside one cell.
const ListSeparator = " ; "

// Columns is the season table header, in output order.
var Columns = []string{
	"Team Name", "Name", "Wins", "Losses", "MMR", "Race", "APM",
	"Biggest Win (MMR Diff)", "Biggest Loss (MMR Diff)",
	"Players Defeated (MMR Diff)", "Players Lost To (MMR Diff)",
}

// TeamResolver looks up a player's team for the team column.
type TeamResolver interface {
	TeamOf(name string) model.Team
}

// Row is one player's line in the season table.
type Row struct {
	Team        string
	Name        string
	Wins        int
	Losses      int
	MMR         int
	Race        string
	APM         int
	BiggestWin  string
	BiggestLoss string
	Defeated    []string
	LostTo      []string
}

// Net is wins minus losses.
func (r Row) Net() int { return r.Wins - r.Losses }

// Games is wins plus losses.
func (r Row) Games() int { return r.Wins + r.Losses }

// Options controls row order.
type Options struct {
	// Leaderboard reverses the default worst-first order.
	Leaderboard bool
}

// Build turns the stats table into ordered rows. The default order is
// ascending by (net, games played, -losses); full ties keep the order in
// which players were first folded into tbl.
func Build(tbl *aggregator.Table, teams TeamResolver, opts Options) []Row {
	players := tbl.Players()
	rows := make([]Row, 0, len(players))
	for _, st := range players {
		row := Row{
			Team:   teams.TeamOf(st.Name).String(),
			Name:   st.Name,
			Wins:   st.Wins,
			Losses: st.Losses(),
			MMR:    st.MMR(),
			Race:   st.Race(),
			APM:    int(st.APM()),
		}
		if d, ok := tbl.BiggestWin(st.Name); ok {
			row.BiggestWin = d.String()
		}
		if d, ok := tbl.BiggestLoss(st.Name); ok {
			row.BiggestLoss = d.String()
		}
		row.Defeated = deltaStrings(tbl.Beaten(st.Name))
		row.LostTo = deltaStrings(tbl.LostTo(st.Name))
		rows = append(rows, row)
	}
	Sort(rows)
	if opts.Leaderboard {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows
}

// Sort orders rows worst-first. It is stable, so tied rows keep their order.
func Sort(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func less(a, b Row) bool {
	if a.Net() != b.Net() {
		return a.Net() < b.Net()
	}
	if a.Games() != b.Games() {
		return a.Games() < b.Games()
	}
	return -a.Losses < -b.Losses
}

// Cells renders a row in Columns order.
func (r Row) Cells() []string {
	return []string{
		r.Team,
		r.Name,
		strconv.Itoa(r.Wins),
		strconv.Itoa(r.Losses),
		strconv.Itoa(r.MMR),
		r.Race,
		strconv.Itoa(r.APM),
		r.BiggestWin,
		r.BiggestLoss,
		strings.Join(r.Defeated, ListSeparator),
		strings.Join(r.LostTo, ListSeparator),
	}
}

func deltaStrings(ds []aggregator.OpponentDelta) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
