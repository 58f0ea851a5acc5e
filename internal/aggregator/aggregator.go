// Package aggregator folds normalized matches into per-player season stats.
package aggregator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-league-stats/internal/model"
)

// Options tunes aggregation.
type Options struct {
	// MMROverrides is a per-player rating floor keyed by canonical name
	// (case-insensitive). Each game's MMR becomes max(game MMR, override).
	MMROverrides map[string]int
}

// Table is the season's stats, keyed by canonical player name. Players are
// kept in first-seen order. Not safe for concurrent Add.
type Table struct {
	order     []string
	players   map[string]*model.PlayerStats
	overrides map[string]int
}

// New returns an empty Table.
func New(opts Options) *Table {
	overrides := make(map[string]int, len(opts.MMROverrides))
	for name, mmr := range opts.MMROverrides {
		overrides[strings.ToLower(name)] = mmr
	}
	return &Table{
		players:   make(map[string]*model.PlayerStats),
		overrides: overrides,
	}
}

// Aggregate folds records in order into a new Table.
func Aggregate(records []model.MatchRecord, opts Options) *Table {
	t := New(opts)
	for _, rec := range records {
		t.Add(rec)
	}
	return t
}

// Add appends one game to each participant. Adding the same record twice
// counts it twice.
func (t *Table) Add(rec model.MatchRecord) {
	for i, p := range rec.Players {
		opp := rec.Players[1-i]
		st := t.players[p.Name]
		if st == nil {
			st = &model.PlayerStats{Name: p.Name}
			t.players[p.Name] = st
			t.order = append(t.order, p.Name)
		}
		if p.Won {
			st.Wins++
		}
		st.Games = append(st.Games, model.GameOutcome{
			Opponent: opp.Name,
			Race:     p.Race,
			Win:      p.Won,
			MMR:      t.withOverride(p.Name, p.MMR),
			APM:      p.APM,
			Duration: rec.Duration,
		})
	}
}

func (t *Table) withOverride(name string, mmr int) int {
	if o, ok := t.overrides[strings.ToLower(name)]; ok && o > mmr {
		return o
	}
	return mmr
}

// Len is the number of players seen.
func (t *Table) Len() int { return len(t.order) }

// Players returns every player's stats in first-seen order.
func (t *Table) Players() []*model.PlayerStats {
	out := make([]*model.PlayerStats, len(t.order))
	for i, name := range t.order {
		out[i] = t.players[name]
	}
	return out
}

// Player returns the stats for a canonical name.
func (t *Table) Player(name string) (*model.PlayerStats, bool) {
	st, ok := t.players[name]
	return st, ok
}

// MMR returns a player's aggregate rating, 0 for unseen players.
func (t *Table) MMR(name string) int {
	if st, ok := t.players[name]; ok {
		return st.MMR()
	}
	return 0
}

// ---- Head-to-head ----

// OpponentDelta is an opponent with their aggregate MMR minus the player's.
type OpponentDelta struct {
	Name  string
	Delta int
}

func (d OpponentDelta) String() string {
	return fmt.Sprintf("%s (%+d)", d.Name, d.Delta)
}

// Beaten lists the opponents of name's wins, strongest opponent first.
// Repeat wins over the same opponent are listed each time.
func (t *Table) Beaten(name string) []OpponentDelta {
	st, ok := t.players[name]
	if !ok {
		return nil
	}
	out := t.deltas(st, st.OpponentsBeaten())
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delta > out[j].Delta })
	return out
}

// LostTo lists the opponents of name's losses, weakest opponent first.
func (t *Table) LostTo(name string) []OpponentDelta {
	st, ok := t.players[name]
	if !ok {
		return nil
	}
	out := t.deltas(st, st.OpponentsLostTo())
	sort.SliceStable(out, func(i, j int) bool { return out[i].Delta < out[j].Delta })
	return out
}

// BiggestWin is the win against the highest-rated opponent.
func (t *Table) BiggestWin(name string) (OpponentDelta, bool) {
	return first(t.Beaten(name))
}

// BiggestLoss is the loss against the lowest-rated opponent.
func (t *Table) BiggestLoss(name string) (OpponentDelta, bool) {
	return first(t.LostTo(name))
}

func (t *Table) deltas(st *model.PlayerStats, opponents []string) []OpponentDelta {
	own := st.MMR()
	out := make([]OpponentDelta, len(opponents))
	for i, o := range opponents {
		out[i] = OpponentDelta{Name: o, Delta: t.MMR(o) - own}
	}
	return out
}

func first(ds []OpponentDelta) (OpponentDelta, bool) {
	if len(ds) == 0 {
		return OpponentDelta{}, false
	}
	return ds[0], true
}
