package aggregator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-stats/internal/model"
)

func game(slot, winner string, wMMR int, wRace string, loser string, lMMR int, lRace string) model.MatchRecord {
	rec := model.MatchRecord{Slot: slot, Map: "Acropolis LE", Duration: 600}
	rec.Players[0] = model.Participant{Name: winner, Race: wRace, Won: true, MMR: wMMR, APM: 200}
	rec.Players[1] = model.Participant{Name: loser, Race: lRace, MMR: lMMR, APM: 100}
	return rec
}

func TestAggregate_AliceBob(t *testing.T) {
	tbl := Aggregate([]model.MatchRecord{game("Week1", "Alice", 4000, "P", "Bob", 3800, "Z")}, Options{})

	alice, ok := tbl.Player("Alice")
	require.True(t, ok)
	assert.Equal(t, 1, alice.Wins)
	assert.Equal(t, 0, alice.Losses())
	assert.Equal(t, 4000, alice.MMR())
	assert.Equal(t, "P", alice.Race())
	win, ok := tbl.BiggestWin("Alice")
	require.True(t, ok)
	assert.Equal(t, "Bob (-200)", win.String())
	_, ok = tbl.BiggestLoss("Alice")
	assert.False(t, ok)

	bob, ok := tbl.Player("Bob")
	require.True(t, ok)
	assert.Equal(t, 0, bob.Wins)
	assert.Equal(t, 1, bob.Losses())
	assert.Equal(t, 3800, bob.MMR())
	assert.Equal(t, "Z", bob.Race())
	loss, ok := tbl.BiggestLoss("Bob")
	require.True(t, ok)
	assert.Equal(t, "Alice (+200)", loss.String())
}

func TestAggregate_OrderIndependent(t *testing.T) {
	records := []model.MatchRecord{
		game("Week1", "Alice", 4000, "P", "Bob", 3800, "Z"),
		game("Week2", "Carol", 4200, "T", "Alice", 4050, "P"),
		game("Week3", "Bob", 3900, "Z", "Carol", 4100, "T"),
		game("Week4", "Alice", 3950, "P", "Carol", 4200, "T"),
	}
	want := Aggregate(records, Options{})

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.MatchRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		got := Aggregate(shuffled, Options{})

		require.Equal(t, want.Len(), got.Len())
		for _, w := range want.Players() {
			g, ok := got.Player(w.Name)
			require.True(t, ok)
			assert.Equal(t, w.Wins, g.Wins, w.Name)
			assert.Equal(t, w.Losses(), g.Losses(), w.Name)
			assert.Equal(t, w.MMR(), g.MMR(), w.Name)
			assert.Equal(t, w.Race(), g.Race(), w.Name)
			assert.InDelta(t, w.APM(), g.APM(), 1e-9, w.Name)
			assert.ElementsMatch(t, w.OpponentsBeaten(), g.OpponentsBeaten(), w.Name)
			assert.ElementsMatch(t, w.OpponentsLostTo(), g.OpponentsLostTo(), w.Name)
		}
	}
}

func TestAggregate_DoubleCounts(t *testing.T) {
	rec := game("Week1", "Alice", 4000, "P", "Bob", 3800, "Z")
	tbl := Aggregate([]model.MatchRecord{rec, rec}, Options{})
	alice, _ := tbl.Player("Alice")
	assert.Equal(t, 2, alice.Wins)
	assert.Equal(t, 2, alice.GamesPlayed())
	assert.Equal(t, []string{"Alice", "Bob"}, names(tbl))
}

func TestAggregate_MMROverrideIsFloor(t *testing.T) {
	records := []model.MatchRecord{
		game("Week1", "Alice", 4000, "P", "Bob", 0, "Z"),
		game("Week2", "Alice", 4000, "P", "Carol", 4500, "T"),
	}
	tbl := Aggregate(records, Options{MMROverrides: map[string]int{"bob": 3700, "carol": 3000}})

	assert.Equal(t, 3700, tbl.MMR("Bob"))
	assert.Equal(t, 4500, tbl.MMR("Carol"))
	assert.Equal(t, 0, tbl.MMR("Nobody"))
}

func TestBeatenAndLostToOrdering(t *testing.T) {
	records := []model.MatchRecord{
		game("Week1", "Alice", 4000, "P", "Bob", 3800, "Z"),
		game("Week2", "Alice", 4000, "P", "Carol", 4300, "T"),
		game("Week3", "Dave", 4100, "R", "Alice", 4000, "P"),
		game("Week4", "Erin", 3500, "Z", "Alice", 4000, "P"),
	}
	tbl := Aggregate(records, Options{})

	assert.Equal(t, []string{"Carol (+300)", "Bob (-200)"}, strs(tbl.Beaten("Alice")))
	assert.Equal(t, []string{"Erin (-500)", "Dave (+100)"}, strs(tbl.LostTo("Alice")))

	win, _ := tbl.BiggestWin("Alice")
	assert.Equal(t, "Carol", win.Name)
	loss, _ := tbl.BiggestLoss("Alice")
	assert.Equal(t, "Erin", loss.Name)

	assert.Nil(t, tbl.Beaten("Nobody"))
}

func names(tbl *Table) []string {
	var out []string
	for _, p := range tbl.Players() {
		out = append(out, p.Name)
	}
	return out
}

func strs(ds []OpponentDelta) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}
