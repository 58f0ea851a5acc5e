package cmd

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-stats/internal/config"
	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/roster"
	"github.com/pable/go-league-stats/internal/storage"
)

func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r, err := roster.Load(strings.NewReader("TeamX,Alice=Al\nTeamY,Bob\n"))
	require.NoError(t, err)

	at := time.Date(2019, time.September, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.InsertRun(model.RunSummary{ID: "run-1", StartedAt: at, RecordsDir: "/records"}))

	game := func(hash, loser string, team model.Team) model.MatchRecord {
		m := model.MatchRecord{Hash: hash, File: hash + ".json", Slot: "Week1", Map: "Acropolis LE", PlayedAt: at, Duration: 600}
		m.Players[0] = model.Participant{Name: "Alice", Team: model.KnownTeam("TeamX"), Race: "P", Won: true, MMR: 4000, APM: 180}
		m.Players[1] = model.Participant{Name: loser, Team: team, Race: "Z", MMR: 3800, APM: 120}
		return m
	}
	_, err = db.InsertMatches("run-1", []model.MatchRecord{
		game("h1", "Bob", model.KnownTeam("TeamY")),
		game("h2", "Ghost", model.UnknownTeam),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	lg := &league{roster: r, season: config.ReferenceSeason()}
	return &session{db: db, lg: lg, out: &buf}, &buf
}

func TestShellList(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.exec("list", []string{"week1"}))
	assert.Contains(t, out.String(), "Ghost")

	out.Reset()
	require.NoError(t, s.exec("list", []string{"Round1"}))
	assert.Contains(t, out.String(), "No matches.")
}

func TestShellShowResolvesAlias(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.exec("show", []string{"Al"}))
	assert.Contains(t, out.String(), "Alice  |  W 2  L 0")
	assert.Contains(t, out.String(), "Biggest win  :")
}

func TestShellInfer(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.exec("infer", nil))
	assert.Contains(t, out.String(), "Ghost")
	assert.Contains(t, out.String(), "TeamY")
	assert.NotContains(t, out.String(), "contradiction")
}

func TestShellTable(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.exec("table", []string{"--leaderboard"}))
	assert.Contains(t, out.String(), "Alice")
	assert.Contains(t, out.String(), "Bob")
}

func TestShellShowUsage(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Error(t, s.exec("show", nil))
}
