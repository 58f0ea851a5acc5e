package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-stats/internal/schedule"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("LEAGUE_ROSTER", "/data/teams.csv")
	t.Setenv("LEAGUE_WORKERS", "8")
	t.Setenv("LEAGUE_METRICS_FILE", "")

	cfg := Load(log.New(io.Discard))
	assert.Equal(t, "/data/teams.csv", cfg.RosterPath)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "", cfg.MetricsFile)
}

func TestLoad_InvalidWorkersFallsBack(t *testing.T) {
	t.Setenv("LEAGUE_WORKERS", "lots")
	cfg := Load(log.New(io.Discard))
	assert.Equal(t, 4, cfg.Workers)
}

func TestLoadSeason_DefaultIsReference(t *testing.T) {
	s, err := LoadSeason("")
	require.NoError(t, err)
	cal, err := s.Calendar()
	require.NoError(t, err)
	assert.Equal(t, schedule.Reference().Anchors(), cal.Anchors())

	tables := s.Tables()
	assert.Nil(t, tables.Maps)
	assert.Nil(t, tables.Races)
}

func TestParseSeason(t *testing.T) {
	doc := []byte(`
name: spring
start: "2020-01-11 12:00"
slot_count: 10
maps:
  "Eternal Empire LE": "Eternal Empire LE"
  "World of Sleepers LE": "World of Sleepers LE"
  "Ever Dream LE": "Ever Dream LE"
  "King's Cove LE": "Kings Cove LE"
mmr_overrides:
  alice: 4100
`)
	s, err := ParseSeason(doc)
	require.NoError(t, err)
	assert.Equal(t, "spring", s.Name)
	assert.Equal(t, 7, s.StrideDays)
	assert.Equal(t, map[string]int{"alice": 4100}, s.MMROverrides)

	cal, err := s.Calendar()
	require.NoError(t, err)
	anchors := cal.Anchors()
	require.Len(t, anchors, 10)
	assert.Equal(t, time.Date(2020, time.January, 11, 12, 0, 0, 0, time.UTC), anchors[0])
	assert.Equal(t, time.Date(2020, time.January, 18, 12, 0, 0, 0, time.UTC), anchors[1])

	assert.Equal(t, "Kings Cove LE", s.Tables().Maps["Kings Cove LE"])
}

func TestParseSeason_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"bad start", `start: "next tuesday"`},
		{"too many slots", `slot_count: 40`},
		{"zero stride", `stride_days: 0`},
		{"long race code", "races:\n  Protoss: PR"},
		{"not yaml", `start: [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSeason([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadSeason_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.yaml")
	require.NoError(t, os.WriteFile(path, []byte("slot_count: 3\n"), 0o644))
	s, err := LoadSeason(path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.SlotCount)

	_, err = LoadSeason(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
