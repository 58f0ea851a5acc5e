package pipeline

import (
	"bytes"
	"encoding/json"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/normalizer"
	"github.com/pable/go-league-stats/internal/parser"
	"github.com/pable/go-league-stats/internal/roster"
	"github.com/pable/go-league-stats/internal/schedule"
)

func week(n int) int64 {
	return schedule.ToRaw(schedule.ReferenceStart.Add(time.Duration(n) * 7 * 24 * time.Hour))
}

func raw(p0, p1, title string, when int64) *model.RawRecord {
	return &model.RawRecord{
		Players: []model.RawPlayer{
			{Name: p0, Race: "Protoss", Result: 1},
			{Name: p1, Race: "Zerg", Result: 2},
		},
		TimeUTC: when,
		Title:   title,
		Metadata: &model.RawMetadata{
			Duration: 700,
			Players:  []model.RawMetaPlayer{{MMR: 4000, APM: 150}, {MMR: 3800, APM: 120}},
		},
	}
}

func writeRecord(t *testing.T, dir, name string, rec *model.RawRecord) {
	t.Helper()
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func newRunner(t *testing.T, workers int) *Runner {
	t.Helper()
	r, err := roster.Load(strings.NewReader("TeamX,Alice=Al\nTeamY,Bob\n"))
	require.NoError(t, err)
	return &Runner{
		Decoder:    parser.FileDecoder{},
		Normalizer: normalizer.New(r, schedule.Reference(), normalizer.DefaultTables()),
		Logger:     log.New(io.Discard),
		Workers:    workers,
	}
}

func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeRecord(t, dir, "01.json", raw("Al", "Bob", "Acropolis LE", week(1)))
	writeRecord(t, dir, "02.json", raw("Al", "Bob", "Acropolis LE", week(1)))   // same bytes as 01
	writeRecord(t, dir, "03.json", raw("Bob", "Ghost", "Triton LE", week(2)))   // unknown team
	writeRecord(t, dir, "04.json", raw("Al", "Bob", "未知地图", week(3)))           // unknown map
	writeRecord(t, dir, "05.json", raw("Alice", "Bob", "Ephemeron LE", week(9))) // playoffs
	require.NoError(t, os.WriteFile(filepath.Join(dir, "06.SC2Replay"), []byte("MPQ"), 0o644))
	return dir
}

func TestRunDir_Report(t *testing.T) {
	rep, err := newRunner(t, 4).RunDir(context.Background(), fixtureDir(t))
	require.NoError(t, err)

	assert.NotEmpty(t, rep.RunID.String())
	require.Len(t, rep.Results, 6)
	require.Len(t, rep.Records, 3)
	assert.Equal(t, 3, rep.Skipped())

	assert.Equal(t, []string{"01.json", "03.json", "05.json"}, files(rep.Records))
	assert.Equal(t, []string{"Week1", "Week2", "Round1"}, slots(rep.Records))

	assert.Equal(t, map[Kind]int{
		KindProcessed:       3,
		KindDuplicate:       1,
		KindUnknownTeam:     1,
		KindUnrecognizedMap: 1,
		KindUndecodable:     1,
	}, rep.Counts)

	var kinds []Kind
	for _, d := range rep.Diagnostics {
		kinds = append(kinds, d.Kind)
	}
	assert.Equal(t, []Kind{KindDuplicate, KindUnknownTeam, KindUnrecognizedMap, KindUndecodable}, kinds)
	assert.Equal(t, "06.SC2Replay", rep.Diagnostics[3].File)
	assert.Equal(t, "Week2: team of Ghost not known", rep.Diagnostics[1].Message)

	mapDiag := rep.Diagnostics[2]
	assert.Equal(t, "04.json", mapDiag.File)
	assert.Contains(t, mapDiag.Message, "Week3: TeamX Alice (P) vs TeamY Bob (Z)")
}

func TestRunDir_UnrecognizedMapIsLoggedWithMatchup(t *testing.T) {
	var logs bytes.Buffer
	runner := newRunner(t, 2)
	runner.Logger = log.New(&logs)

	_, err := runner.RunDir(context.Background(), fixtureDir(t))
	require.NoError(t, err)

	out := logs.String()
	assert.Contains(t, out, "map not recognized")
	assert.Contains(t, out, "slot=Week3")
	assert.Contains(t, out, "player1=Alice")
	assert.Contains(t, out, "team2=TeamY")
}

func TestRun_DeterministicAcrossWorkers(t *testing.T) {
	dir := fixtureDir(t)
	one, err := newRunner(t, 1).RunDir(context.Background(), dir)
	require.NoError(t, err)
	many, err := newRunner(t, 8).RunDir(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, one.Records, many.Records)
	assert.Equal(t, one.Diagnostics, many.Diagnostics)
	assert.Equal(t, one.Counts, many.Counts)
	assert.NotEqual(t, one.RunID, many.RunID)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(t, 2).RunDir(ctx, fixtureDir(t))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunDir_MissingDir(t *testing.T) {
	_, err := newRunner(t, 1).RunDir(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func files(records []model.MatchRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.File)
	}
	return out
}

func slots(records []model.MatchRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Slot)
	}
	return out
}
