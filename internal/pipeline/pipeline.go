// Package pipeline runs one batch: decode every record file, normalize and
// classify it, then fold the results back in file-name order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/normalizer"
	"github.com/pable/go-league-stats/internal/parser"
)

// Kind names a diagnostic category. Counts are kept per kind.
type Kind string

const (
	KindProcessed       Kind = "processed"
	KindDuplicate       Kind = "duplicate"
	KindUndecodable     Kind = "undecodable"
	KindUnrecognizedMap Kind = "unrecognized-map"
	KindUnknownRace     Kind = "unknown-race"
	KindUnknownTeam     Kind = "unknown-team"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindProcessed, KindDuplicate, KindUndecodable, KindUnrecognizedMap, KindUnknownRace, KindUnknownTeam}

// Normalizer converts a decoded record into a MatchRecord.
type Normalizer interface {
	Normalize(raw *model.RawRecord) (model.MatchRecord, error)
}

// Result is the outcome for one file: a record or the error that skipped it.
type Result struct {
	File   string
	Record model.MatchRecord
	Err    error
}

// Diagnostic is one operator-facing finding.
type Diagnostic struct {
	Kind    Kind
	File    string
	Message string
}

// Report is everything one run produced. It owns its counters.
type Report struct {
	RunID       uuid.UUID
	StartedAt   time.Time
	Results     []Result            // one per input file, file-name order
	Records     []model.MatchRecord // successfully normalized, duplicates removed
	Diagnostics []Diagnostic
	Counts      map[Kind]int
}

func (r *Report) add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	r.Counts[d.Kind]++
}

// Skipped is the number of files that produced no record.
func (r *Report) Skipped() int {
	return len(r.Results) - len(r.Records)
}

// Runner holds the collaborators of a batch run.
type Runner struct {
	Decoder    parser.Decoder
	Normalizer Normalizer
	Logger     *log.Logger
	Workers    int // <= 0 means 1
}

// RunDir runs every record file in dir.
func (r *Runner) RunDir(ctx context.Context, dir string) (*Report, error) {
	files, err := parser.ListRecords(dir)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, files)
}

// Run processes files concurrently and folds the results in sorted file-name
// order, so the report does not depend on completion order. Per-file failures
// are diagnostics; only cancellation fails the run.
func (r *Runner) Run(ctx context.Context, files []string) (*Report, error) {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	workers := r.Workers
	if workers <= 0 {
		workers = 1
	}

	files = append([]string(nil), files...)
	sort.Strings(files)

	rep := &Report{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
		Results:   make([]Result, len(files)),
		Counts:    make(map[Kind]int),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rep.Results[i] = r.process(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}

	seen := make(map[string]string) // hash -> first file
	for _, res := range rep.Results {
		if res.Err != nil {
			d := Diagnostic{Kind: classify(res.Err), File: res.File, Message: res.Err.Error()}
			var me *normalizer.UnrecognizedMapError
			if errors.As(res.Err, &me) && me.Record != nil {
				p0, p1 := me.Record.Players[0], me.Record.Players[1]
				logger.Warn("map not recognized", "file", res.File, "map", me.Title, "slot", me.Record.Slot,
					"team1", p0.Team, "player1", p0.Name, "race1", p0.Race,
					"team2", p1.Team, "player2", p1.Name, "race2", p1.Race)
			} else {
				logger.Warn("record skipped", "file", res.File, "kind", d.Kind, "err", res.Err)
			}
			rep.add(d)
			continue
		}
		rec := res.Record
		if first, ok := seen[rec.Hash]; ok {
			logger.Debug("duplicate record", "file", res.File, "first", first)
			rep.add(Diagnostic{Kind: KindDuplicate, File: res.File, Message: "same content as " + first})
			continue
		}
		seen[rec.Hash] = res.File

		if rec.HasUnknownTeam() {
			logger.Warn("team not known", "file", res.File, "slot", rec.Slot,
				"player1", rec.Players[0].Name, "team1", rec.Players[0].Team,
				"player2", rec.Players[1].Name, "team2", rec.Players[1].Team)
			rep.add(Diagnostic{Kind: KindUnknownTeam, File: res.File, Message: unknownTeamMessage(rec)})
		}
		rep.Records = append(rep.Records, rec)
		rep.Counts[KindProcessed]++
	}

	logger.Info("batch done", "run", rep.RunID, "files", len(files), "records", len(rep.Records), "skipped", rep.Skipped())
	return rep, nil
}

func (r *Runner) process(path string) Result {
	raw, err := r.Decoder.Decode(path)
	if err != nil {
		return Result{File: fileName(path, err), Err: err}
	}
	rec, err := r.Normalizer.Normalize(raw)
	if err != nil {
		return Result{File: raw.File, Err: err}
	}
	return Result{File: raw.File, Record: rec}
}

func fileName(path string, err error) string {
	var de *parser.DecodeError
	if errors.As(err, &de) {
		return de.File
	}
	return path
}

func classify(err error) Kind {
	var (
		me *normalizer.UnrecognizedMapError
		re *normalizer.UnknownRaceError
	)
	switch {
	case errors.As(err, &me):
		return KindUnrecognizedMap
	case errors.As(err, &re):
		return KindUnknownRace
	default:
		return KindUndecodable
	}
}

func unknownTeamMessage(rec model.MatchRecord) string {
	var names []string
	for _, p := range rec.Players {
		if !p.Team.IsKnown() {
			names = append(names, p.Name)
		}
	}
	if len(names) == 1 {
		return fmt.Sprintf("%s: team of %s not known", rec.Slot, names[0])
	}
	return fmt.Sprintf("%s: teams of %s and %s not known", rec.Slot, names[0], names[1])
}
