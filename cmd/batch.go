package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pable/go-league-stats/internal/config"
	"github.com/pable/go-league-stats/internal/metrics"
	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/normalizer"
	"github.com/pable/go-league-stats/internal/parser"
	"github.com/pable/go-league-stats/internal/pipeline"
	"github.com/pable/go-league-stats/internal/roster"
	"github.com/pable/go-league-stats/internal/storage"
)

// league bundles the static inputs every command needs.
type league struct {
	roster *roster.Roster
	season *config.Season
}

// loadLeague loads the roster and season. A missing roster is fatal and is
// reported before any record is touched.
func loadLeague() (*league, error) {
	r, err := roster.LoadFile(rosterPath)
	if err != nil {
		return nil, err
	}
	s, err := config.LoadSeason(seasonPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("league loaded", "players", len(r.Players()), "season", s.Name, "slots", s.SlotCount)
	return &league{roster: r, season: s}, nil
}

// runBatch decodes and normalizes every record in dir.
func (l *league) runBatch(ctx context.Context, dir string, svc *metrics.Service) (*pipeline.Report, error) {
	cal, err := l.season.Calendar()
	if err != nil {
		return nil, err
	}
	runner := &pipeline.Runner{
		Decoder:    parser.FileDecoder{},
		Normalizer: normalizer.New(l.roster, cal, l.season.Tables()),
		Logger:     logger,
		Workers:    workers,
	}

	start := time.Now()
	rep, err := runner.RunDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	svc.ObserveRun(rep, time.Since(start))
	return rep, nil
}

// loadRecords returns the matches of a records directory when one is given,
// otherwise every match in the ledger.
func (l *league) loadRecords(ctx context.Context, args []string, svc *metrics.Service) ([]model.MatchRecord, error) {
	if len(args) > 0 {
		rep, err := l.runBatch(ctx, args[0], svc)
		if err != nil {
			return nil, err
		}
		printRunSummary(os.Stderr, rep)
		return rep.Records, nil
	}

	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	return l.ledgerRecords(db)
}

// ledgerRecords returns every stored match with names and teams resolved
// against the current roster, so roster edits apply without re-ingesting.
func (l *league) ledgerRecords(db *storage.DB) ([]model.MatchRecord, error) {
	records, err := db.ListMatches()
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	normalizer.ReresolveAll(records, l.roster)
	return records, nil
}

// ingestResult is what one ingest added to the ledger.
type ingestResult struct {
	Report *pipeline.Report
	Run    model.RunSummary
	Known  int // records whose hash was already stored
}

// ingest runs the batch in dir and stores the run, its new matches and its
// diagnostics.
func (l *league) ingest(ctx context.Context, db *storage.DB, dir string, svc *metrics.Service) (*ingestResult, error) {
	rep, err := l.runBatch(ctx, dir, svc)
	if err != nil {
		return nil, fmt.Errorf("run batch: %w", err)
	}

	res := &ingestResult{Report: rep, Run: model.RunSummary{
		ID:         rep.RunID.String(),
		StartedAt:  rep.StartedAt,
		RecordsDir: dir,
		Processed:  len(rep.Results),
		Skipped:    rep.Skipped(),
	}}
	if err := db.InsertRun(res.Run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	fresh := make([]model.MatchRecord, 0, len(rep.Records))
	for _, rec := range rep.Records {
		exists, err := db.MatchExists(rec.Hash)
		if err != nil {
			return nil, fmt.Errorf("check match %s: %w", rec.File, err)
		}
		if exists {
			logger.Debug("already in ledger", "file", rec.File, "hash", rec.Hash)
			res.Known++
			continue
		}
		fresh = append(fresh, rec)
	}
	stored, err := db.InsertMatches(res.Run.ID, fresh)
	if err != nil {
		return nil, fmt.Errorf("insert matches: %w", err)
	}
	svc.AddStored(stored)

	diags := make([]storage.DiagnosticRow, len(rep.Diagnostics))
	for i, d := range rep.Diagnostics {
		diags[i] = storage.DiagnosticRow{RunID: res.Run.ID, Kind: string(d.Kind), File: d.File, Message: d.Message}
	}
	if err := db.InsertDiagnostics(diags); err != nil {
		return nil, fmt.Errorf("insert diagnostics: %w", err)
	}
	res.Run.Stored = stored
	if err := db.InsertRun(res.Run); err != nil {
		return nil, fmt.Errorf("update run: %w", err)
	}
	return res, nil
}

// openLedger opens the ledger, creating its directory first.
func openLedger() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

// flushMetrics writes the metrics textfile when one is configured.
func flushMetrics(svc *metrics.Service) {
	if metricsFile == "" {
		return
	}
	if err := svc.WriteTextfile(metricsFile); err != nil {
		logger.Warn("metrics not written", "file", metricsFile, "err", err)
	}
}
