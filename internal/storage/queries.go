package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pable/go-league-stats/internal/model"
)

// DiagnosticRow is one stored pipeline diagnostic.
type DiagnosticRow struct {
	RunID   string
	Kind    string
	File    string
	Message string
}

// timeLayout is fixed-width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const matchColumns = `hash, file, slot, map_name, played_at, duration,
	p1_name, p1_team, p1_race, p1_won, p1_mmr, p1_apm,
	p2_name, p2_team, p2_race, p2_won, p2_mmr, p2_apm`

// MatchExists returns true if a match with the given content hash is stored.
func (db *DB) MatchExists(hash string) (bool, error) {
	var count int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM matches WHERE hash = ?", hash).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// InsertRun records an ingest run. Inserting an existing id updates its
// counters in place, keeping the run's matches and diagnostics attached.
func (db *DB) InsertRun(run model.RunSummary) error {
	_, err := db.conn.Exec(`
		INSERT INTO runs(id, started_at, records_dir, processed, stored, skipped)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			processed = excluded.processed,
			stored    = excluded.stored,
			skipped   = excluded.skipped`,
		run.ID, run.StartedAt.UTC().Format(timeLayout), run.RecordsDir,
		run.Processed, run.Stored, run.Skipped,
	)
	return err
}

// ListRuns returns all runs, newest first.
func (db *DB) ListRuns() ([]model.RunSummary, error) {
	rows, err := db.conn.Query(`
		SELECT id, started_at, records_dir, processed, stored, skipped
		FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.RunSummary
	for rows.Next() {
		var r model.RunSummary
		var started string
		if err := rows.Scan(&r.ID, &started, &r.RecordsDir, &r.Processed, &r.Stored, &r.Skipped); err != nil {
			return nil, err
		}
		if r.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("parse run time: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertMatches stores records in a transaction and returns how many were
// new. Records whose hash is already stored are left untouched.
func (db *DB) InsertMatches(runID string, records []model.MatchRecord) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO matches(` + matchColumns + `, match_key, run_id)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	stored := 0
	for _, m := range records {
		p1, p2 := m.Players[0], m.Players[1]
		res, err := stmt.Exec(
			m.Hash, m.File, m.Slot, m.Map, m.PlayedAt.UTC().Format(timeLayout), m.Duration,
			p1.Name, teamValue(p1.Team), p1.Race, boolInt(p1.Won), p1.MMR, p1.APM,
			p2.Name, teamValue(p2.Team), p2.Race, boolInt(p2.Won), p2.MMR, p2.APM,
			m.Key(), runID,
		)
		if err != nil {
			return 0, fmt.Errorf("insert match %s: %w", m.File, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		stored += int(n)
	}
	return stored, tx.Commit()
}

// ListMatches returns every stored match ordered by play time, then file name.
func (db *DB) ListMatches() ([]model.MatchRecord, error) {
	return db.queryMatches(`SELECT ` + matchColumns + ` FROM matches ORDER BY played_at, file`)
}

func (db *DB) queryMatches(query string, args ...any) ([]model.MatchRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.MatchRecord
	for rows.Next() {
		var (
			m          model.MatchRecord
			played     string
			t1, t2     sql.NullString
			won1, won2 int
		)
		p1, p2 := &m.Players[0], &m.Players[1]
		if err := rows.Scan(&m.Hash, &m.File, &m.Slot, &m.Map, &played, &m.Duration,
			&p1.Name, &t1, &p1.Race, &won1, &p1.MMR, &p1.APM,
			&p2.Name, &t2, &p2.Race, &won2, &p2.MMR, &p2.APM); err != nil {
			return nil, err
		}
		if m.PlayedAt, err = time.Parse(timeLayout, played); err != nil {
			return nil, fmt.Errorf("parse played_at: %w", err)
		}
		p1.Team, p2.Team = parseTeam(t1), parseTeam(t2)
		p1.Won, p2.Won = won1 != 0, won2 != 0
		out = append(out, m)
	}
	return out, rows.Err()
}

// SlotSummaries returns match and player counts per slot, in play order.
func (db *DB) SlotSummaries() ([]model.SlotSummary, error) {
	rows, err := db.conn.Query(`
		SELECT m.slot,
		       COUNT(*),
		       (SELECT COUNT(DISTINCT name) FROM (
		            SELECT p1_name AS name FROM matches WHERE slot = m.slot
		            UNION SELECT p2_name FROM matches WHERE slot = m.slot)),
		       SUM(CASE WHEN m.p1_team IS NULL OR m.p2_team IS NULL THEN 1 ELSE 0 END)
		FROM matches m
		GROUP BY m.slot
		ORDER BY MIN(m.played_at)`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SlotSummary
	for rows.Next() {
		var s model.SlotSummary
		if err := rows.Scan(&s.Slot, &s.Matches, &s.Players, &s.UnknownTeam); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// InsertDiagnostics stores the diagnostics of one run.
func (db *DB) InsertDiagnostics(diags []DiagnosticRow) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT INTO diagnostics(run_id, kind, file, message) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, d := range diags {
		if _, err := stmt.Exec(d.RunID, d.Kind, d.File, d.Message); err != nil {
			return fmt.Errorf("insert diagnostic: %w", err)
		}
	}
	return tx.Commit()
}

// RunDiagnostics returns the diagnostics stored for a run, in insertion order.
func (db *DB) RunDiagnostics(runID string) ([]DiagnosticRow, error) {
	rows, err := db.conn.Query(`
		SELECT run_id, kind, file, message FROM diagnostics WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiagnosticRow
	for rows.Next() {
		var d DiagnosticRow
		if err := rows.Scan(&d.RunID, &d.Kind, &d.File, &d.Message); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and rows as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch v := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(v)
			default:
				row[i] = fmt.Sprint(v)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func teamValue(t model.Team) sql.NullString {
	name, ok := t.Name()
	return sql.NullString{String: name, Valid: ok}
}

func parseTeam(s sql.NullString) model.Team {
	if !s.Valid {
		return model.UnknownTeam
	}
	return model.KnownTeam(s.String)
}
