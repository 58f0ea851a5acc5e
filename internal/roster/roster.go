// Package roster resolves player aliases to canonical names and teams.
package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pable/go-league-stats/internal/model"
)

// AliasSeparator splits one roster cell into aliases of the same player.
const AliasSeparator = "="

// ErrEmpty is returned when a roster has no players at all.
var ErrEmpty = errors.New("roster has no players")

// Roster maps lowercase aliases to canonical names and canonical names to teams.
// It is read-only after Load and safe for concurrent use.
type Roster struct {
	canonical map[string]string // alias -> canonical name
	teams     map[string]string // alias -> team name
	players   []string          // canonical names in declaration order
}

// LoadFile opens and parses the roster CSV at path.
func LoadFile(path string) (*Roster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open roster: %w", err)
	}
	defer f.Close()
	r, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load roster %s: %w", path, err)
	}
	return r, nil
}

// Load parses a roster table: column 0 is the team, every further cell is one
// player given as one or more '='-separated aliases. The first alias is the
// canonical name. When two players share an alias the later row wins.
func Load(r io.Reader) (*Roster, error) {
	cr := csv.NewReader(stripBOM(r))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	ros := &Roster{
		canonical: make(map[string]string),
		teams:     make(map[string]string),
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		if len(row) == 0 {
			continue
		}
		team := strings.TrimSpace(row[0])
		if team == "" {
			continue
		}
		for _, cell := range row[1:] {
			ros.addPlayer(team, cell)
		}
	}
	if len(ros.players) == 0 {
		return nil, ErrEmpty
	}
	return ros, nil
}

func (r *Roster) addPlayer(team, cell string) {
	var aliases []string
	for _, a := range strings.Split(cell, AliasSeparator) {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	if len(aliases) == 0 {
		return
	}
	main := aliases[0]
	for _, a := range aliases {
		key := strings.ToLower(a)
		r.canonical[key] = main
		r.teams[key] = team
	}
	r.players = append(r.players, main)
}

// Resolve returns the canonical name for raw, or raw itself when unknown.
func (r *Roster) Resolve(raw string) string {
	if c, ok := r.canonical[strings.ToLower(raw)]; ok {
		return c
	}
	return raw
}

// TeamOf returns the team of a player, or model.UnknownTeam.
func (r *Roster) TeamOf(name string) model.Team {
	if t, ok := r.teams[strings.ToLower(name)]; ok {
		return model.KnownTeam(t)
	}
	return model.UnknownTeam
}

// Known reports whether name is any alias in the roster.
func (r *Roster) Known(name string) bool {
	_, ok := r.canonical[strings.ToLower(name)]
	return ok
}

// Players returns canonical names in declaration order.
func (r *Roster) Players() []string {
	return append([]string(nil), r.players...)
}

// stripBOM drops a leading UTF-8 byte-order mark, which spreadsheet exports add.
func stripBOM(r io.Reader) io.Reader {
	buf := make([]byte, 3)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return io.MultiReader(strings.NewReader(string(buf[:n])), r)
	}
	if buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF {
		return r
	}
	return io.MultiReader(strings.NewReader(string(buf)), r)
}
