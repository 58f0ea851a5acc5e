// Package normalizer turns decoded match records into canonical MatchRecords.
package normalizer

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/pable/go-league-stats/internal/model"
	"github.com/pable/go-league-stats/internal/schedule"
)

// TagTerminator ends a clan tag in a display name, e.g. "&lt;TAG&gt;<sp/>Name".
const TagTerminator = ">"

// Resolver is the identity lookup the normalizer needs.
type Resolver interface {
	Resolve(raw string) string
	TeamOf(name string) model.Team
}

// UnrecognizedMapError is returned for map titles outside the map table.
// When raised by Normalize, Record carries every other normalized field.
type UnrecognizedMapError struct {
	Title  string // after punctuation stripping
	Record *model.MatchRecord
}

func (e *UnrecognizedMapError) Error() string {
	if e.Record == nil {
		return fmt.Sprintf("map name %q not recognized", e.Title)
	}
	return fmt.Sprintf("map name %q not recognized in %s", e.Title, e.Record.Matchup())
}

// UnknownRaceError is returned for race names outside the race table.
type UnknownRaceError struct {
	Race string
}

func (e *UnknownRaceError) Error() string {
	return fmt.Sprintf("race %q not recognized", e.Race)
}

// Normalizer is stateless apart from read-only tables; safe for concurrent use.
type Normalizer struct {
	resolver Resolver
	calendar *schedule.Calendar
	races    map[string]string
	maps     map[string]string
}

// New returns a Normalizer. Nil tables fall back to the defaults.
func New(resolver Resolver, calendar *schedule.Calendar, tables Tables) *Normalizer {
	if tables.Races == nil {
		tables.Races = DefaultRaces()
	}
	if tables.Maps == nil {
		tables.Maps = DefaultMaps()
	}
	races := make(map[string]string, len(tables.Races))
	for k, v := range tables.Races {
		races[strings.ToLower(k)] = v
	}
	return &Normalizer{
		resolver: resolver,
		calendar: calendar,
		races:    races,
		maps:     tables.Maps,
	}
}

// Normalize converts one decoded record. It never mutates raw.
func (n *Normalizer) Normalize(raw *model.RawRecord) (model.MatchRecord, error) {
	if len(raw.Players) != 2 {
		return model.MatchRecord{}, fmt.Errorf("expected 2 players, got %d", len(raw.Players))
	}

	rec := model.MatchRecord{
		Hash:     raw.Hash,
		File:     raw.File,
		PlayedAt: schedule.FromRaw(raw.TimeUTC),
		Duration: raw.Duration(),
	}
	rec.Slot = n.calendar.Classify(rec.PlayedAt)

	for i, p := range raw.Players {
		meta := raw.Meta(i)

		raceName := meta.SelectedRace
		if raceName == "" {
			raceName = p.Race
		}
		race, err := n.Race(raceName)
		if err != nil {
			return model.MatchRecord{}, err
		}

		name := n.resolver.Resolve(StripTag(p.Name))
		rec.Players[i] = model.Participant{
			Name: name,
			Team: n.resolver.TeamOf(name),
			Race: race,
			Won:  won(p.Result, meta.Result),
			MMR:  meta.MMR,
			APM:  meta.APM,
		}
	}
	rec.Canonicalize()

	mapName, err := n.MapName(raw.Title)
	if err != nil {
		var me *UnrecognizedMapError
		if errors.As(err, &me) {
			me.Record = &rec
		}
		return model.MatchRecord{}, err
	}
	rec.Map = mapName
	return rec, nil
}

// Reresolve re-applies identity resolution to a stored record, so that
// roster edits made after ingest take effect. Ordering is recomputed.
func Reresolve(rec model.MatchRecord, resolver Resolver) model.MatchRecord {
	for i := range rec.Players {
		p := &rec.Players[i]
		p.Name = resolver.Resolve(p.Name)
		p.Team = resolver.TeamOf(p.Name)
	}
	rec.Canonicalize()
	return rec
}

// ReresolveAll applies Reresolve to every record in place.
func ReresolveAll(records []model.MatchRecord, resolver Resolver) {
	for i := range records {
		records[i] = Reresolve(records[i], resolver)
	}
}

// MapName strips ASCII punctuation from title and looks it up. Titles not in
// the table pass through only when they are plain ASCII letters, digits and
// spaces.
func (n *Normalizer) MapName(title string) (string, error) {
	stripped := strings.TrimSpace(StripPunctuation(title))
	if canonical, ok := n.maps[stripped]; ok {
		return canonical, nil
	}
	if stripped != "" && isPlainAlphanumeric(stripped) {
		return stripped, nil
	}
	return "", &UnrecognizedMapError{Title: stripped}
}

// Race maps a race name to its one-letter code.
func (n *Normalizer) Race(name string) (string, error) {
	if code, ok := n.races[strings.ToLower(strings.TrimSpace(name))]; ok {
		return code, nil
	}
	return "", &UnknownRaceError{Race: name}
}

// StripTag drops everything up to and including the last tag terminator.
func StripTag(name string) string {
	if i := strings.LastIndex(name, TagTerminator); i >= 0 {
		return name[i+len(TagTerminator):]
	}
	return name
}

// StripPunctuation removes ASCII punctuation, leaving other runes untouched.
func StripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsPunct(r) || strings.ContainsRune("$+<=>^`|~", r) {
			return -1
		}
		return r
	}, s)
}

func isPlainAlphanumeric(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ') {
			return false
		}
	}
	return true
}

// won prefers the metadata result code and falls back to the numeric result.
func won(result int, code string) bool {
	switch c := strings.ToUpper(strings.TrimSpace(code)); {
	case strings.HasPrefix(c, "W"):
		return true
	case strings.HasPrefix(c, "L"):
		return false
	}
	return result == 1
}
