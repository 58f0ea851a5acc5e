package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// UnknownTeamLabel is how an unresolved team is rendered and sorted.
const UnknownTeamLabel = "TEAM_NOT_KNOWN"

// Team is either a known team name or the unknown-team sentinel.
// The zero value is UnknownTeam.
type Team struct {
	name  string
	known bool
}

// UnknownTeam is the team of a participant the roster cannot place.
var UnknownTeam = Team{}

// KnownTeam returns a resolved team. An empty name yields UnknownTeam.
func KnownTeam(name string) Team {
	if name == "" {
		return UnknownTeam
	}
	return Team{name: name, known: true}
}

// Name returns the team name and whether the team is known.
func (t Team) Name() (string, bool) {
	return t.name, t.known
}

func (t Team) IsKnown() bool { return t.known }

func (t Team) String() string {
	if !t.known {
		return UnknownTeamLabel
	}
	return t.name
}

// ---- Decoded input (produced by the external replay decoder) ----

// RawPlayer is one entry of the decoder's player list. Name is the in-game
// display name, possibly carrying a clan tag.
type RawPlayer struct {
	Name   string `json:"name" msgpack:"name"`
	Race   string `json:"race" msgpack:"race"`
	Result int    `json:"result" msgpack:"result"` // 1 = win, 2 = loss
}

// RawMetaPlayer holds the optional per-player metadata block.
type RawMetaPlayer struct {
	MMR          int     `json:"mmr" msgpack:"mmr"`
	APM          float64 `json:"apm" msgpack:"apm"`
	SelectedRace string  `json:"selected_race" msgpack:"selected_race"`
	Result       string  `json:"result" msgpack:"result"` // "Win"/"Loss"
}

// RawMetadata is the optional metadata document attached to a record.
type RawMetadata struct {
	Duration int             `json:"duration" msgpack:"duration"` // seconds
	Players  []RawMetaPlayer `json:"players" msgpack:"players"`
}

// RawRecord is one decoded match file.
type RawRecord struct {
	Hash     string       `json:"-" msgpack:"-"` // content hash, set by the loader
	File     string       `json:"-" msgpack:"-"`
	Players  []RawPlayer  `json:"players" msgpack:"players"`
	TimeUTC  int64        `json:"time_utc" msgpack:"time_utc"` // 100ns ticks since 1601-01-01
	Title    string       `json:"title" msgpack:"title"`
	Metadata *RawMetadata `json:"metadata,omitempty" msgpack:"metadata,omitempty"`
}

// Meta returns the metadata block for player i, or a zero value.
func (r *RawRecord) Meta(i int) RawMetaPlayer {
	if r.Metadata == nil || i >= len(r.Metadata.Players) {
		return RawMetaPlayer{}
	}
	return r.Metadata.Players[i]
}

// Duration returns the match length in seconds, 0 when unknown.
func (r *RawRecord) Duration() int {
	if r.Metadata == nil {
		return 0
	}
	return r.Metadata.Duration
}

// ---- Normalized records ----

// Participant is one side of a normalized match.
type Participant struct {
	Name string // canonical
	Team Team
	Race string // single-letter code
	Won  bool
	MMR  int
	APM  float64
}

// MatchRecord is a normalized two-party outcome.
// Players are ordered by team, then by name (see Canonicalize).
type MatchRecord struct {
	Hash     string
	File     string
	Slot     string
	Map      string
	PlayedAt time.Time
	Duration int // seconds
	Players  [2]Participant
}

// Canonicalize puts the participants into their deterministic order.
func (m *MatchRecord) Canonicalize() {
	a, b := m.Players[0], m.Players[1]
	ka, kb := a.Team.String(), b.Team.String()
	if kb < ka || (kb == ka && strings.ToLower(b.Name) < strings.ToLower(a.Name)) {
		m.Players[0], m.Players[1] = b, a
	}
}

// Key is the human-readable match identity:
// slot-team0-team1-name0-name1-race0-race1-map, spaces replaced with '_'.
func (m *MatchRecord) Key() string {
	p0, p1 := m.Players[0], m.Players[1]
	key := strings.Join([]string{
		m.Slot,
		p0.Team.String(), p1.Team.String(),
		p0.Name, p1.Name,
		p0.Race, p1.Race,
		m.Map,
	}, "-")
	return strings.ReplaceAll(key, " ", "_")
}

// Matchup describes the slot and both sides, e.g.
// "Week1: TeamX Alice (P) vs TEAM_NOT_KNOWN Ghost (Z)".
func (m *MatchRecord) Matchup() string {
	p0, p1 := m.Players[0], m.Players[1]
	return fmt.Sprintf("%s: %s %s (%s) vs %s %s (%s)",
		m.Slot, p0.Team, p0.Name, p0.Race, p1.Team, p1.Name, p1.Race)
}

// HasUnknownTeam reports whether either participant is unresolved.
func (m *MatchRecord) HasUnknownTeam() bool {
	return !m.Players[0].Team.IsKnown() || !m.Players[1].Team.IsKnown()
}

// ---- Aggregated stats ----

// GameOutcome is one game seen from one player's side.
type GameOutcome struct {
	Opponent string
	Race     string
	Win      bool
	MMR      int
	APM      float64
	Duration int
}

// PlayerStats holds one player's season. Derived values are computed on read.
type PlayerStats struct {
	Name  string
	Wins  int
	Games []GameOutcome
}

func (s *PlayerStats) GamesPlayed() int { return len(s.Games) }

func (s *PlayerStats) Losses() int { return len(s.Games) - s.Wins }

// Net is wins minus losses.
func (s *PlayerStats) Net() int { return s.Wins - s.Losses() }

// MMR is the highest rating seen across the player's games.
func (s *PlayerStats) MMR() int {
	best := 0
	for i, g := range s.Games {
		if i == 0 || g.MMR > best {
			best = g.MMR
		}
	}
	return best
}

// Race is the most frequently played race; ties go to the race seen first.
func (s *PlayerStats) Race() string {
	counts := make(map[string]int)
	var order []string
	for _, g := range s.Games {
		if counts[g.Race] == 0 {
			order = append(order, g.Race)
		}
		counts[g.Race]++
	}
	best, bestCount := "", 0
	for _, r := range order {
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}
	return best
}

// APM is the mean actions-per-minute over all games.
func (s *PlayerStats) APM() float64 {
	if len(s.Games) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range s.Games {
		sum += g.APM
	}
	return sum / float64(len(s.Games))
}

// OpponentsBeaten lists opponents of won games in play order (repeats kept).
func (s *PlayerStats) OpponentsBeaten() []string {
	var out []string
	for _, g := range s.Games {
		if g.Win {
			out = append(out, g.Opponent)
		}
	}
	return out
}

// OpponentsLostTo lists opponents of lost games in play order (repeats kept).
func (s *PlayerStats) OpponentsLostTo() []string {
	var out []string
	for _, g := range s.Games {
		if !g.Win {
			out = append(out, g.Opponent)
		}
	}
	return out
}

// SortPlayerNames returns names sorted case-insensitively, then bytewise.
func SortPlayerNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(out[i]), strings.ToLower(out[j])
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}

// ---- Ledger views ----

// SlotSummary is one row of the per-slot ledger overview.
type SlotSummary struct {
	Slot        string
	Matches     int
	Players     int
	UnknownTeam int // matches with at least one unresolved participant
}

// RunSummary describes one stored ingest run.
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	RecordsDir string
	Processed  int
	Stored     int
	Skipped    int
}
