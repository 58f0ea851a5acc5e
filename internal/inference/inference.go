// Package inference proposes teams for players the roster cannot place, using
// who each team played within a schedule slot. It never edits the roster.
package inference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pable/go-league-stats/internal/model"
)

// TeamResolver looks up a player's team.
type TeamResolver interface {
	TeamOf(name string) model.Team
}

// Suggestion proposes that Player belongs to Team.
type Suggestion struct {
	Slot     string
	Player   string
	Team     string
	Evidence string
}

// Kind classifies a contradiction.
type Kind string

const (
	// KindMultipleOpponents: a team faced players of two or more known teams in one slot.
	KindMultipleOpponents Kind = "multiple-opponent-teams"
	// KindConflictingSuggestion: one player was suggested for different teams.
	KindConflictingSuggestion Kind = "conflicting-suggestion"
)

// Contradiction is a data-integrity finding that needs human review.
type Contradiction struct {
	Kind   Kind
	Slot   string
	Team   string   // the team whose schedule is inconsistent
	Player string   // set for KindConflictingSuggestion
	Teams  []string // opposing or suggested teams, sorted
}

func (c Contradiction) String() string {
	switch c.Kind {
	case KindConflictingSuggestion:
		return fmt.Sprintf("%s was suggested for several teams: %s", c.Player, strings.Join(c.Teams, ", "))
	default:
		return fmt.Sprintf("%s faced more than one team in %s: %s", c.Team, c.Slot, strings.Join(c.Teams, ", "))
	}
}

// Result is the advisory output of Infer.
type Result struct {
	Suggestions    []Suggestion
	Contradictions []Contradiction
}

// Graph records, for one slot, the opponents each team's players faced.
type Graph struct {
	Slot  string
	faced map[string]map[string]int // team -> opponent -> times faced
}

// NewGraph returns an empty matchup graph for slot.
func NewGraph(slot string) *Graph {
	return &Graph{Slot: slot, faced: make(map[string]map[string]int)}
}

// Add records both directions of one match. Unknown teams are not recorded
// as a facing side.
func (g *Graph) Add(rec model.MatchRecord) {
	g.face(rec.Players[0].Team, rec.Players[1].Name)
	g.face(rec.Players[1].Team, rec.Players[0].Name)
}

func (g *Graph) face(team model.Team, opponent string) {
	name, ok := team.Name()
	if !ok {
		return
	}
	if g.faced[name] == nil {
		g.faced[name] = make(map[string]int)
	}
	g.faced[name][opponent]++
}

// Teams returns the known teams in the graph, sorted.
func (g *Graph) Teams() []string {
	out := make([]string, 0, len(g.faced))
	for t := range g.faced {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Opponents returns the distinct opponents team faced, sorted.
func (g *Graph) Opponents(team string) []string {
	out := make([]string, 0, len(g.faced[team]))
	for o := range g.faced[team] {
		out = append(out, o)
	}
	return model.SortPlayerNames(out)
}

// Times returns how often team faced opponent.
func (g *Graph) Times(team, opponent string) int {
	return g.faced[team][opponent]
}

// Infer groups records by slot (first appearance order), builds each slot's
// graph and evaluates every known team in it.
func Infer(records []model.MatchRecord, resolver TeamResolver) Result {
	var slots []string
	graphs := make(map[string]*Graph)
	for _, rec := range records {
		g, ok := graphs[rec.Slot]
		if !ok {
			g = NewGraph(rec.Slot)
			graphs[rec.Slot] = g
			slots = append(slots, rec.Slot)
		}
		g.Add(rec)
	}

	var res Result
	for _, slot := range slots {
		s, c := InferSlot(graphs[slot], resolver)
		res.Suggestions = append(res.Suggestions, s...)
		res.Contradictions = append(res.Contradictions, c...)
	}
	res.Contradictions = append(res.Contradictions, conflicting(res.Suggestions)...)
	return res
}

// InferSlot evaluates one slot's graph.
func InferSlot(g *Graph, resolver TeamResolver) ([]Suggestion, []Contradiction) {
	var (
		suggestions    []Suggestion
		contradictions []Contradiction
	)
	for _, team := range g.Teams() {
		knownTeams := make(map[string]struct{})
		var unknown []string
		for _, opp := range g.Opponents(team) {
			if t, ok := resolver.TeamOf(opp).Name(); ok {
				knownTeams[t] = struct{}{}
			} else {
				unknown = append(unknown, opp)
			}
		}

		switch {
		case len(knownTeams) >= 2:
			contradictions = append(contradictions, Contradiction{
				Kind:  KindMultipleOpponents,
				Slot:  g.Slot,
				Team:  team,
				Teams: sortedKeys(knownTeams),
			})
		case len(knownTeams) == 1 && len(unknown) > 0:
			opponentTeam := sortedKeys(knownTeams)[0]
			for _, player := range unknown {
				suggestions = append(suggestions, Suggestion{
					Slot:     g.Slot,
					Player:   player,
					Team:     opponentTeam,
					Evidence: fmt.Sprintf("%s faced %s in slot %s", team, opponentTeam, g.Slot),
				})
			}
		}
	}
	return suggestions, contradictions
}

func conflicting(suggestions []Suggestion) []Contradiction {
	byPlayer := make(map[string]map[string]struct{})
	var order []string
	for _, s := range suggestions {
		if byPlayer[s.Player] == nil {
			byPlayer[s.Player] = make(map[string]struct{})
			order = append(order, s.Player)
		}
		byPlayer[s.Player][s.Team] = struct{}{}
	}
	var out []Contradiction
	for _, p := range order {
		if len(byPlayer[p]) > 1 {
			out = append(out, Contradiction{
				Kind:   KindConflictingSuggestion,
				Player: p,
				Teams:  sortedKeys(byPlayer[p]),
			})
		}
	}
	return out
}

// Unique collapses suggestions to one per (player, team), keeping the first
// evidence seen.
func Unique(suggestions []Suggestion) []Suggestion {
	seen := make(map[[2]string]bool)
	var out []Suggestion
	for _, s := range suggestions {
		k := [2]string{s.Player, s.Team}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s)
	}
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
