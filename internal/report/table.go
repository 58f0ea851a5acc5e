package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-league-stats/internal/inference"
	"github.com/pable/go-league-stats/internal/model"
)

func newTable(w io.Writer, align tw.Align) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: align}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintSeason prints the season table. Opponent lists are left out to keep
// the terminal view readable; the CSV carries them.
func PrintSeason(w io.Writer, rows []Row) {
	table := newTable(w, tw.AlignRight)
	table.Header("#", "TEAM", "NAME", "W", "L", "NET", "MMR", "RACE", "APM", "BIGGEST_WIN", "BIGGEST_LOSS")
	for i, r := range rows {
		table.Append(
			strconv.Itoa(i+1),
			r.Team,
			r.Name,
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			fmt.Sprintf("%+d", r.Net()),
			strconv.Itoa(r.MMR),
			r.Race,
			strconv.Itoa(r.APM),
			dash(r.BiggestWin),
			dash(r.BiggestLoss),
		)
	}
	table.Render()
}

// PrintMatches prints one line per match: slot, map, both sides and the winner.
func PrintMatches(w io.Writer, records []model.MatchRecord) {
	table := newTable(w, tw.AlignLeft)
	table.Header("HASH", "SLOT", "MAP", "PLAYED", "TEAM_1", "PLAYER_1", "TEAM_2", "PLAYER_2", "WINNER")
	for _, m := range records {
		p0, p1 := m.Players[0], m.Players[1]
		winner := "—"
		switch {
		case p0.Won:
			winner = p0.Name
		case p1.Won:
			winner = p1.Name
		}
		table.Append(
			shortHash(m.Hash),
			m.Slot,
			m.Map,
			m.PlayedAt.Format("2006-01-02 15:04"),
			p0.Team.String(),
			p0.Name+" ("+p0.Race+")",
			p1.Team.String(),
			p1.Name+" ("+p1.Race+")",
			winner,
		)
	}
	table.Render()
}

// PrintClassified prints the file, slot and match key of each record.
func PrintClassified(w io.Writer, records []model.MatchRecord) {
	table := newTable(w, tw.AlignLeft)
	table.Header("FILE", "SLOT", "KEY")
	for _, m := range records {
		table.Append(m.File, m.Slot, m.Key())
	}
	table.Render()
}

// PrintSlotSummary prints the per-slot ledger overview.
func PrintSlotSummary(w io.Writer, slots []model.SlotSummary) {
	table := newTable(w, tw.AlignRight)
	table.Header("SLOT", "MATCHES", "PLAYERS", "UNKNOWN_TEAM")
	for _, s := range slots {
		table.Append(s.Slot, strconv.Itoa(s.Matches), strconv.Itoa(s.Players), strconv.Itoa(s.UnknownTeam))
	}
	table.Render()
}

// PrintRuns prints stored ingest runs, newest first as given.
func PrintRuns(w io.Writer, runs []model.RunSummary) {
	table := newTable(w, tw.AlignLeft)
	table.Header("RUN", "STARTED", "DIR", "PROCESSED", "STORED", "SKIPPED")
	for _, r := range runs {
		table.Append(
			r.ID,
			r.StartedAt.Format("2006-01-02 15:04:05"),
			r.RecordsDir,
			strconv.Itoa(r.Processed),
			strconv.Itoa(r.Stored),
			strconv.Itoa(r.Skipped),
		)
	}
	table.Render()
}

// PrintSuggestions prints the inferred team suggestions.
func PrintSuggestions(w io.Writer, suggestions []inference.Suggestion) {
	table := newTable(w, tw.AlignLeft)
	table.Header("SLOT", "PLAYER", "SUGGESTED_TEAM", "EVIDENCE")
	for _, s := range suggestions {
		table.Append(s.Slot, s.Player, s.Team, s.Evidence)
	}
	table.Render()
}

// PrintContradictions prints inference contradictions for review.
func PrintContradictions(w io.Writer, contradictions []inference.Contradiction) {
	table := newTable(w, tw.AlignLeft)
	table.Header("KIND", "SLOT", "TEAM", "PLAYER", "TEAMS")
	for _, c := range contradictions {
		table.Append(string(c.Kind), dash(c.Slot), dash(c.Team), dash(c.Player), strings.Join(c.Teams, ", "))
	}
	table.Render()
}

// PrintPlayerGames prints every stored game of one player, in play order.
func PrintPlayerGames(w io.Writer, player string, records []model.MatchRecord) {
	table := newTable(w, tw.AlignLeft)
	table.Header("SLOT", "MAP", "RACE", "OPPONENT", "OPP_TEAM", "OPP_RACE", "RESULT", "MMR", "APM")
	for _, m := range records {
		me, opp := m.Players[0], m.Players[1]
		if !strings.EqualFold(me.Name, player) {
			me, opp = opp, me
		}
		result := "L"
		if me.Won {
			result = "W"
		}
		table.Append(
			m.Slot,
			m.Map,
			me.Race,
			opp.Name,
			opp.Team.String(),
			opp.Race,
			result,
			strconv.Itoa(me.MMR),
			strconv.Itoa(int(me.APM)),
		)
	}
	table.Render()
}

// PrintRaw prints an ad-hoc query result. Every cell is right-aligned.
func PrintRaw(w io.Writer, cols []string, rows [][]string) {
	table := newTable(w, tw.AlignRight)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	table.Header(header...)
	for _, row := range rows {
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		table.Append(cells...)
	}
	table.Render()
}

func dash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
