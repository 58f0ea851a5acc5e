package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pable/go-league-stats/internal/normalizer"
	"github.com/pable/go-league-stats/internal/schedule"
)

// StartLayout is the layout of the season start, read as UTC.
const StartLayout = "2006-01-02 15:04"

// Season is the static description of one league season.
type Season struct {
	Name       string `yaml:"name"`
	Start      string `yaml:"start"`
	SlotCount  int    `yaml:"slot_count"`
	StrideDays int    `yaml:"stride_days"`
	// Maps and Races replace the built-in tables when set. Map keys are
	// matched after punctuation stripping, so they may be written naturally.
	Maps         map[string]string `yaml:"maps"`
	Races        map[string]string `yaml:"races"`
	MMROverrides map[string]int    `yaml:"mmr_overrides"`
}

// ReferenceSeason is used when no season file is configured.
func ReferenceSeason() *Season {
	return &Season{
		Name:       "reference",
		Start:      schedule.ReferenceStart.Format(StartLayout),
		SlotCount:  len(schedule.Reference().Anchors()),
		StrideDays: 7,
	}
}

// LoadSeason decodes the season file at path. An empty path yields the
// reference season. Missing fields take the reference values.
func LoadSeason(path string) (*Season, error) {
	if path == "" {
		return ReferenceSeason(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read season file: %w", err)
	}
	s, err := ParseSeason(data)
	if err != nil {
		return nil, fmt.Errorf("season file %s: %w", path, err)
	}
	return s, nil
}

// ParseSeason decodes a season document.
func ParseSeason(data []byte) (*Season, error) {
	s := ReferenceSeason()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("decode season: %w", err)
	}
	if _, err := s.Calendar(); err != nil {
		return nil, err
	}
	for raw, code := range s.Races {
		if len(code) != 1 {
			return nil, fmt.Errorf("race %q: code %q must be one letter", raw, code)
		}
	}
	return s, nil
}

// Calendar builds the anchor calendar.
func (s *Season) Calendar() (*schedule.Calendar, error) {
	start, err := time.ParseInLocation(StartLayout, s.Start, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("season start %q: %w", s.Start, err)
	}
	if s.StrideDays < 1 {
		return nil, errors.New("stride_days must be at least 1")
	}
	return schedule.NewCalendar(start, time.Duration(s.StrideDays)*24*time.Hour, s.SlotCount)
}

// Tables returns the race and map tables for the normalizer.
func (s *Season) Tables() normalizer.Tables {
	var t normalizer.Tables
	if len(s.Races) > 0 {
		t.Races = s.Races
	}
	if len(s.Maps) > 0 {
		t.Maps = make(map[string]string, len(s.Maps))
		for title, canonical := range s.Maps {
			t.Maps[strings.TrimSpace(normalizer.StripPunctuation(title))] = canonical
		}
	}
	return t
}
