// Package metrics records per-run counters in a private Prometheus registry
// and writes them as a node-exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pable/go-league-stats/internal/inference"
	"github.com/pable/go-league-stats/internal/pipeline"
)

// Service holds the metrics of one command invocation.
type Service struct {
	Registry *prometheus.Registry

	Records        *prometheus.CounterVec
	RunDuration    prometheus.Gauge
	LastRun        prometheus.Gauge
	Stored         prometheus.Counter
	Players        prometheus.Gauge
	Suggestions    prometheus.Counter
	Contradictions *prometheus.CounterVec
}

// NewService creates the metrics and registers them on a fresh registry, so
// repeated runs in one process never share counters.
func NewService() *Service {
	s := &Service{
		Registry: prometheus.NewRegistry(),
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_records_total",
			Help: "Record files seen by the last run, by outcome.",
		}, []string{"kind"}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_run_duration_seconds",
			Help: "Wall time of the last batch run.",
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_last_run_timestamp_seconds",
			Help: "Unix time the last batch run started.",
		}),
		Stored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_matches_stored_total",
			Help: "Matches newly written to the ledger.",
		}),
		Players: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "league_players",
			Help: "Players in the last compiled report.",
		}),
		Suggestions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "league_team_suggestions_total",
			Help: "Team suggestions produced by inference.",
		}),
		Contradictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "league_contradictions_total",
			Help: "Inference contradictions, by kind.",
		}, []string{"kind"}),
	}
	s.Registry.MustRegister(
		s.Records,
		s.RunDuration,
		s.LastRun,
		s.Stored,
		s.Players,
		s.Suggestions,
		s.Contradictions,
	)
	return s
}

// ObserveRun records the diagnostic tallies of a batch run.
func (s *Service) ObserveRun(rep *pipeline.Report, took time.Duration) {
	for _, k := range pipeline.Kinds {
		s.Records.WithLabelValues(string(k)).Add(float64(rep.Counts[k]))
	}
	s.RunDuration.Set(took.Seconds())
	s.LastRun.Set(float64(rep.StartedAt.Unix()))
}

// ObserveInference records inference output.
func (s *Service) ObserveInference(res inference.Result) {
	s.Suggestions.Add(float64(len(res.Suggestions)))
	for _, c := range res.Contradictions {
		s.Contradictions.WithLabelValues(string(c.Kind)).Inc()
	}
}

// AddStored counts matches written to the ledger.
func (s *Service) AddStored(n int) {
	s.Stored.Add(float64(n))
}

// SetPlayers records the size of the compiled report.
func (s *Service) SetPlayers(n int) {
	s.Players.Set(float64(n))
}

// WriteTextfile writes every metric to path atomically.
func (s *Service) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, s.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
