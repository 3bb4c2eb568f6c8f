package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the screening pipeline. All methods are
// safe on a nil receiver so tests can run without a registry.
type Metrics struct {
	// End-to-end screening latency
	ScreenLatency prometheus.Histogram

	// Screening outcomes by status and failing stage
	Outcome *prometheus.CounterVec

	// Candidate set size per request
	Candidates prometheus.Histogram

	// Candidates skipped after a scoring error
	Skipped *prometheus.CounterVec

	// Per-candidate inference latency by scorer and status
	ScoringLatency *prometheus.HistogramVec

	// Registry records dropped for bucket key mismatches
	IntegrityViolations *prometheus.CounterVec

	// Candidates dropped by the per-request cap
	Truncated prometheus.Counter
}

// New creates a Metrics instance registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScreenLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "namescreen_screen_duration_seconds",
			Help:    "Duration of a full screening request",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),

		Outcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namescreen_screen_outcomes_total",
			Help: "Screening outcomes by status and stage",
		}, []string{"status", "stage"}), // status: "match", "clear", "failed"

		Candidates: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "namescreen_candidates_per_request",
			Help:    "Number of candidates retrieved for one request",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),

		Skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namescreen_candidates_skipped_total",
			Help: "Candidates skipped after a scoring error",
		}, []string{"scorer"}),

		ScoringLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "namescreen_scoring_duration_seconds",
			Help:    "Duration of one candidate score",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}, []string{"scorer", "status"}),

		IntegrityViolations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "namescreen_registry_integrity_violations_total",
			Help: "Registry records whose stored bucket key does not match their tokens",
		}, []string{"record_type"}),

		Truncated: factory.NewCounter(prometheus.CounterOpts{
			Name: "namescreen_candidates_truncated_total",
			Help: "Candidates not scored because the request cap was reached",
		}),
	}
}

func (m *Metrics) ObserveScreenLatency(d time.Duration) {
	if m != nil {
		m.ScreenLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementOutcome(status, stage string) {
	if m != nil {
		m.Outcome.WithLabelValues(status, stage).Inc()
	}
}

func (m *Metrics) ObserveCandidates(n int) {
	if m != nil {
		m.Candidates.Observe(float64(n))
	}
}

func (m *Metrics) AddSkipped(scorer string, n int) {
	if m != nil && n > 0 {
		m.Skipped.WithLabelValues(scorer).Add(float64(n))
	}
}

func (m *Metrics) AddTruncated(n int) {
	if m != nil && n > 0 {
		m.Truncated.Add(float64(n))
	}
}

// ObserveCandidate implements scoring.Observer.
func (m *Metrics) ObserveCandidate(scorer, status string, d time.Duration) {
	if m != nil {
		m.ScoringLatency.WithLabelValues(scorer, status).Observe(d.Seconds())
	}
}

// IncrementIntegrityViolation implements retrieval.IntegrityRecorder.
func (m *Metrics) IncrementIntegrityViolation(recordType string) {
	if m != nil {
		m.IntegrityViolations.WithLabelValues(recordType).Inc()
	}
}
