// Package scoring computes comparability scores between a query name and its
// candidates. Exactly one Scorer is active per process; the Engine owns it,
// loads its model once and dispatches candidates to a bounded worker pool.
package scoring

import (
	"context"

	"namescreen/internal/screening/models"
)

// Strategy names the configured scorer variant.
type Strategy string

const (
	StrategyLexical    Strategy = "lexical"
	StrategySemantic   Strategy = "semantic"
	StrategyClassifier Strategy = "classifier"
)

// Scorer compares two full names and returns a score inside Range().
type Scorer interface {
	Name() string
	Range() models.ScoreRange
	Score(ctx context.Context, query, candidate string) (float64, error)
}

// Lifecycle is implemented by scorers wrapping a model that must be loaded
// before first use and released at shutdown.
type Lifecycle interface {
	Load(ctx context.Context) error
	Close() error
}

// Exclusive is implemented by scorers whose backend must not be invoked
// concurrently. The engine runs them behind a single worker.
type Exclusive interface {
	Exclusive() bool
}

var (
	LexicalRange    = models.ScoreRange{Min: 0, Max: 100, Baseline: 0, Integer: true}
	SemanticRange   = models.ScoreRange{Min: -1, Max: 1, Baseline: 0}
	ClassifierRange = models.ScoreRange{Min: 0, Max: 1, Baseline: 0}
)
