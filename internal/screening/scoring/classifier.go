package scoring

import (
	"context"
	"fmt"
	"math"

	"namescreen/internal/screening/models"
	"namescreen/internal/screening/ports"
)

// ClassifierScorer returns the match probability of a pairwise classifier.
type ClassifierScorer struct {
	model     ports.ClassifierModel
	exclusive bool
}

type ClassifierOption func(*ClassifierScorer)

// WithExclusiveInference marks the model as unsafe for concurrent calls.
func WithExclusiveInference() ClassifierOption {
	return func(s *ClassifierScorer) { s.exclusive = true }
}

func NewClassifierScorer(model ports.ClassifierModel, opts ...ClassifierOption) *ClassifierScorer {
	s := &ClassifierScorer{model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (*ClassifierScorer) Name() string { return string(StrategyClassifier) }

func (*ClassifierScorer) Range() models.ScoreRange { return ClassifierRange }

func (s *ClassifierScorer) Exclusive() bool { return s.exclusive }

func (s *ClassifierScorer) Load(ctx context.Context) error { return s.model.Load(ctx) }

func (s *ClassifierScorer) Close() error { return s.model.Close() }

func (s *ClassifierScorer) Score(ctx context.Context, query, candidate string) (float64, error) {
	logits, err := s.model.Infer(ctx, query, candidate)
	if err != nil {
		return 0, fmt.Errorf("classifier inference: %w", err)
	}
	p := MatchProbability(logits)
	if math.IsNaN(p) {
		return 0, fmt.Errorf("classifier returned non-finite logits %v", logits)
	}
	return p, nil
}

// MatchProbability is softmax(logits)[1], computed stably.
func MatchProbability(logits [2]float64) float64 {
	m := math.Max(logits[0], logits[1])
	e0 := math.Exp(logits[0] - m)
	e1 := math.Exp(logits[1] - m)
	return e1 / (e0 + e1)
}
