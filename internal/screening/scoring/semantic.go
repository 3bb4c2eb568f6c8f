package scoring

import (
	"context"
	"fmt"
	"math"

	"namescreen/internal/screening/models"
	"namescreen/internal/screening/ports"
)

// SemanticScorer embeds both names and returns their cosine similarity.
type SemanticScorer struct {
	model     ports.EmbeddingModel
	exclusive bool
}

type SemanticOption func(*SemanticScorer)

// WithExclusiveEmbedding marks the model as unsafe for concurrent calls.
func WithExclusiveEmbedding() SemanticOption {
	return func(s *SemanticScorer) { s.exclusive = true }
}

func NewSemanticScorer(model ports.EmbeddingModel, opts ...SemanticOption) *SemanticScorer {
	s := &SemanticScorer{model: model}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (*SemanticScorer) Name() string { return string(StrategySemantic) }

func (*SemanticScorer) Range() models.ScoreRange { return SemanticRange }

func (s *SemanticScorer) Exclusive() bool { return s.exclusive }

func (s *SemanticScorer) Load(ctx context.Context) error { return s.model.Load(ctx) }

func (s *SemanticScorer) Close() error { return s.model.Close() }

func (s *SemanticScorer) Score(ctx context.Context, query, candidate string) (float64, error) {
	qv, err := s.model.Embed(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("embed query: %w", err)
	}
	cv, err := s.model.Embed(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("embed candidate: %w", err)
	}
	if len(qv) != len(cv) {
		return 0, fmt.Errorf("embedding dimensions differ: %d vs %d", len(qv), len(cv))
	}
	return CosineSimilarity(qv, cv), nil
}

// CosineSimilarity returns the cosine of the angle between a and b, clamped to
// [-1, 1]. Mismatched, empty or zero vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, dot/(math.Sqrt(magA)*math.Sqrt(magB))))
}
