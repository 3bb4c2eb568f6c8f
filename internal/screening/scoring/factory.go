package scoring

import (
	"fmt"
	"strings"
	"time"

	"namescreen/internal/screening/ports"
)

// Config selects and configures the active scorer.
type Config struct {
	Strategy   string
	Exclusive  bool
	Embedding  EmbeddingConfig
	Classifier ClassifierConfig
}

type EmbeddingConfig struct {
	// Provider is "hashing" (offline) or "openai".
	Provider   string
	Dimensions int
	OpenAI     OpenAIConfig
	CacheTTL   time.Duration
}

type ClassifierConfig struct {
	// Provider is "feature" (offline) or "openai".
	Provider string
	OpenAI   OpenAIConfig
}

// NewScorer builds the scorer named by cfg.Strategy. Model loading is deferred
// to Engine.Start.
func NewScorer(cfg Config) (Scorer, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(cfg.Strategy))) {
	case "", StrategyLexical:
		return NewLexicalScorer(), nil

	case StrategySemantic:
		model, err := newEmbeddingModel(cfg.Embedding)
		if err != nil {
			return nil, err
		}
		var opts []SemanticOption
		if cfg.Exclusive {
			opts = append(opts, WithExclusiveEmbedding())
		}
		return NewSemanticScorer(model, opts...), nil

	case StrategyClassifier:
		model, err := newClassifierModel(cfg.Classifier)
		if err != nil {
			return nil, err
		}
		var opts []ClassifierOption
		if cfg.Exclusive {
			opts = append(opts, WithExclusiveInference())
		}
		return NewClassifierScorer(model, opts...), nil
	}
	return nil, fmt.Errorf("unknown scoring strategy %q", cfg.Strategy)
}

func newEmbeddingModel(cfg EmbeddingConfig) (ports.EmbeddingModel, error) {
	var model ports.EmbeddingModel
	switch strings.ToLower(cfg.Provider) {
	case "", "hashing":
		return NewHashingEmbedder(cfg.Dimensions), nil
	case "openai":
		model = NewOpenAIEmbedder(cfg.OpenAI)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
	if cfg.CacheTTL > 0 {
		model = NewCachedEmbedder(model, cfg.CacheTTL)
	}
	return model, nil
}

func newClassifierModel(cfg ClassifierConfig) (ports.ClassifierModel, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "feature":
		return NewFeatureClassifier(nil), nil
	case "openai":
		return NewOpenAIClassifier(cfg.OpenAI), nil
	}
	return nil, fmt.Errorf("unknown classifier provider %q", cfg.Provider)
}
