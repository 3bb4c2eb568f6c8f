package scoring

import (
	"context"
	"strings"
	"unicode/utf8"
)

// FeatureWeights are the logistic coefficients of FeatureClassifier.
type FeatureWeights struct {
	Bias         float64
	SortRatio    float64
	TokenJaccard float64
	Initials     float64
	LengthRatio  float64
}

// DefaultFeatureWeights score identical names around 0.97 and unrelated names of
// the same shape below 0.05.
var DefaultFeatureWeights = FeatureWeights{
	Bias:         -9,
	SortRatio:    8,
	TokenJaccard: 2,
	Initials:     1.5,
	LengthRatio:  1,
}

// FeatureClassifier is a logistic head over lexical pair features. It runs
// offline, is deterministic and safe for concurrent use.
type FeatureClassifier struct {
	weights FeatureWeights
}

func NewFeatureClassifier(weights *FeatureWeights) *FeatureClassifier {
	w := DefaultFeatureWeights
	if weights != nil {
		w = *weights
	}
	return &FeatureClassifier{weights: w}
}

func (c *FeatureClassifier) Load(context.Context) error { return nil }

func (c *FeatureClassifier) Close() error { return nil }

func (c *FeatureClassifier) Infer(_ context.Context, a, b string) ([2]float64, error) {
	f := pairFeatures(a, b)
	w := c.weights
	z := w.Bias +
		w.SortRatio*f.sortRatio +
		w.TokenJaccard*f.tokenJaccard +
		w.Initials*f.initials +
		w.LengthRatio*f.lengthRatio
	return [2]float64{0, z}, nil
}

type features struct {
	sortRatio    float64
	tokenJaccard float64
	initials     float64
	lengthRatio  float64
}

func pairFeatures(a, b string) features {
	ta := strings.Fields(sortedTokens(a))
	tb := strings.Fields(sortedTokens(b))
	return features{
		sortRatio:    float64(TokenSortRatio(a, b)) / 100,
		tokenJaccard: jaccard(ta, tb),
		initials:     initialsOverlap(ta, tb),
		lengthRatio:  lengthRatio(strings.Join(ta, ""), strings.Join(tb, "")),
	}
}

func jaccard(a, b []string) float64 {
	set := make(map[string]int, len(a)+len(b))
	for _, t := range a {
		set[t] |= 1
	}
	for _, t := range b {
		set[t] |= 2
	}
	if len(set) == 0 {
		return 0
	}
	both := 0
	for _, v := range set {
		if v == 3 {
			both++
		}
	}
	return float64(both) / float64(len(set))
}

// initialsOverlap compares the multisets of first letters.
func initialsOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	counts := make(map[rune]int)
	for _, t := range a {
		r, _ := utf8.DecodeRuneInString(t)
		counts[r]++
	}
	shared := 0
	for _, t := range b {
		r, _ := utf8.DecodeRuneInString(t)
		if counts[r] > 0 {
			counts[r]--
			shared++
		}
	}
	return float64(shared) / float64(max(len(a), len(b)))
}

func lengthRatio(a, b string) float64 {
	la, lb := utf8.RuneCountInString(a), utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	return float64(min(la, lb)) / float64(max(la, lb))
}
