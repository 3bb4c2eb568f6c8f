package scoring

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultHashingDimensions = 256

// HashingEmbedder maps a name to character n-gram counts folded into a fixed
// number of dimensions with FNV-1a, L2 normalised. It needs no model files or
// network and is safe for concurrent use.
type HashingEmbedder struct {
	dimensions int
	ngrams     []int
}

func NewHashingEmbedder(dimensions int) *HashingEmbedder {
	if dimensions <= 0 {
		dimensions = defaultHashingDimensions
	}
	return &HashingEmbedder{dimensions: dimensions, ngrams: []int{2, 3}}
}

func (e *HashingEmbedder) Load(context.Context) error { return nil }

func (e *HashingEmbedder) Close() error { return nil }

func (e *HashingEmbedder) Dimensions() int { return e.dimensions }

// Embed is order-invariant over tokens: each token contributes its padded
// n-grams and one whole-token feature.
func (e *HashingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dimensions)
	for _, tok := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		vector[e.bucket("w:"+tok)] += 1
		padded := []rune("^" + tok + "$")
		for _, n := range e.ngrams {
			for i := 0; i+n <= len(padded); i++ {
				vector[e.bucket(string(padded[i:i+n]))] += 1
			}
		}
	}
	l2Normalize(vector)
	return vector, nil
}

func (e *HashingEmbedder) bucket(feature string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(feature))
	return int(h.Sum32() % uint32(e.dimensions))
}

func l2Normalize(vector []float32) {
	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= norm
	}
}
