// Package normalize turns a raw name into the canonical token sequence every
// later stage works on.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"namescreen/internal/screening/models"
)

const (
	MinTokens = 2
	MaxTokens = 30
)

// stripSet is trimmed from both ends of the name and of every token.
const stripSet = " \"',|-=#$%&*"

type Normalizer struct {
	strictLength bool
}

type Option func(*Normalizer)

// WithStrictLength rejects names with fewer than MinTokens or more than
// MaxTokens tokens.
func WithStrictLength(strict bool) Option {
	return func(n *Normalizer) {
		n.strictLength = strict
	}
}

func New(opts ...Option) *Normalizer {
	n := &Normalizer{}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// StrictLength reports whether the token-count check is enabled.
func (n *Normalizer) StrictLength() bool {
	return n.strictLength
}

// Normalize returns the canonical tokens of raw. It is deterministic and
// idempotent: normalizing the joined output yields the same tokens.
func (n *Normalizer) Normalize(raw string) ([]string, error) {
	tokens, err := n.Tokens(raw)
	if err != nil {
		return nil, err
	}
	if err := n.CheckLength(tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Tokens folds and splits raw like Normalize but skips the length check, for
// callers that may still segment or translate the name.
func (n *Normalizer) Tokens(raw string) ([]string, error) {
	// cases.Caser carries transform state, so one is built per call.
	folded := norm.NFKC.String(cases.Fold().String(norm.NFKC.String(raw)))
	folded = strings.Trim(strings.TrimSpace(folded), stripSet)

	fields := strings.FieldsFunc(folded, unicode.IsSpace)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if tok := strings.Trim(f, stripSet); tok != "" {
			tokens = append(tokens, tok)
		}
	}

	if len(tokens) == 0 {
		return nil, models.InvalidName("name is empty after normalization")
	}
	return tokens, nil
}

// CheckLength applies the token-count bounds when strict length is enabled.
func (n *Normalizer) CheckLength(tokens []string) error {
	if n.strictLength && (len(tokens) < MinTokens || len(tokens) > MaxTokens) {
		return models.InvalidName(fmt.Sprintf("name has %d tokens, expected between %d and %d", len(tokens), MinTokens, MaxTokens))
	}
	return nil
}

// NormalizeTokens re-normalizes an existing token sequence.
func (n *Normalizer) NormalizeTokens(tokens []string) ([]string, error) {
	return n.Normalize(strings.Join(tokens, " "))
}
