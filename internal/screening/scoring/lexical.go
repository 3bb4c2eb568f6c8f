package scoring

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode"

	"namescreen/internal/screening/models"
)

// LexicalScorer is a token-order-invariant fuzzy ratio on an integer 0-100
// scale. It is stateless and safe for concurrent use.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer { return &LexicalScorer{} }

func (*LexicalScorer) Name() string { return string(StrategyLexical) }

func (*LexicalScorer) Range() models.ScoreRange { return LexicalRange }

func (*LexicalScorer) Score(_ context.Context, query, candidate string) (float64, error) {
	return float64(TokenSortRatio(query, candidate)), nil
}

// TokenSortRatio lowercases both names, replaces every character that is not a
// letter or digit with a space, sorts the tokens and returns the rounded indel
// similarity of the joined strings. Empty input scores 0.
func TokenSortRatio(a, b string) int {
	sa, sb := sortedTokens(a), sortedTokens(b)
	if sa == "" || sb == "" {
		return 0
	}
	return int(math.RoundToEven(100 * IndelSimilarity(sa, sb)))
}

func sortedTokens(s string) string {
	processed := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	tokens := strings.Fields(processed)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// IndelSimilarity is 2*LCS(a, b) / (len(a)+len(b)) over runes, in [0, 1].
func IndelSimilarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return float64(2*lcsLength(ra, rb)) / float64(total)
}

func lcsLength(a, b []rune) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
