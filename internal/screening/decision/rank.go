// Package decision turns scored candidates into the ranked match list.
package decision

import (
	"sort"

	"namescreen/internal/screening/models"
	"namescreen/internal/screening/scoring"
)

// Rank keeps candidates whose unit score is at or above threshold and orders
// them by score descending, then candidate id ascending.
func Rank(scored []scoring.ScoredCandidate, threshold float64) []models.MatchResult {
	matches := make([]models.MatchResult, 0, len(scored))
	for _, c := range scored {
		if c.Unit < threshold {
			continue
		}
		matches = append(matches, models.MatchResult{
			CandidateID:     c.Record.ID,
			CandidateName:   c.Record.FullName(),
			Score:           c.Raw,
			NormalizedScore: c.Unit,
			Reason:          c.Record.Reason,
		})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].NormalizedScore != matches[j].NormalizedScore {
			return matches[i].NormalizedScore > matches[j].NormalizedScore
		}
		return matches[i].CandidateID < matches[j].CandidateID
	})
	return matches
}
