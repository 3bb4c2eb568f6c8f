package handler

import (
	"time"

	"namescreen/internal/screening/models"
)

// ScreenResponse is the HTTP response body for POST /v1/screen.
type ScreenResponse struct {
	RequestID    string            `json:"request_id"`
	Query        []string          `json:"query"`
	Language     string            `json:"language"`
	Translated   bool              `json:"translated"`
	BucketKey    string            `json:"bucket_key"`
	IdentityHash string            `json:"identity_hash"`
	Scorer       string            `json:"scorer"`
	ScoreRange   models.ScoreRange `json:"score_range"`
	Threshold    float64           `json:"threshold"`
	Candidates   int               `json:"candidates"`
	Truncated    int               `json:"truncated"`
	Skipped      int               `json:"skipped"`
	SkippedIDs   []string          `json:"skipped_ids,omitempty"`
	Matched      bool              `json:"matched"`
	Matches      []MatchResponse   `json:"matches"`
	DecidedAt    time.Time         `json:"decided_at"`
}

// MatchResponse is one ranked match.
type MatchResponse struct {
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	Score           float64 `json:"score"`
	NormalizedScore float64 `json:"normalized_score"`
	Reason          string  `json:"reason,omitempty"`
}

// FromOutcome converts a screening outcome into its wire shape.
func FromOutcome(o *models.Outcome) ScreenResponse {
	resp := ScreenResponse{
		RequestID:    o.RequestID,
		Query:        o.Query,
		Language:     o.Language,
		Translated:   o.Translated,
		BucketKey:    o.BucketKey,
		IdentityHash: o.IdentityHash,
		Scorer:       o.Scorer,
		ScoreRange:   o.ScoreRange,
		Threshold:    o.Threshold,
		Candidates:   o.CandidateCount,
		Truncated:    o.Truncated,
		Skipped:      len(o.Skipped),
		Matched:      o.Matched(),
		Matches:      make([]MatchResponse, 0, len(o.Matches)),
		DecidedAt:    o.DecidedAt,
	}
	for _, s := range o.Skipped {
		resp.SkippedIDs = append(resp.SkippedIDs, s.CandidateID)
	}
	for _, m := range o.Matches {
		resp.Matches = append(resp.Matches, MatchResponse(m))
	}
	return resp
}
