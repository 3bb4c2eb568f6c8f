// Package models holds the screening domain types shared across pipeline stages.
package models

import (
	"fmt"
	"strings"
	"time"

	dErrors "namescreen/pkg/domain-errors"
)

// RecordType partitions the registry. Names of different types never compete.
type RecordType string

const (
	RecordTypeEntity     RecordType = "ENTITY"
	RecordTypeIndividual RecordType = "INDIVIDUAL"
)

// ParseRecordType accepts "entity"/"individual" in any case.
func ParseRecordType(s string) (RecordType, error) {
	switch RecordType(strings.ToUpper(strings.TrimSpace(s))) {
	case RecordTypeEntity:
		return RecordTypeEntity, nil
	case RecordTypeIndividual:
		return RecordTypeIndividual, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("record type must be entity or individual, got %q", s))
}

func (t RecordType) IsValid() bool {
	return t == RecordTypeEntity || t == RecordTypeIndividual
}

// NameRecord is a registry entry. BucketKey is always the structural hash of
// Tokens and Type; writers reject records where it is not.
type NameRecord struct {
	ID        string     `json:"id"`
	Type      RecordType `json:"type"`
	Tokens    []string   `json:"tokens"`
	BucketKey string     `json:"bucket_key"`
	Reason    string     `json:"reason,omitempty"`
	Source    string     `json:"source,omitempty"`
}

// FullName reconstructs the display name from the normalized tokens.
func (r NameRecord) FullName() string {
	return strings.Join(r.Tokens, " ")
}

// Validate reports records that cannot be scored.
func (r NameRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record has no id")
	}
	if !r.Type.IsValid() {
		return fmt.Errorf("record %s has invalid type %q", r.ID, r.Type)
	}
	if len(r.Tokens) == 0 {
		return fmt.Errorf("record %s has no name tokens", r.ID)
	}
	for i, tok := range r.Tokens {
		if strings.TrimSpace(tok) == "" {
			return fmt.Errorf("record %s has empty token at position %d", r.ID, i)
		}
	}
	return nil
}

// LanguageMode selects how names outside the canonical language set are treated.
type LanguageMode string

const (
	LanguageModeStrict     LanguageMode = "strict"
	LanguageModePermissive LanguageMode = "permissive"
)

// ParseLanguageMode returns fallback for an empty string.
func ParseLanguageMode(s string, fallback LanguageMode) (LanguageMode, error) {
	switch LanguageMode(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return fallback, nil
	case LanguageModeStrict:
		return LanguageModeStrict, nil
	case LanguageModePermissive:
		return LanguageModePermissive, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("mode must be strict or permissive, got %q", s))
}

// ScreeningRequest is one screening call. It lives for the duration of the call.
type ScreeningRequest struct {
	RequestID string
	Name      string
	Type      RecordType
	Threshold Threshold
	Mode      LanguageMode
}

// MatchResult is one ranked candidate at or above the threshold. Score is on the
// active scorer's native range; NormalizedScore is the same score on [0,1].
type MatchResult struct {
	CandidateID     string  `json:"candidate_id"`
	CandidateName   string  `json:"candidate_name"`
	Score           float64 `json:"score"`
	NormalizedScore float64 `json:"normalized_score"`
	Reason          string  `json:"reason,omitempty"`
}

// SkippedCandidate records a candidate whose scoring failed.
type SkippedCandidate struct {
	CandidateID string `json:"candidate_id"`
	Error       string `json:"error"`
}

// ScoreRange describes a scorer's native output scale.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	// Baseline is the native score meaning "no similarity"; it maps to 0 on the
	// unit scale and everything below it is clamped there.
	Baseline float64 `json:"baseline"`
	Integer  bool    `json:"integer,omitempty"`
}

// Contains reports whether v lies inside [Min, Max].
func (r ScoreRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Normalize maps a native score onto [0,1].
func (r ScoreRange) Normalize(v float64) float64 {
	span := r.Max - r.Baseline
	if span <= 0 {
		return 0
	}
	u := (v - r.Baseline) / span
	switch {
	case u < 0:
		return 0
	case u > 1:
		return 1
	}
	return u
}

func (r ScoreRange) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// Outcome is the result of a completed screening.
type Outcome struct {
	RequestID      string             `json:"request_id"`
	Query          []string           `json:"query"`
	Language       string             `json:"language"`
	Translated     bool               `json:"translated"`
	BucketKey      string             `json:"bucket_key"`
	IdentityHash   string             `json:"identity_hash"`
	Scorer         string             `json:"scorer"`
	ScoreRange     ScoreRange         `json:"score_range"`
	Threshold      float64            `json:"threshold"`
	CandidateCount int                `json:"candidate_count"`
	Truncated      int                `json:"truncated"`
	Skipped        []SkippedCandidate `json:"skipped,omitempty"`
	Matches        []MatchResult      `json:"matches"`
	State          State              `json:"state"`
	DecidedAt      time.Time          `json:"decided_at"`
}

// Matched reports whether any candidate cleared the threshold.
func (o *Outcome) Matched() bool {
	return len(o.Matches) > 0
}
