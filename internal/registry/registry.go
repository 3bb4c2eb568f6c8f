// Package registry holds what every watchlist backend shares: snapshot
// validation and the stats shape served by the API.
package registry

import (
	"context"
	"fmt"

	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/sentinel"
)

// Stats counts records per type.
type Stats struct {
	Entities    int `json:"entities"`
	Individuals int `json:"individuals"`
	Total       int `json:"total"`
}

func (s *Stats) Add(t models.RecordType, n int) {
	switch t {
	case models.RecordTypeEntity:
		s.Entities += n
	case models.RecordTypeIndividual:
		s.Individuals += n
	}
	s.Total += n
}

// Counter is implemented by backends that can report their size.
type Counter interface {
	Count(ctx context.Context) (Stats, error)
}

// ValidateSnapshot rejects a replacement set that would break retrieval:
// malformed records, duplicate ids, or a stored bucket key that differs from
// the one recomputed from the record's tokens.
func ValidateSnapshot(records []models.NameRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %v", sentinel.ErrIntegrity, err)
		}
		if _, dup := seen[rec.ID]; dup {
			return fmt.Errorf("%w: duplicate record id %s", sentinel.ErrIntegrity, rec.ID)
		}
		seen[rec.ID] = struct{}{}
		if !hashing.Verify(rec) {
			return fmt.Errorf("%w: record %s bucket key does not match its tokens", sentinel.ErrIntegrity, rec.ID)
		}
	}
	return nil
}
