// Package memory is an in-process registry. Readers work on an immutable
// snapshot; Replace builds a new one and swaps it in atomically.
package memory

import (
	"context"
	"slices"
	"sync/atomic"

	"namescreen/internal/registry"
	"namescreen/internal/screening/models"
)

type snapshot struct {
	byBucket map[models.RecordType]map[string][]models.NameRecord
	byType   map[models.RecordType][]models.NameRecord
	stats    registry.Stats
}

type Store struct {
	current atomic.Pointer[snapshot]
}

func New() *Store {
	s := &Store{}
	s.current.Store(build(nil))
	return s
}

// Replace validates records and swaps them in. On error the previous snapshot
// stays in place.
func (s *Store) Replace(_ context.Context, records []models.NameRecord) error {
	if err := registry.ValidateSnapshot(records); err != nil {
		return err
	}
	s.current.Store(build(records))
	return nil
}

func build(records []models.NameRecord) *snapshot {
	snap := &snapshot{
		byBucket: make(map[models.RecordType]map[string][]models.NameRecord),
		byType:   make(map[models.RecordType][]models.NameRecord),
	}
	for _, rec := range records {
		rec.Tokens = slices.Clone(rec.Tokens)
		buckets, ok := snap.byBucket[rec.Type]
		if !ok {
			buckets = make(map[string][]models.NameRecord)
			snap.byBucket[rec.Type] = buckets
		}
		buckets[rec.BucketKey] = append(buckets[rec.BucketKey], rec)
		snap.byType[rec.Type] = append(snap.byType[rec.Type], rec)
		snap.stats.Add(rec.Type, 1)
	}
	return snap
}

func (s *Store) QueryByBucket(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.current.Load().byBucket[recordType][bucketKey]), nil
}

func (s *Store) QueryByType(ctx context.Context, recordType models.RecordType) ([]models.NameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.current.Load().byType[recordType]), nil
}

func (s *Store) Count(context.Context) (registry.Stats, error) {
	return s.current.Load().stats, nil
}
