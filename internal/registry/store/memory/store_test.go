package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescreen/internal/registry"
	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/sentinel"
)

func rec(id string, t models.RecordType, tokens ...string) models.NameRecord {
	return models.NameRecord{ID: id, Type: t, Tokens: tokens, BucketKey: hashing.BucketKey(tokens, t)}
}

func TestStore_QueryByBucket(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Replace(ctx, []models.NameRecord{
		rec("1", models.RecordTypeIndividual, "jane", "danald"),
		rec("2", models.RecordTypeIndividual, "marie", "curie"),
		rec("3", models.RecordTypeEntity, "jane", "danald"),
	}))

	key := hashing.BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual)
	got, err := s.QueryByBucket(ctx, key, models.RecordTypeIndividual)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = s.QueryByBucket(ctx, "missing", models.RecordTypeIndividual)
	require.NoError(t, err)
	assert.Empty(t, got)

	all, err := s.QueryByType(ctx, models.RecordTypeIndividual)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	stats, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, registry.Stats{Entities: 1, Individuals: 2, Total: 3}, stats)
}

func TestStore_RejectsCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Replace(ctx, []models.NameRecord{rec("1", models.RecordTypeIndividual, "jane", "danald")}))

	bad := rec("2", models.RecordTypeIndividual, "marie", "curie")
	bad.BucketKey = hashing.BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual)
	err := s.Replace(ctx, []models.NameRecord{bad})
	require.ErrorIs(t, err, sentinel.ErrIntegrity)

	stats, _ := s.Count(ctx)
	assert.Equal(t, 1, stats.Total, "previous snapshot kept")
}

func TestStore_CallerMutationDoesNotLeak(t *testing.T) {
	ctx := context.Background()
	s := New()
	records := []models.NameRecord{rec("1", models.RecordTypeIndividual, "jane", "danald")}
	require.NoError(t, s.Replace(ctx, records))
	records[0].Tokens[0] = "mutated"

	got, err := s.QueryByType(ctx, models.RecordTypeIndividual)
	require.NoError(t, err)
	assert.Equal(t, []string{"jane", "danald"}, got[0].Tokens)
}

func TestStore_ReadersSeeWholeSnapshots(t *testing.T) {
	ctx := context.Background()
	s := New()
	key := hashing.BucketKey([]string{"a", "b"}, models.RecordTypeEntity)

	snapshotOf := func(gen, n int) []models.NameRecord {
		out := make([]models.NameRecord, n)
		for i := range out {
			out[i] = rec(fmt.Sprintf("g%d-%d", gen, i), models.RecordTypeEntity, "a", "b")
		}
		return out
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for gen := 1; gen <= 50; gen++ {
			_ = s.Replace(ctx, snapshotOf(gen, 10))
		}
		close(stop)
	}()

	for {
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
		got, err := s.QueryByBucket(ctx, key, models.RecordTypeEntity)
		require.NoError(t, err)
		if len(got) == 0 {
			continue
		}
		require.Len(t, got, 10)
		prefix := got[0].ID[:3]
		for _, r := range got {
			assert.Equal(t, prefix, r.ID[:3], "records from one generation only")
		}
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().QueryByBucket(ctx, "k", models.RecordTypeEntity)
	assert.ErrorIs(t, err, context.Canceled)
}
