package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "namescreen/pkg/platform/audit"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
}

func (f *fakeProducer) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func TestStore_AppendKeysByRequestID(t *testing.T) {
	producer := &fakeProducer{}
	store := New(producer, "screening.audit")

	err := store.Append(context.Background(), audit.Event{
		ID:         "evt-1",
		RequestID:  "req-1",
		Action:     audit.ActionScreeningCompleted,
		MatchCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, producer.records, 1)

	rec := producer.records[0]
	assert.Equal(t, "screening.audit", rec.Topic)
	assert.Equal(t, "req-1", string(rec.Key))

	var decoded audit.Event
	require.NoError(t, json.Unmarshal(rec.Value, &decoded))
	assert.Equal(t, 2, decoded.MatchCount)
}

func TestStore_AppendFallsBackToEventID(t *testing.T) {
	producer := &fakeProducer{}
	require.NoError(t, New(producer, "t").Append(context.Background(), audit.Event{ID: "evt-9"}))
	assert.Equal(t, "evt-9", string(producer.records[0].Key))
}

func TestStore_AppendPropagatesProduceError(t *testing.T) {
	producer := &fakeProducer{err: errors.New("broker down")}
	err := New(producer, "t").Append(context.Background(), audit.Event{ID: "evt-1"})
	assert.ErrorContains(t, err, "broker down")
}
