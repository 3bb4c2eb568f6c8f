package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/sentinel"
)

func rec(id string, tokens ...string) models.NameRecord {
	return models.NameRecord{
		ID:        id,
		Type:      models.RecordTypeIndividual,
		Tokens:    tokens,
		BucketKey: hashing.BucketKey(tokens, models.RecordTypeIndividual),
	}
}

func TestValidateSnapshot(t *testing.T) {
	require.NoError(t, ValidateSnapshot(nil))
	require.NoError(t, ValidateSnapshot([]models.NameRecord{rec("1", "jane", "danald"), rec("2", "marie", "curie")}))

	stale := rec("3", "jane", "danald")
	stale.Tokens = []string{"marie", "curie"}
	err := ValidateSnapshot([]models.NameRecord{stale})
	assert.ErrorIs(t, err, sentinel.ErrIntegrity)
	assert.ErrorContains(t, err, "bucket key")

	err = ValidateSnapshot([]models.NameRecord{rec("1", "a", "b"), rec("1", "c", "d")})
	assert.ErrorIs(t, err, sentinel.ErrIntegrity)
	assert.ErrorContains(t, err, "duplicate")

	err = ValidateSnapshot([]models.NameRecord{{ID: "x", Type: models.RecordTypeEntity}})
	assert.ErrorIs(t, err, sentinel.ErrIntegrity)
}

func TestStats_Add(t *testing.T) {
	var s Stats
	s.Add(models.RecordTypeEntity, 2)
	s.Add(models.RecordTypeIndividual, 3)
	assert.Equal(t, Stats{Entities: 2, Individuals: 3, Total: 5}, s)
}
