package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"namescreen/internal/screening/models"
)

func TestComposite(t *testing.T) {
	assert.Equal(t, "INDIVIDUAL:2:jd", Composite([]string{"john", "doe"}, models.RecordTypeIndividual))
	assert.Equal(t, "ENTITY:3:abc", Composite([]string{"alpha", "beta", "cargo"}, models.RecordTypeEntity))
	assert.Equal(t, "INDIVIDUAL:2:مع", Composite([]string{"محمد", "علي"}, models.RecordTypeIndividual))
}

func TestBucketKey_MatchesSHA256OfComposite(t *testing.T) {
	sum := sha256.Sum256([]byte("INDIVIDUAL:2:jd"))
	assert.Equal(t, hex.EncodeToString(sum[:]), BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual))
	assert.Len(t, BucketKey([]string{"x"}, models.RecordTypeEntity), 64)
}

func TestBucketKey_Deterministic(t *testing.T) {
	tokens := []string{"jane", "danald"}
	assert.Equal(t, BucketKey(tokens, models.RecordTypeIndividual), BucketKey(tokens, models.RecordTypeIndividual))
}

func TestBucketKey_IntendedCollisions(t *testing.T) {
	johnDoe := BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual)
	janeDanald := BucketKey([]string{"jane", "danald"}, models.RecordTypeIndividual)
	marieCurie := BucketKey([]string{"marie", "curie"}, models.RecordTypeIndividual)

	assert.Equal(t, johnDoe, janeDanald, "same type, count and initials share a bucket")
	assert.NotEqual(t, johnDoe, marieCurie)
}

func TestBucketKey_SeparatesTypeAndCount(t *testing.T) {
	tokens := []string{"john", "doe"}
	assert.NotEqual(t,
		BucketKey(tokens, models.RecordTypeIndividual),
		BucketKey(tokens, models.RecordTypeEntity),
	)
	assert.NotEqual(t,
		BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual),
		BucketKey([]string{"john", "doe", "jr"}, models.RecordTypeIndividual),
	)
	// Order of initials matters.
	assert.NotEqual(t,
		BucketKey([]string{"doe", "john"}, models.RecordTypeIndividual),
		BucketKey([]string{"john", "doe"}, models.RecordTypeIndividual),
	)
}

func TestIdentityHash(t *testing.T) {
	a := IdentityHash([]string{"john", "doe"})
	assert.Len(t, a, 64)
	assert.Equal(t, a, IdentityHash([]string{"john", "doe"}))
	assert.NotEqual(t, a, IdentityHash([]string{"jane", "danald"}))
}

func TestVerify(t *testing.T) {
	rec := models.NameRecord{ID: "1", Type: models.RecordTypeIndividual, Tokens: []string{"jane", "danald"}}
	rec.BucketKey = BucketKey(rec.Tokens, rec.Type)
	assert.True(t, Verify(rec))

	rec.Type = models.RecordTypeEntity
	assert.False(t, Verify(rec))
}
