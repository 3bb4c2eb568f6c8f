// Package hashing computes the structural bucket key that bounds candidate
// retrieval, and the identity hash used in audit records.
//
// The bucket key is intentionally coarse: it only sees the record type, the
// token count and the first letter of each token, so "John Doe" and
// "Jane Danald" share a bucket while "Marie Curie" does not.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/blake2b"

	"namescreen/internal/screening/models"
)

// Hash bundles both digests of one normalized name.
type Hash struct {
	BucketKey    string
	IdentityHash string
}

// Composite renders the hashed form "<TYPE>:<count>:<letters>". Type never
// contains ':' and letters is the final field, so the encoding is unambiguous.
func Composite(tokens []string, recordType models.RecordType) string {
	var b strings.Builder
	b.WriteString(string(recordType))
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(len(tokens)))
	b.WriteByte(':')
	for _, tok := range tokens {
		r, size := utf8.DecodeRuneInString(tok)
		if size == 0 {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BucketKey is hex(SHA-256(Composite(tokens, type))).
func BucketKey(tokens []string, recordType models.RecordType) string {
	sum := sha256.Sum256([]byte(Composite(tokens, recordType)))
	return hex.EncodeToString(sum[:])
}

// IdentityHash is hex(BLAKE2b-256) of the space-joined tokens.
func IdentityHash(tokens []string) string {
	sum := blake2b.Sum256([]byte(strings.Join(tokens, " ")))
	return hex.EncodeToString(sum[:])
}

func Compute(tokens []string, recordType models.RecordType) Hash {
	return Hash{
		BucketKey:    BucketKey(tokens, recordType),
		IdentityHash: IdentityHash(tokens),
	}
}

// Verify reports whether a stored record's bucket key matches its tokens.
func Verify(rec models.NameRecord) bool {
	return rec.BucketKey == BucketKey(rec.Tokens, rec.Type)
}
