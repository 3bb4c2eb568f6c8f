package ingest

import (
	"log/slog"

	"namescreen/internal/registry"
	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/internal/screening/normalize"
)

// SkipReason explains why a raw record did not make it into the snapshot.
type SkipReason string

const (
	SkipMissingID   SkipReason = "missing_id"
	SkipUnknownType SkipReason = "unknown_type"
	SkipInvalidName SkipReason = "invalid_name"
	SkipDuplicateID SkipReason = "duplicate_id"
)

// Builder turns raw records into registry records. The normalizer must not
// enforce the query-side token count: single-token entity names are valid
// watchlist entries.
type Builder struct {
	normalizer *normalize.Normalizer
	logger     *slog.Logger
}

func NewBuilder(logger *slog.Logger) *Builder {
	return &Builder{
		normalizer: normalize.New(normalize.WithStrictLength(false)),
		logger:     logger,
	}
}

// Build normalizes, hashes and de-duplicates raws. The first record with a
// given id wins. Output order follows input order.
func (b *Builder) Build(raws []RawRecord) ([]models.NameRecord, map[SkipReason]int, registry.Stats) {
	skipped := make(map[SkipReason]int)
	var stats registry.Stats
	seen := make(map[string]struct{}, len(raws))
	out := make([]models.NameRecord, 0, len(raws))

	for _, raw := range raws {
		if raw.ID == "" {
			skipped[SkipMissingID]++
			continue
		}
		recordType, err := models.ParseRecordType(raw.Type)
		if err != nil {
			skipped[SkipUnknownType]++
			continue
		}
		tokens, err := b.normalizer.Normalize(raw.Name)
		if err != nil {
			skipped[SkipInvalidName]++
			b.logger.Debug("skipping watchlist record", "id", raw.ID, "source", raw.Source, "error", err)
			continue
		}
		if _, dup := seen[raw.ID]; dup {
			skipped[SkipDuplicateID]++
			continue
		}
		seen[raw.ID] = struct{}{}

		out = append(out, models.NameRecord{
			ID:        raw.ID,
			Type:      recordType,
			Tokens:    tokens,
			BucketKey: hashing.BucketKey(tokens, recordType),
			Reason:    raw.Reason,
			Source:    raw.Source,
		})
		stats.Add(recordType, 1)
	}
	return out, skipped, stats
}
