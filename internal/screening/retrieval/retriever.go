// Package retrieval fetches the candidate set for a bucket key. It performs
// exact-key lookups only and never retries.
package retrieval

import (
	"context"
	"log/slog"

	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
	"namescreen/internal/screening/ports"
)

// IntegrityRecorder counts records dropped for bucket-key mismatches.
type IntegrityRecorder interface {
	IncrementIntegrityViolation(recordType string)
}

type Retriever struct {
	registry ports.Registry
	logger   *slog.Logger
	metrics  IntegrityRecorder
}

func New(registry ports.Registry, logger *slog.Logger, metrics IntegrityRecorder) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{registry: registry, logger: logger, metrics: metrics}
}

// Retrieve returns the records stored under bucketKey for recordType. Records
// whose stored key disagrees with the query, or with their own tokens, are
// dropped and reported as integrity violations. Malformed records filed under
// the right key are kept so scoring reports them as skipped.
func (r *Retriever) Retrieve(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error) {
	records, err := r.registry.QueryByBucket(ctx, bucketKey, recordType)
	if err != nil {
		if ctx.Err() != nil {
			return nil, models.Canceled(models.StageRetrieve, ctx.Err())
		}
		return nil, models.Retrieval(err)
	}

	kept := make([]models.NameRecord, 0, len(records))
	for _, rec := range records {
		if rec.BucketKey != bucketKey || rec.Type != recordType || (rec.Validate() == nil && !hashing.Verify(rec)) {
			r.logger.ErrorContext(ctx, "registry record violates bucket invariant",
				"record_id", rec.ID,
				"record_type", rec.Type,
				"stored_bucket_key", rec.BucketKey,
				"query_bucket_key", bucketKey,
			)
			if r.metrics != nil {
				r.metrics.IncrementIntegrityViolation(string(recordType))
			}
			continue
		}
		kept = append(kept, rec)
	}
	return kept, nil
}
