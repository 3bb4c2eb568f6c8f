// Package ports declares the collaborators the screening pipeline consumes.
// Adapters live elsewhere (registry stores, language and scoring backends) so the
// core never depends on a database driver or model runtime.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"namescreen/internal/screening/models"
	audit "namescreen/pkg/platform/audit"
)

// Registry answers candidate lookups. Both queries are exact-match.
type Registry interface {
	QueryByBucket(ctx context.Context, bucketKey string, recordType models.RecordType) ([]models.NameRecord, error)
	QueryByType(ctx context.Context, recordType models.RecordType) ([]models.NameRecord, error)
}

// RegistryWriter replaces the whole registry content atomically. Used by ingestion.
type RegistryWriter interface {
	Replace(ctx context.Context, records []models.NameRecord) error
}

// Detector returns an ISO-639-1 code for the dominant language of text, or
// "unknown".
type Detector interface {
	Detect(text string) string
}

// Translator renders text in the target language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Segmenter splits an unsegmented name into its parts.
type Segmenter interface {
	Segment(text string) []string
}

// Model is a scorer backend with an explicit lifecycle. Load runs once per
// process, before the first inference.
type Model interface {
	Load(ctx context.Context) error
	Close() error
}

// EmbeddingModel maps text to a fixed-size vector.
type EmbeddingModel interface {
	Model
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// ClassifierModel returns the (non-match, match) logits for a name pair.
type ClassifierModel interface {
	Model
	Infer(ctx context.Context, a, b string) ([2]float64, error)
}

// AuditPublisher records screening outcomes.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
