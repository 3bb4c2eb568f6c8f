package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"namescreen/internal/registry"
	"namescreen/internal/screening/ports"
	dErrors "namescreen/pkg/domain-errors"
	"namescreen/pkg/platform/audit"
	"namescreen/pkg/requestcontext"
)

var errNoSources = errors.New("no watchlist sources configured")

// Invalidator drops cached registry reads after a refresh.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// SourceReport is what one source contributed.
type SourceReport struct {
	Name    string `json:"name"`
	Format  Format `json:"format"`
	Loaded  int    `json:"loaded"`
	Aliases int    `json:"aliases,omitempty"`
	Other   int    `json:"other_types,omitempty"`
}

// Report summarizes a refresh.
type Report struct {
	Sources          []SourceReport     `json:"sources"`
	Loaded           int                `json:"loaded"`
	Built            int                `json:"built"`
	Skipped          map[SkipReason]int `json:"skipped"`
	Stats            registry.Stats     `json:"stats"`
	CacheInvalidated bool               `json:"cache_invalidated"`
	Duration         time.Duration      `json:"duration_ns"`
}

type Service struct {
	sources      []Source
	fetcher      *Fetcher
	builder      *Builder
	writer       ports.RegistryWriter
	invalidators []Invalidator
	auditor      ports.AuditPublisher
	logger       *slog.Logger

	// refreshing serializes refreshes; a second caller gets a conflict.
	refreshing sync.Mutex
}

type Option func(*Service)

func WithFetcher(f *Fetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

func WithInvalidator(inv Invalidator) Option {
	return func(s *Service) {
		if inv != nil {
			s.invalidators = append(s.invalidators, inv)
		}
	}
}

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func NewService(sources []Source, writer ports.RegistryWriter, opts ...Option) *Service {
	s := &Service{
		sources: sources,
		writer:  writer,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fetcher == nil {
		s.fetcher = NewFetcher(nil, 0)
	}
	s.builder = NewBuilder(s.logger)
	return s
}

// Refresh loads every source concurrently, builds a snapshot and replaces the
// registry with it. A failing source aborts the refresh and leaves the current
// registry untouched.
func (s *Service) Refresh(ctx context.Context) (*Report, error) {
	if !s.refreshing.TryLock() {
		return nil, dErrors.New(dErrors.CodeConflict, "a registry refresh is already running")
	}
	defer s.refreshing.Unlock()

	start := time.Now()
	report, err := s.refresh(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "registry refresh failed", "error", err)
		s.emit(ctx, audit.ActionRegistryRefreshErr, err.Error())
		return nil, err
	}
	report.Duration = time.Since(start)

	s.logger.InfoContext(ctx, "registry refreshed",
		"loaded", report.Loaded,
		"built", report.Built,
		"skipped", report.Skipped,
		"duration_ms", report.Duration.Milliseconds(),
	)
	s.emit(ctx, audit.ActionRegistryRefreshed, fmt.Sprintf("built=%d loaded=%d", report.Built, report.Loaded))
	return report, nil
}

func (s *Service) refresh(ctx context.Context) (*Report, error) {
	if len(s.sources) == 0 {
		return nil, dErrors.Wrap(errNoSources, dErrors.CodeValidation, "no watchlist sources configured")
	}

	raws, sourceReports, err := s.loadAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to load watchlist sources")
	}

	report := &Report{Sources: sourceReports}
	for _, r := range raws {
		report.Loaded += len(r)
	}
	records, skipped, stats := s.builder.Build(flatten(raws, report.Loaded))
	report.Built = len(records)
	report.Skipped = skipped
	report.Stats = stats

	if len(records) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "refusing to replace the registry with an empty snapshot")
	}
	if err := s.writer.Replace(ctx, records); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to replace registry")
	}

	report.CacheInvalidated = true
	for _, inv := range s.invalidators {
		if err := inv.Invalidate(ctx); err != nil {
			// Stale entries age out on their TTL.
			report.CacheInvalidated = false
			s.logger.WarnContext(ctx, "registry cache invalidation failed", "error", err)
		}
	}
	return report, nil
}

// loadAll keeps per-source results in source order so builds are deterministic.
func (s *Service) loadAll(ctx context.Context) ([][]RawRecord, []SourceReport, error) {
	raws := make([][]RawRecord, len(s.sources))
	reports := make([]SourceReport, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			records, report, err := s.load(gctx, src)
			if err != nil {
				return fmt.Errorf("source %s: %w", src.Name, err)
			}
			raws[i] = records
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return raws, reports, nil
}

func (s *Service) load(ctx context.Context, src Source) ([]RawRecord, SourceReport, error) {
	report := SourceReport{Name: src.Name, Format: src.Format}
	body, err := s.fetcher.Open(ctx, src.Location)
	if err != nil {
		return nil, report, err
	}
	defer body.Close()

	records, err := parse(body, src, &report)
	if err != nil {
		return nil, report, err
	}
	report.Loaded = len(records)
	return records, report, nil
}

func parse(r io.Reader, src Source, report *SourceReport) ([]RawRecord, error) {
	switch src.Format {
	case FormatSDN:
		records, stats, err := ParseSDN(r, src.Name)
		report.Aliases = stats.Aliases
		report.Other = stats.UnknownTypes
		return records, err
	case FormatYAML:
		return ParseYAML(r, src.Name)
	default:
		return nil, fmt.Errorf("unsupported source format %q", src.Format)
	}
}

func flatten(parts [][]RawRecord, total int) []RawRecord {
	out := make([]RawRecord, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func (s *Service) emit(ctx context.Context, action audit.Action, detail string) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Action:    action,
		RequestID: requestcontext.RequestID(ctx),
		Operator:  requestcontext.Operator(ctx),
		Detail:    detail,
	}
	if err := s.auditor.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit refresh audit event", "error", err)
	}
}
