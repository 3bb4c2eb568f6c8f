// Package service runs the screening pipeline for one request:
// normalize, route language, hash, retrieve, score and decide.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"namescreen/internal/screening/decision"
	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/language"
	"namescreen/internal/screening/metrics"
	"namescreen/internal/screening/models"
	"namescreen/internal/screening/normalize"
	"namescreen/internal/screening/ports"
	"namescreen/internal/screening/retrieval"
	"namescreen/internal/screening/scoring"
	audit "namescreen/pkg/platform/audit"
	"namescreen/pkg/requestcontext"
)

var tracer = otel.Tracer("namescreen/screening")

// ScoringEngine scores a candidate set with the process-wide scorer.
type ScoringEngine interface {
	Name() string
	Range() models.ScoreRange
	ScoreAll(ctx context.Context, query string, candidates []models.NameRecord) (*scoring.Batch, error)
}

type Service struct {
	normalizer    *normalize.Normalizer
	router        *language.Router
	retriever     *retrieval.Retriever
	engine        ScoringEngine
	auditor       ports.AuditPublisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	defaultMode   models.LanguageMode
	maxCandidates int
}

type Option func(*Service)

func WithAuditPublisher(p ports.AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDefaultMode sets the language mode used when a request leaves it empty.
func WithDefaultMode(mode models.LanguageMode) Option {
	return func(s *Service) { s.defaultMode = mode }
}

// WithMaxCandidates caps the candidates scored per request. Zero disables the cap.
func WithMaxCandidates(n int) Option {
	return func(s *Service) { s.maxCandidates = n }
}

func New(
	normalizer *normalize.Normalizer,
	router *language.Router,
	retriever *retrieval.Retriever,
	engine ScoringEngine,
	opts ...Option,
) *Service {
	s := &Service{
		normalizer:    normalizer,
		router:        router,
		retriever:     retriever,
		engine:        engine,
		logger:        slog.Default(),
		defaultMode:   models.LanguageModeStrict,
		maxCandidates: 500,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scorer describes the active scorer.
func (s *Service) Scorer() (string, models.ScoreRange) {
	return s.engine.Name(), s.engine.Range()
}

// run tracks one request through the state machine.
type run struct {
	req     models.ScreeningRequest
	outcome *models.Outcome
	tokens  []string
	start   time.Time
}

func (r *run) advance(to models.State) {
	r.outcome.State = to
}

// Screen screens one name. Errors are *models.ScreeningError tagged with the
// failing stage; no stage is retried.
func (s *Service) Screen(ctx context.Context, req models.ScreeningRequest) (*models.Outcome, error) {
	if req.RequestID == "" {
		req.RequestID = requestcontext.RequestID(ctx)
	}
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}

	ctx, span := tracer.Start(ctx, "screening.Screen", trace.WithAttributes(
		attribute.String("request_id", req.RequestID),
		attribute.String("record_type", string(req.Type)),
	))
	defer span.End()

	r := &run{
		req:   req,
		start: time.Now(),
		outcome: &models.Outcome{
			RequestID:  req.RequestID,
			Scorer:     s.engine.Name(),
			ScoreRange: s.engine.Range(),
			State:      models.StateReceived,
		},
	}

	if err := s.execute(ctx, r); err != nil {
		s.fail(ctx, span, r, err)
		return nil, err
	}
	s.complete(ctx, span, r)
	return r.outcome, nil
}

func (s *Service) execute(ctx context.Context, r *run) error {
	req := r.req
	if !req.Type.IsValid() {
		return models.InvalidRequest("record type must be ENTITY or INDIVIDUAL")
	}
	mode := req.Mode
	if mode == "" {
		mode = s.defaultMode
	}
	if mode != models.LanguageModeStrict && mode != models.LanguageModePermissive {
		return models.InvalidRequest("mode must be strict or permissive")
	}
	threshold, err := req.Threshold.Resolve(s.engine.Range())
	if err != nil {
		return err
	}
	r.outcome.Threshold = threshold

	// normalize; the length bound waits until segmentation or translation
	// has had a chance to split the name.
	tokens, err := s.stage(ctx, models.StageNormalize, func(context.Context) ([]string, error) {
		return s.normalizer.Tokens(req.Name)
	})
	if err != nil {
		return err
	}
	r.tokens = tokens
	r.advance(models.StateNormalized)

	// language
	var routed language.Routed
	_, err = s.stage(ctx, models.StageLanguage, func(ctx context.Context) ([]string, error) {
		routed, err = s.router.Route(ctx, req.Name, tokens, mode)
		return routed.Tokens, err
	})
	if err != nil {
		return err
	}
	r.tokens = routed.Tokens
	if err := s.normalizer.CheckLength(routed.Tokens); err != nil {
		return err
	}
	r.outcome.Query = routed.Tokens
	r.outcome.Language = routed.Language
	r.outcome.Translated = routed.Translated
	r.advance(models.StateLanguageRouted)

	// hash
	h := hashing.Compute(routed.Tokens, req.Type)
	r.outcome.BucketKey = h.BucketKey
	r.outcome.IdentityHash = h.IdentityHash
	r.advance(models.StateHashed)

	// retrieve
	candidates, err := s.stageRecords(ctx, models.StageRetrieve, func(ctx context.Context) ([]models.NameRecord, error) {
		return s.retriever.Retrieve(ctx, h.BucketKey, req.Type)
	})
	if err != nil {
		return err
	}
	candidates, truncated := capCandidates(candidates, s.maxCandidates)
	r.outcome.CandidateCount = len(candidates)
	r.outcome.Truncated = truncated
	s.metrics.ObserveCandidates(len(candidates) + truncated)
	s.metrics.AddTruncated(truncated)
	if truncated > 0 {
		s.logger.WarnContext(ctx, "candidate set truncated",
			"request_id", req.RequestID,
			"bucket_key", h.BucketKey,
			"kept", len(candidates),
			"dropped", truncated,
		)
	}
	r.advance(models.StateCandidatesRetrieved)

	// score
	batch, err := s.score(ctx, strings.Join(routed.Tokens, " "), candidates)
	if err != nil {
		return err
	}
	r.outcome.Skipped = batch.Skipped
	s.metrics.AddSkipped(s.engine.Name(), len(batch.Skipped))
	r.advance(models.StateScored)

	// decide
	r.outcome.Matches = decision.Rank(batch.Scored, threshold)
	r.outcome.DecidedAt = requestcontext.Now(ctx)
	r.advance(models.StateDecided)
	return nil
}

func (s *Service) stage(ctx context.Context, stage models.Stage, fn func(context.Context) ([]string, error)) ([]string, error) {
	ctx, span := tracer.Start(ctx, "screening."+string(stage))
	defer span.End()
	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage))
	}
	return out, err
}

func (s *Service) stageRecords(ctx context.Context, stage models.Stage, fn func(context.Context) ([]models.NameRecord, error)) ([]models.NameRecord, error) {
	ctx, span := tracer.Start(ctx, "screening."+string(stage))
	defer span.End()
	out, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(stage))
		return nil, err
	}
	span.SetAttributes(attribute.Int("candidates", len(out)))
	return out, nil
}

func (s *Service) score(ctx context.Context, query string, candidates []models.NameRecord) (*scoring.Batch, error) {
	ctx, span := tracer.Start(ctx, "screening.score", trace.WithAttributes(
		attribute.String("scorer", s.engine.Name()),
		attribute.Int("candidates", len(candidates)),
	))
	defer span.End()

	batch, err := s.engine.ScoreAll(ctx, query, candidates)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(models.StageScore))
		if _, ok := models.AsScreeningError(err); ok {
			return nil, err
		}
		return nil, &models.ScreeningError{
			Stage:   models.StageScore,
			Kind:    models.KindScoring,
			Message: "scoring engine unavailable",
			Err:     err,
		}
	}
	span.SetAttributes(attribute.Int("skipped", len(batch.Skipped)))
	return batch, nil
}

// capCandidates keeps the first n candidates by record id so truncation is
// the same on every run.
func capCandidates(candidates []models.NameRecord, n int) ([]models.NameRecord, int) {
	if n <= 0 || len(candidates) <= n {
		return candidates, 0
	}
	sorted := make([]models.NameRecord, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return sorted[:n], len(candidates) - n
}

func (s *Service) complete(ctx context.Context, span trace.Span, r *run) {
	out := r.outcome
	status := audit.DecisionClear
	if out.Matched() {
		status = audit.DecisionMatch
	}
	span.SetAttributes(
		attribute.String("decision", status),
		attribute.Int("matches", len(out.Matches)),
	)
	s.metrics.IncrementOutcome(status, string(models.StageDecide))
	s.metrics.ObserveScreenLatency(time.Since(r.start))

	s.logger.InfoContext(ctx, "screening decided",
		"request_id", out.RequestID,
		"record_type", r.req.Type,
		"language", out.Language,
		"translated", out.Translated,
		"scorer", out.Scorer,
		"candidates", out.CandidateCount,
		"skipped", len(out.Skipped),
		"matches", len(out.Matches),
		"duration_ms", time.Since(r.start).Milliseconds(),
	)

	s.emit(ctx, audit.Event{
		Action:      audit.ActionScreeningCompleted,
		RequestID:   out.RequestID,
		SubjectHash: out.IdentityHash,
		RecordType:  string(r.req.Type),
		Decision:    status,
		MatchCount:  len(out.Matches),
		Skipped:     len(out.Skipped),
		Scorer:      out.Scorer,
	})
}

func (s *Service) fail(ctx context.Context, span trace.Span, r *run, err error) {
	failedAt := r.outcome.State
	r.advance(models.StateFailed)

	stage, kind := models.StageRequest, models.ErrorKind("internal")
	if se, ok := models.AsScreeningError(err); ok {
		stage, kind = se.Stage, se.Kind
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, string(kind))
	span.SetAttributes(attribute.String("stage", string(stage)))
	s.metrics.IncrementOutcome(audit.DecisionFailed, string(stage))
	s.metrics.ObserveScreenLatency(time.Since(r.start))

	level := slog.LevelError
	if kind == models.KindInvalidName || kind == models.KindInvalidRequest ||
		kind == models.KindInvalidThreshold || kind == models.KindCanceled {
		level = slog.LevelInfo
	}
	s.logger.Log(ctx, level, "screening failed",
		"request_id", r.outcome.RequestID,
		"stage", stage,
		"kind", kind,
		"last_state", failedAt,
		"error", err,
	)

	subject := ""
	if len(r.tokens) > 0 {
		subject = hashing.IdentityHash(r.tokens)
	}
	s.emit(ctx, audit.Event{
		Action:      audit.ActionScreeningFailed,
		RequestID:   r.outcome.RequestID,
		SubjectHash: subject,
		RecordType:  string(r.req.Type),
		Decision:    audit.DecisionFailed,
		Stage:       string(stage),
		ErrorKind:   string(kind),
		Scorer:      r.outcome.Scorer,
	})
}

// emit never fails the screening; audit errors are logged.
func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.ClientAgent = requestcontext.ClientAgent(ctx)
	event.Operator = requestcontext.Operator(ctx)
	if err := s.auditor.Emit(context.WithoutCancel(ctx), event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"request_id", event.RequestID,
			"action", event.Action,
			"error", err,
		)
	}
}
