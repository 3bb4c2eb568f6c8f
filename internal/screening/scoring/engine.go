package scoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/worker"
)

var (
	ErrEngineNotStarted = errors.New("scoring engine not started")
	ErrEngineClosed     = errors.New("scoring engine closed")
)

// Observer receives per-candidate scoring timings. status is "ok" or "error".
type Observer interface {
	ObserveCandidate(scorer, status string, d time.Duration)
}

// ScoredCandidate is a candidate with its native and unit-scale score.
type ScoredCandidate struct {
	Record models.NameRecord
	Raw    float64
	Unit   float64
}

// Batch is the result of scoring one candidate set. Scored is ordered by
// record id.
type Batch struct {
	Scored  []ScoredCandidate
	Skipped []models.SkippedCandidate
}

type job struct {
	ctx    context.Context
	query  string
	record models.NameRecord
	out    chan<- outcome
}

type outcome struct {
	record models.NameRecord
	raw    float64
	err    error
}

// Engine owns the active scorer and the worker pool that runs it.
type Engine struct {
	scorer           Scorer
	workers          int
	queueSize        int
	candidateTimeout time.Duration
	stopTimeout      time.Duration
	logger           *slog.Logger
	registerer       prometheus.Registerer
	observer         Observer

	pool      *worker.Pool[job]
	startOnce sync.Once
	closeOnce sync.Once
	startErr  error

	mu      sync.RWMutex
	started bool
	closed  bool
}

type EngineOption func(*Engine)

func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

func WithQueueSize(n int) EngineOption {
	return func(e *Engine) { e.queueSize = n }
}

// WithCandidateTimeout bounds each candidate's inference. Zero disables it.
func WithCandidateTimeout(d time.Duration) EngineOption {
	return func(e *Engine) { e.candidateTimeout = d }
}

func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = logger }
}

// WithRegisterer exposes the pool gauges on reg.
func WithRegisterer(reg prometheus.Registerer) EngineOption {
	return func(e *Engine) { e.registerer = reg }
}

func WithObserver(o Observer) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// NewEngine wraps scorer. Scorers reporting Exclusive() run on one worker
// regardless of WithWorkers.
func NewEngine(scorer Scorer, opts ...EngineOption) *Engine {
	e := &Engine{
		scorer:           scorer,
		workers:          4,
		queueSize:        256,
		candidateTimeout: 2 * time.Second,
		stopTimeout:      5 * time.Second,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if ex, ok := scorer.(Exclusive); ok && ex.Exclusive() {
		e.workers = 1
	}

	var poolOpts []worker.Option[job]
	if e.registerer != nil {
		poolOpts = append(poolOpts, worker.WithMetrics[job](e.registerer, "namescreen_scoring_pool"))
	}
	e.pool = worker.NewPool(e.workers, e.queueSize, e.process, poolOpts...)
	return e
}

func (e *Engine) Name() string { return e.scorer.Name() }

func (e *Engine) Range() models.ScoreRange { return e.scorer.Range() }

func (e *Engine) Workers() int { return e.workers }

func (e *Engine) Stats() worker.Stats { return e.pool.Stats() }

// Start loads the scorer's model and starts the workers. Only the first call
// does any work; later calls return its result.
func (e *Engine) Start(ctx context.Context) error {
	e.startOnce.Do(func() {
		if lc, ok := e.scorer.(Lifecycle); ok {
			start := time.Now()
			if err := lc.Load(ctx); err != nil {
				e.startErr = fmt.Errorf("load %s scorer: %w", e.scorer.Name(), err)
				return
			}
			e.logger.InfoContext(ctx, "scorer model loaded",
				"scorer", e.scorer.Name(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
		}
		// Workers outlive the caller's context; Close stops them.
		if err := e.pool.Start(context.WithoutCancel(ctx)); err != nil {
			e.startErr = err
			return
		}
		e.mu.Lock()
		e.started = true
		e.mu.Unlock()
	})
	return e.startErr
}

// Close drains the pool and releases the model.
func (e *Engine) Close() error {
	var err error
	e.closeOnce.Do(func() {
		e.mu.Lock()
		e.closed = true
		e.mu.Unlock()

		if stopErr := e.pool.Stop(e.stopTimeout); stopErr != nil {
			err = stopErr
		}
		if lc, ok := e.scorer.(Lifecycle); ok {
			err = errors.Join(err, lc.Close())
		}
	})
	return err
}

// ScoreAll scores every candidate against query. Malformed candidates and
// failed inferences are returned in Batch.Skipped; they never fail the call.
// Cancelling ctx stops dispatch and returns a canceled error; inference calls
// already running finish in the background.
func (e *Engine) ScoreAll(ctx context.Context, query string, candidates []models.NameRecord) (*Batch, error) {
	e.mu.RLock()
	started, closed := e.started, e.closed
	e.mu.RUnlock()
	switch {
	case closed:
		return nil, ErrEngineClosed
	case !started:
		return nil, ErrEngineNotStarted
	}

	batch := &Batch{}
	results := make(chan outcome, len(candidates))
	dispatched := 0

	for _, rec := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, models.Canceled(models.StageScore, err)
		}
		if err := rec.Validate(); err != nil {
			batch.Skipped = append(batch.Skipped, e.skip(ctx, rec, models.Scoring(rec.ID, err)))
			continue
		}
		err := e.pool.Submit(ctx, job{ctx: ctx, query: query, record: rec, out: results})
		if err != nil {
			if ctx.Err() != nil {
				return nil, models.Canceled(models.StageScore, ctx.Err())
			}
			return nil, fmt.Errorf("dispatch candidate %s: %w", rec.ID, err)
		}
		dispatched++
	}

	rng := e.scorer.Range()
	for range dispatched {
		select {
		case <-ctx.Done():
			return nil, models.Canceled(models.StageScore, ctx.Err())
		case res := <-results:
			if res.err != nil {
				batch.Skipped = append(batch.Skipped, e.skip(ctx, res.record, models.Scoring(res.record.ID, res.err)))
				continue
			}
			batch.Scored = append(batch.Scored, ScoredCandidate{
				Record: res.record,
				Raw:    res.raw,
				Unit:   rng.Normalize(res.raw),
			})
		}
	}

	sort.Slice(batch.Scored, func(i, j int) bool {
		return batch.Scored[i].Record.ID < batch.Scored[j].Record.ID
	})
	sort.Slice(batch.Skipped, func(i, j int) bool {
		return batch.Skipped[i].CandidateID < batch.Skipped[j].CandidateID
	})
	return batch, nil
}

func (e *Engine) skip(ctx context.Context, rec models.NameRecord, err *models.ScreeningError) models.SkippedCandidate {
	e.logger.WarnContext(ctx, "candidate skipped",
		"candidate_id", rec.ID,
		"scorer", e.scorer.Name(),
		"error", err,
	)
	return models.SkippedCandidate{CandidateID: rec.ID, Error: err.Error()}
}

// process runs on a pool worker. It always sends exactly one outcome.
func (e *Engine) process(_ context.Context, j job) (err error) {
	start := time.Now()
	var raw float64
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scorer panicked: %v", r)
		}
		status := "ok"
		if err != nil {
			status = "error"
		}
		if e.observer != nil {
			e.observer.ObserveCandidate(e.scorer.Name(), status, time.Since(start))
		}
		j.out <- outcome{record: j.record, raw: raw, err: err}
	}()

	if err := j.ctx.Err(); err != nil {
		return err
	}
	ctx := j.ctx
	if e.candidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.candidateTimeout)
		defer cancel()
	}

	raw, err = e.scorer.Score(ctx, j.query, j.record.FullName())
	if err != nil {
		return err
	}
	rng := e.scorer.Range()
	if math.IsNaN(raw) || !rng.Contains(raw) {
		return fmt.Errorf("score %g outside scorer range %s", raw, rng)
	}
	return nil
}
