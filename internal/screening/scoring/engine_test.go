package scoring

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"namescreen/internal/screening/hashing"
	"namescreen/internal/screening/models"
)

// stubScorer scores with fn and counts lifecycle calls.
type stubScorer struct {
	fn        func(ctx context.Context, query, candidate string) (float64, error)
	rng       models.ScoreRange
	exclusive bool
	loadErr   error

	loads  atomic.Int32
	closes atomic.Int32
}

func (s *stubScorer) Name() string { return "stub" }

func (s *stubScorer) Range() models.ScoreRange { return s.rng }

func (s *stubScorer) Exclusive() bool { return s.exclusive }

func (s *stubScorer) Score(ctx context.Context, query, candidate string) (float64, error) {
	return s.fn(ctx, query, candidate)
}

func (s *stubScorer) Load(context.Context) error {
	s.loads.Add(1)
	return s.loadErr
}

func (s *stubScorer) Close() error {
	s.closes.Add(1)
	return nil
}

type countingObserver struct {
	mu     sync.Mutex
	status map[string]int
}

func (o *countingObserver) ObserveCandidate(_, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.status[status]++
}

func candidate(id string, tokens ...string) models.NameRecord {
	return models.NameRecord{
		ID:        id,
		Type:      models.RecordTypeIndividual,
		Tokens:    tokens,
		BucketKey: hashing.BucketKey(tokens, models.RecordTypeIndividual),
	}
}

type EngineSuite struct {
	suite.Suite
	ctx    context.Context
	logger *slog.Logger
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func (s *EngineSuite) newEngine(scorer Scorer, opts ...EngineOption) *Engine {
	opts = append([]EngineOption{WithEngineLogger(s.logger)}, opts...)
	e := NewEngine(scorer, opts...)
	s.Require().NoError(e.Start(s.ctx))
	s.T().Cleanup(func() { _ = e.Close() })
	return e
}

func (s *EngineSuite) TestLexicalBatch() {
	e := s.newEngine(NewLexicalScorer())

	batch, err := e.ScoreAll(s.ctx, "jane janald", []models.NameRecord{
		candidate("B", "jane", "danald"),
		candidate("A", "jane", "janald"),
	})
	s.Require().NoError(err)
	s.Require().Len(batch.Scored, 2)
	s.Empty(batch.Skipped)

	s.Equal("A", batch.Scored[0].Record.ID)
	s.Equal(100.0, batch.Scored[0].Raw)
	s.Equal(1.0, batch.Scored[0].Unit)
	s.Equal("B", batch.Scored[1].Record.ID)
	s.Equal(91.0, batch.Scored[1].Raw)
	s.InDelta(0.91, batch.Scored[1].Unit, 1e-12)
}

func (s *EngineSuite) TestEmptyCandidateSet() {
	e := s.newEngine(NewLexicalScorer())
	batch, err := e.ScoreAll(s.ctx, "john doe", nil)
	s.Require().NoError(err)
	s.Empty(batch.Scored)
	s.Empty(batch.Skipped)
}

func (s *EngineSuite) TestMalformedCandidateIsSkipped() {
	e := s.newEngine(NewLexicalScorer())

	missingName := models.NameRecord{ID: "BAD", Type: models.RecordTypeIndividual}
	batch, err := e.ScoreAll(s.ctx, "john doe", []models.NameRecord{
		candidate("OK", "jane", "danald"),
		missingName,
	})
	s.Require().NoError(err)
	s.Require().Len(batch.Scored, 1)
	s.Equal("OK", batch.Scored[0].Record.ID)
	s.Require().Len(batch.Skipped, 1)
	s.Equal("BAD", batch.Skipped[0].CandidateID)
	s.Contains(batch.Skipped[0].Error, "no name tokens")
}

func (s *EngineSuite) TestInferenceFailuresAreIsolated() {
	observer := &countingObserver{status: map[string]int{}}
	scorer := &stubScorer{
		rng: ClassifierRange,
		fn: func(_ context.Context, _, c string) (float64, error) {
			switch c {
			case "bad apple":
				return 0, errors.New("inference failed")
			case "panic button":
				panic("boom")
			case "out range":
				return 7, nil
			}
			return 0.75, nil
		},
	}
	e := s.newEngine(scorer, WithObserver(observer))

	batch, err := e.ScoreAll(s.ctx, "q q", []models.NameRecord{
		candidate("1", "good", "one"),
		candidate("2", "bad", "apple"),
		candidate("3", "panic", "button"),
		candidate("4", "out", "range"),
		candidate("5", "good", "two"),
	})
	s.Require().NoError(err)
	s.Require().Len(batch.Scored, 2)
	s.Equal("1", batch.Scored[0].Record.ID)
	s.Equal("5", batch.Scored[1].Record.ID)

	s.Require().Len(batch.Skipped, 3)
	s.Equal("2", batch.Skipped[0].CandidateID)
	s.Contains(batch.Skipped[0].Error, "inference failed")
	s.Equal("3", batch.Skipped[1].CandidateID)
	s.Contains(batch.Skipped[1].Error, "panicked")
	s.Equal("4", batch.Skipped[2].CandidateID)
	s.Contains(batch.Skipped[2].Error, "outside scorer range")

	observer.mu.Lock()
	defer observer.mu.Unlock()
	s.Equal(2, observer.status["ok"])
	s.Equal(3, observer.status["error"])
}

func (s *EngineSuite) TestCandidateTimeout() {
	scorer := &stubScorer{
		rng: ClassifierRange,
		fn: func(ctx context.Context, _, c string) (float64, error) {
			if c == "slow one" {
				<-ctx.Done()
				return 0, ctx.Err()
			}
			return 0.5, nil
		},
	}
	e := s.newEngine(scorer, WithCandidateTimeout(20*time.Millisecond))

	batch, err := e.ScoreAll(s.ctx, "q q", []models.NameRecord{
		candidate("fast", "fast", "one"),
		candidate("slow", "slow", "one"),
	})
	s.Require().NoError(err)
	s.Require().Len(batch.Scored, 1)
	s.Require().Len(batch.Skipped, 1)
	s.Equal("slow", batch.Skipped[0].CandidateID)
	s.Contains(batch.Skipped[0].Error, context.DeadlineExceeded.Error())
}

func (s *EngineSuite) TestCanceledRequest() {
	e := s.newEngine(NewLexicalScorer())
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := e.ScoreAll(ctx, "john doe", []models.NameRecord{candidate("A", "jane", "danald")})
	s.Require().Error(err)
	s.True(models.IsKind(err, models.KindCanceled))
	se, ok := models.AsScreeningError(err)
	s.Require().True(ok)
	s.Equal(models.StageScore, se.Stage)
}

func (s *EngineSuite) TestCancellationStopsDispatch() {
	release := make(chan struct{})
	var started atomic.Int32
	scorer := &stubScorer{
		rng:       ClassifierRange,
		exclusive: true,
		fn: func(context.Context, string, string) (float64, error) {
			started.Add(1)
			<-release
			return 0.5, nil
		},
	}
	e := s.newEngine(scorer, WithQueueSize(1), WithCandidateTimeout(0))

	ctx, cancel := context.WithCancel(s.ctx)
	candidates := make([]models.NameRecord, 10)
	for i := range candidates {
		candidates[i] = candidate(string(rune('a'+i)), "x", "y")
	}
	done := make(chan error, 1)
	go func() {
		_, err := e.ScoreAll(ctx, "x y", candidates)
		done <- err
	}()

	s.Eventually(func() bool { return started.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	err := <-done
	close(release)

	s.True(models.IsKind(err, models.KindCanceled))
	s.Less(e.Stats().Submitted, int64(len(candidates)))
}

func (s *EngineSuite) TestExclusiveScorerRunsOnOneWorker() {
	var inFlight, peak atomic.Int32
	scorer := &stubScorer{
		rng:       ClassifierRange,
		exclusive: true,
		fn: func(context.Context, string, string) (float64, error) {
			n := inFlight.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			inFlight.Add(-1)
			return 0.5, nil
		},
	}
	e := s.newEngine(scorer, WithWorkers(8))
	s.Equal(1, e.Workers())

	candidates := make([]models.NameRecord, 20)
	for i := range candidates {
		candidates[i] = candidate(string(rune('a'+i)), "x", "y")
	}
	var wg sync.WaitGroup
	for range 3 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			batch, err := e.ScoreAll(s.ctx, "x y", candidates)
			s.NoError(err)
			s.Len(batch.Scored, len(candidates))
		}()
	}
	wg.Wait()
	s.Equal(int32(1), peak.Load())
}

func (s *EngineSuite) TestPoolMetricsRegistered() {
	reg := prometheus.NewRegistry()
	e := s.newEngine(NewLexicalScorer(), WithRegisterer(reg))
	_, err := e.ScoreAll(s.ctx, "john doe", []models.NameRecord{candidate("A", "jane", "danald")})
	s.Require().NoError(err)

	families, err := reg.Gather()
	s.Require().NoError(err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	s.Contains(names, "namescreen_scoring_pool_queue_depth")
}

func TestEngine_LoadsModelOnce(t *testing.T) {
	scorer := &stubScorer{rng: ClassifierRange, fn: func(context.Context, string, string) (float64, error) { return 1, nil }}
	e := NewEngine(scorer)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, e.Start(context.Background()))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), scorer.loads.Load())

	for range 5 {
		_, err := e.ScoreAll(context.Background(), "a b", []models.NameRecord{candidate("1", "a", "b")})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), scorer.loads.Load(), "scoring never reloads the model")

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())
	assert.Equal(t, int32(1), scorer.closes.Load())

	_, err := e.ScoreAll(context.Background(), "a b", nil)
	assert.ErrorIs(t, err, ErrEngineClosed)
}

func TestEngine_LoadFailure(t *testing.T) {
	scorer := &stubScorer{rng: ClassifierRange, loadErr: errors.New("weights missing")}
	e := NewEngine(scorer)

	err := e.Start(context.Background())
	require.ErrorContains(t, err, "weights missing")
	assert.ErrorContains(t, e.Start(context.Background()), "weights missing")

	_, err = e.ScoreAll(context.Background(), "a b", nil)
	assert.ErrorIs(t, err, ErrEngineNotStarted)
}

func TestNewScorer(t *testing.T) {
	tests := []struct {
		cfg       Config
		name      string
		exclusive bool
		wantErr   bool
	}{
		{cfg: Config{}, name: "lexical"},
		{cfg: Config{Strategy: "LEXICAL"}, name: "lexical"},
		{cfg: Config{Strategy: "semantic"}, name: "semantic"},
		{cfg: Config{Strategy: "semantic", Exclusive: true, Embedding: EmbeddingConfig{Provider: "openai", CacheTTL: time.Minute}}, name: "semantic", exclusive: true},
		{cfg: Config{Strategy: "classifier"}, name: "classifier"},
		{cfg: Config{Strategy: "classifier", Classifier: ClassifierConfig{Provider: "openai"}}, name: "classifier"},
		{cfg: Config{Strategy: "ensemble"}, wantErr: true},
		{cfg: Config{Strategy: "semantic", Embedding: EmbeddingConfig{Provider: "bert"}}, wantErr: true},
		{cfg: Config{Strategy: "classifier", Classifier: ClassifierConfig{Provider: "bert"}}, wantErr: true},
	}
	for _, tt := range tests {
		scorer, err := NewScorer(tt.cfg)
		if tt.wantErr {
			assert.Error(t, err, "%+v", tt.cfg)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.name, scorer.Name())
		ex, ok := scorer.(Exclusive)
		if ok {
			assert.Equal(t, tt.exclusive, ex.Exclusive())
		}
	}
}
