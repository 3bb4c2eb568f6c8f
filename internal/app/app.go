// Package app assembles the screening service from configuration and owns the
// lifetime of everything it opens.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"namescreen/internal/ingest"
	"namescreen/internal/platform/config"
	"namescreen/internal/platform/httpserver"
	platformkafka "namescreen/internal/platform/kafka"
	platformredis "namescreen/internal/platform/redis"
	"namescreen/internal/registry"
	"namescreen/internal/registry/store/cache"
	"namescreen/internal/registry/store/memory"
	"namescreen/internal/registry/store/postgres"
	"namescreen/internal/registry/store/sqlite"
	"namescreen/internal/screening/language"
	screenmetrics "namescreen/internal/screening/metrics"
	"namescreen/internal/screening/models"
	"namescreen/internal/screening/normalize"
	"namescreen/internal/screening/ports"
	"namescreen/internal/screening/retrieval"
	"namescreen/internal/screening/scoring"
	"namescreen/internal/screening/service"
	"namescreen/pkg/platform/audit"
	"namescreen/pkg/platform/audit/publisher"
	auditkafka "namescreen/pkg/platform/audit/store/kafka"
	auditmemory "namescreen/pkg/platform/audit/store/memory"
	auditpostgres "namescreen/pkg/platform/audit/store/postgres"
)

// Backend is a registry that can be read, replaced and counted.
type Backend interface {
	ports.Registry
	ports.RegistryWriter
	registry.Counter
}

type App struct {
	Config    *config.Config
	Logger    *slog.Logger
	Screening *service.Service
	Engine    *scoring.Engine
	// Ingest is nil when no watchlist sources are configured.
	Ingest   *ingest.Service
	Backend  Backend
	Metrics  *prometheus.Registry
	Router   http.Handler
	Auditor  *publisher.Publisher
	cache    *cache.Registry
	redis    *platformredis.Client
	closers  []func() error
	shutdown time.Duration
}

// New wires every component named by cfg and starts the scoring engine. On
// error, anything already opened is closed.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (a *App, err error) {
	a = &App{
		Config:   cfg,
		Logger:   logger,
		Metrics:  prometheus.NewRegistry(),
		shutdown: cfg.Server.ShutdownTimeout,
	}
	defer func() {
		if err != nil {
			_ = a.Close()
			a = nil
		}
	}()
	a.Metrics.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	screening := screenmetrics.New(a.Metrics)

	if a.Backend, err = a.openBackend(ctx); err != nil {
		return a, err
	}
	var reader ports.Registry = a.Backend
	if a.redis, err = platformredis.New(ctx, cfg.Redis); err != nil {
		return a, err
	}
	if a.redis != nil {
		a.closers = append(a.closers, a.redis.Close)
		a.cache = cache.New(a.Backend, a.redis.Client,
			cache.WithTTL(cfg.Redis.CacheTTL),
			cache.WithPrefix(cfg.Redis.Prefix),
			cache.WithLogger(logger),
		)
		reader = a.cache
	}

	if a.Auditor, err = a.openAuditor(ctx); err != nil {
		return a, err
	}

	normalizer := normalize.New(normalize.WithStrictLength(cfg.Screening.StrictLength))
	router, err := a.languageRouter(normalizer)
	if err != nil {
		return a, err
	}

	if a.Engine, err = a.startEngine(ctx, screening); err != nil {
		return a, err
	}

	mode, err := models.ParseLanguageMode(cfg.Screening.DefaultMode, models.LanguageModeStrict)
	if err != nil {
		return a, err
	}
	a.Screening = service.New(
		normalizer,
		router,
		retrieval.New(reader, logger, screening),
		a.Engine,
		service.WithAuditPublisher(a.Auditor),
		service.WithMetrics(screening),
		service.WithLogger(logger),
		service.WithDefaultMode(mode),
		service.WithMaxCandidates(cfg.Screening.MaxCandidates),
	)

	if a.Ingest, err = a.ingestService(); err != nil {
		return a, err
	}
	a.Router = a.routes()
	return a, nil
}

func (a *App) openBackend(ctx context.Context) (Backend, error) {
	switch strings.ToLower(a.Config.Registry.Backend) {
	case "sqlite":
		store, err := sqlite.Open(ctx, a.Config.Registry.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		return store, nil
	case "postgres":
		store, err := postgres.Open(ctx, a.Config.Registry.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store.Close)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return store, nil
	default:
		return memory.New(), nil
	}
}

func (a *App) openAuditor(ctx context.Context) (*publisher.Publisher, error) {
	var store audit.Store
	switch strings.ToLower(a.Config.Audit.Sink) {
	case "kafka":
		client, err := platformkafka.New(ctx, a.Config.Kafka, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() error { client.Close(); return nil })
		store = auditkafka.New(client, a.Config.Kafka.Topic)
	case "postgres":
		pg, err := auditpostgres.Open(ctx, a.Config.AuditDSN())
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pg.Close)
		store = pg
	default:
		store = auditmemory.NewInMemoryStore()
	}

	opts := []publisher.Option{publisher.WithLogger(a.Logger)}
	if a.Config.Audit.Buffer > 0 {
		opts = append(opts, publisher.WithAsyncBuffer(a.Config.Audit.Buffer))
	}
	p := publisher.NewPublisher(store, opts...)
	a.closers = append(a.closers, func() error { p.Close(); return nil })
	return p, nil
}

func (a *App) languageRouter(normalizer *normalize.Normalizer) (*language.Router, error) {
	cfg := a.Config
	opts := []language.RouterOption{
		language.WithCanonicalLanguages(cfg.Screening.CanonicalLanguages...),
		language.WithLogger(a.Logger),
	}
	if cfg.Translator.Enabled {
		var t ports.Translator = language.NewOpenAITranslator(language.OpenAIConfig{
			APIKey:  cfg.Translator.OpenAI.APIKey,
			BaseURL: cfg.Translator.OpenAI.BaseURL,
			Model:   cfg.Translator.OpenAI.Model,
			Timeout: cfg.Translator.OpenAI.Timeout,
		})
		if cfg.Translator.RatePerSecond > 0 {
			t = language.NewRateLimitedTranslator(t, cfg.Translator.RatePerSecond, cfg.Translator.Burst)
		}
		if cfg.Translator.CacheTTL > 0 {
			t = language.NewCachedTranslator(t, cfg.Translator.CacheTTL)
		}
		opts = append(opts, language.WithTranslator(t))
	}
	if cfg.Screening.Segmentation {
		seg, err := language.NewKagomeSegmenter()
		if err != nil {
			return nil, fmt.Errorf("load japanese segmenter: %w", err)
		}
		opts = append(opts, language.WithSegmenter("ja", seg))
	}
	return language.NewRouter(language.NewScriptDetector(), normalizer, opts...), nil
}

func (a *App) startEngine(ctx context.Context, observer scoring.Observer) (*scoring.Engine, error) {
	sc := a.Config.Scoring
	scorer, err := scoring.NewScorer(scoring.Config{
		Strategy:  sc.Strategy,
		Exclusive: sc.Exclusive,
		Embedding: scoring.EmbeddingConfig{
			Provider:   sc.Embedding.Provider,
			Dimensions: sc.Embedding.Dimensions,
			CacheTTL:   sc.Embedding.CacheTTL,
			OpenAI:     scoringOpenAI(sc.Embedding.OpenAI),
		},
		Classifier: scoring.ClassifierConfig{
			Provider: sc.Classifier.Provider,
			OpenAI:   scoringOpenAI(sc.Classifier.OpenAI),
		},
	})
	if err != nil {
		return nil, err
	}

	opts := []scoring.EngineOption{
		scoring.WithCandidateTimeout(sc.CandidateTimeout),
		scoring.WithEngineLogger(a.Logger),
		scoring.WithRegisterer(a.Metrics),
		scoring.WithObserver(observer),
	}
	if sc.Workers > 0 {
		opts = append(opts, scoring.WithWorkers(sc.Workers))
	}
	if sc.QueueSize > 0 {
		opts = append(opts, scoring.WithQueueSize(sc.QueueSize))
	}
	engine := scoring.NewEngine(scorer, opts...)
	a.closers = append(a.closers, engine.Close)
	if err := engine.Start(ctx); err != nil {
		return nil, err
	}
	return engine, nil
}

func scoringOpenAI(c config.OpenAI) scoring.OpenAIConfig {
	return scoring.OpenAIConfig{APIKey: c.APIKey, BaseURL: c.BaseURL, Model: c.Model, Timeout: c.Timeout}
}

func (a *App) ingestService() (*ingest.Service, error) {
	cfg := a.Config.Ingest
	if len(cfg.Sources) == 0 {
		return nil, nil
	}
	sources := make([]ingest.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		format, ok := ingest.ParseFormat(src.Format)
		if !ok {
			return nil, fmt.Errorf("source %s: unsupported format %q", src.Name, src.Format)
		}
		sources = append(sources, ingest.Source{Name: src.Name, Format: format, Location: src.Location})
	}
	opts := []ingest.Option{
		ingest.WithFetcher(ingest.NewFetcher(nil, cfg.Timeout)),
		ingest.WithAuditPublisher(a.Auditor),
		ingest.WithLogger(a.Logger),
	}
	if a.cache != nil {
		opts = append(opts, ingest.WithInvalidator(a.cache))
	}
	return ingest.NewService(sources, a.Backend, opts...), nil
}

// Run serves HTTP until ctx ends. With ingest.on_startup the registry is
// loaded in the background; a failed load is logged and the server keeps
// serving whatever the registry already holds.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	if a.Config.Ingest.OnStartup && a.Ingest != nil {
		g.Go(func() error {
			if _, err := a.Ingest.Refresh(gctx); err != nil {
				a.Logger.ErrorContext(gctx, "startup ingestion failed", "error", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		srv := httpserver.New(a.Config.Server.Addr, a.Router, a.Config.Server.ReadHeaderTimeout)
		return httpserver.Run(gctx, srv, a.shutdown, a.Logger)
	})
	return g.Wait()
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for _, closer := range slices.Backward(a.closers) {
		if err := closer(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
