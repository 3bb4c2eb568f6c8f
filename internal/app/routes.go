package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	platformmetrics "namescreen/internal/platform/metrics"
	ratelimit "namescreen/internal/ratelimit/middleware"
	ratemodels "namescreen/internal/ratelimit/models"
	"namescreen/internal/ratelimit/store/bucket"
	registryhandler "namescreen/internal/registry/handler"
	screeninghandler "namescreen/internal/screening/handler"
	"namescreen/pkg/platform/httputil"
	"namescreen/pkg/platform/middleware/metadata"
	"namescreen/pkg/platform/middleware/requestid"
	"namescreen/pkg/platform/middleware/requesttime"
)

type healthResponse struct {
	Status  string `json:"status"`
	Scorer  string `json:"scorer"`
	Records int    `json:"records"`
	Cache   string `json:"cache,omitempty"`
}

func (a *App) routes() http.Handler {
	httpMetrics := platformmetrics.NewHTTP(a.Metrics)

	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(httpMetrics.Middleware)

	r.Get("/healthz", a.handleHealth)
	r.Handle("/metrics", platformmetrics.Handler(a.Metrics))

	limiter := a.rateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(limiter.RateLimit(ratemodels.ClassScreen))
		screeninghandler.New(a.Screening, a.Logger).Register(r)
	})

	// A nil *ingest.Service must not become a non-nil interface.
	var refresher registryhandler.Refresher
	if a.Ingest != nil {
		refresher = a.Ingest
	}
	r.Group(func(r chi.Router) {
		r.Use(limiter.RateLimit(ratemodels.ClassRegistry))
		registryhandler.New(a.Backend, refresher, []byte(a.Config.Server.AdminSecret), a.Logger).Register(r)
	})
	return r
}

func (a *App) rateLimiter() *ratelimit.Middleware {
	cfg := a.Config.RateLimit
	var store ratelimit.Store
	if a.redis != nil {
		store = bucket.NewRedisBucketStore(a.redis.Client)
	} else {
		store = bucket.NewInMemoryBucketStore()
	}
	return ratelimit.New(store, a.Logger,
		ratelimit.WithDisabled(!cfg.Enabled),
		ratelimit.WithRegisterer(a.Metrics),
		ratelimit.WithLimit(ratemodels.ClassScreen, ratelimit.Limit{Requests: cfg.Screen.Requests, Window: cfg.Screen.Window}),
		ratelimit.WithLimit(ratemodels.ClassRegistry, ratelimit.Limit{Requests: cfg.Registry.Requests, Window: cfg.Registry.Window}),
	)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Status: "ok", Scorer: a.Engine.Name()}

	stats, err := a.Backend.Count(ctx)
	if err != nil {
		a.Logger.WarnContext(ctx, "health check: registry unavailable", "error", err)
		resp.Status = "degraded"
	}
	resp.Records = stats.Total

	if a.redis != nil {
		resp.Cache = "ok"
		if err := a.redis.Health(ctx); err != nil || !a.cache.Healthy() {
			resp.Cache = "degraded"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, status, resp)
}
