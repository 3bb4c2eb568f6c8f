// Package handler exposes registry stats and the operator refresh endpoint.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"namescreen/internal/ingest"
	"namescreen/internal/registry"
	dErrors "namescreen/pkg/domain-errors"
	"namescreen/pkg/platform/httputil"
	"namescreen/pkg/platform/middleware/admin"
	"namescreen/pkg/requestcontext"
)

// Refresher re-runs ingestion.
type Refresher interface {
	Refresh(ctx context.Context) (*ingest.Report, error)
}

type Handler struct {
	counter     registry.Counter
	refresher   Refresher
	adminSecret []byte
	logger      *slog.Logger
}

// New builds the handler. refresher may be nil when no sources are configured;
// the refresh endpoint then answers 404.
func New(counter registry.Counter, refresher Refresher, adminSecret []byte, logger *slog.Logger) *Handler {
	return &Handler{
		counter:     counter,
		refresher:   refresher,
		adminSecret: adminSecret,
		logger:      logger,
	}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/registry/stats", h.HandleStats)
	r.With(admin.RequireAdmin(h.adminSecret, h.logger)).Post("/v1/admin/registry/refresh", h.HandleRefresh)
}

// HandleStats handles GET /v1/registry/stats.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.counter.Count(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to count registry records",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "registry unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

// HandleRefresh handles POST /v1/admin/registry/refresh.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.refresher == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "no watchlist sources configured"))
		return
	}

	report, err := h.refresher.Refresh(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "registry refresh requested",
		"request_id", requestcontext.RequestID(ctx),
		"operator", requestcontext.Operator(ctx),
		"built", report.Built,
	)
	httputil.WriteJSON(w, http.StatusOK, report)
}
