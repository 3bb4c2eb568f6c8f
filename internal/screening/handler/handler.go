package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"namescreen/internal/screening/models"
	"namescreen/pkg/platform/httputil"
	"namescreen/pkg/requestcontext"
)

// Service defines the interface for screening operations.
type Service interface {
	Screen(ctx context.Context, req models.ScreeningRequest) (*models.Outcome, error)
}

// Handler wires screening endpoints to the screening service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts screening endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/screen", h.HandleScreen)
}

// HandleScreen handles POST /v1/screen requests.
func (h *Handler) HandleScreen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScreenRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	outcome, err := h.service.Screen(ctx, req.ToModel(requestID))
	if err != nil {
		// The service has already logged the failure with its stage.
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "screening request served",
		"request_id", requestID,
		"matched", outcome.Matched(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromOutcome(outcome))
}
