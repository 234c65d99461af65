package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apierrors "profitpilot/internal/errors"
	"profitpilot/internal/middleware"
	api "profitpilot/pkg/contracts/api/v1"
)

// TipHandler serves the dashboard's "refresh tip" button.
type TipHandler struct {
	service      TipService
	validator    *middleware.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewTipHandler creates a new tip handler
func NewTipHandler(service TipService, validator *middleware.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *TipHandler {
	return &TipHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("handler", "tip")),
		errorHandler: errorHandler,
	}
}

// tipPayload adapts the v1 request to render.Binder.
type tipPayload struct {
	api.TipRequest
}

func (p *tipPayload) Bind(r *http.Request) error {
	return nil
}

// RefreshTip handles POST /api/insights/tip
func (h *TipHandler) RefreshTip(w http.ResponseWriter, r *http.Request) {
	payload := &tipPayload{}
	if err := render.Bind(r, payload); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if err := h.validator.ValidateStruct(payload.TipRequest); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	tip := h.service.RefreshTip(r.Context(), payload.TipRequest)
	render.JSON(w, r, api.TipResponse{
		Success:      true,
		Optimization: tip.Text,
		Origin:       string(tip.Origin),
	})
}
