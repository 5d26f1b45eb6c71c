package handlers

import (
	"net/http"

	"parcelbee-client/internal/logx"
	"parcelbee-client/internal/service/pricing"
)

// EstimateHandler quotes prices on the local console.
type EstimateHandler struct {
	estimator priceEstimator
	logger    logx.Logger
}

// NewEstimateHandler creates a new EstimateHandler.
func NewEstimateHandler(logger logx.Logger, e priceEstimator) *EstimateHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &EstimateHandler{estimator: e, logger: logger}
}

// Estimate handles POST /estimate.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	est, err := h.estimator.Estimate(r.Context(), pricing.Request{
		PickupAddress: req.PickupAddress,
		DropAddress:   req.DropAddress,
		Weight:        req.Weight,
		Pickup:        coords(req.PickupLat, req.PickupLng),
		Drop:          coords(req.DropLat, req.DropLng),
	})
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, estimateToResponse(est))
}

// Latest handles GET /estimate and returns the quote Create would attach.
func (h *EstimateHandler) Latest(w http.ResponseWriter, r *http.Request) {
	est, ok := h.estimator.Latest()
	if !ok {
		writeError(h.logger, w, r, http.StatusNotFound, "no estimate yet")
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, estimateToResponse(est))
}
