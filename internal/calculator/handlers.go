package calculator

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-roti/internal/common"
	"github.com/noah-isme/backend-roti/internal/pricing"
)

// Handler exposes the calculator endpoints.
type Handler struct {
	Svc *Service
}

type roundRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

type classifyRequest struct {
	Percentage decimal.Decimal `json:"percentage"`
}

func sessionFrom(r *http.Request) string {
	id, _ := common.SessionID(r.Context())
	return id
}

func (h *Handler) configured(w http.ResponseWriter) bool {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "calculator service not configured", nil)
		return false
	}
	return true
}

// Discount handles POST /api/v1/calculators/discount.
func (h *Handler) Discount(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	var req DiscountRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.Discount(r.Context(), sessionFrom(r), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, res)
}

// Bundling handles POST /api/v1/calculators/bundling.
func (h *Handler) Bundling(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	var req BundlingRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.Bundling(r.Context(), sessionFrom(r), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, res)
}

// HPP handles POST /api/v1/calculators/hpp.
func (h *Handler) HPP(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	var req HPPRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.HPP(r.Context(), sessionFrom(r), req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, res)
}

// Overhead handles POST /api/v1/calculators/overhead.
func (h *Handler) Overhead(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	var req OverheadRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.Overhead(req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, res)
}

// ROI handles POST /api/v1/calculators/roi.
func (h *Handler) ROI(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	var req ROIRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	res, err := h.Svc.ROI(req)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, res)
}

// History handles GET /api/v1/calculators/{kind}/history.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	kind, ok := ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "calculator has no history", nil)
		return
	}
	common.Data(w, http.StatusOK, h.Svc.History(sessionFrom(r), kind))
}

// EndSession handles DELETE /api/v1/calculators/session.
func (h *Handler) EndSession(w http.ResponseWriter, r *http.Request) {
	if !h.configured(w) {
		return
	}
	if h.Svc.Sessions != nil {
		h.Svc.Sessions.End(sessionFrom(r))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Round handles POST /api/v1/pricing/round.
func (h *Handler) Round(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	if err := common.ValidateStruct(req); err != nil {
		common.WriteError(w, err)
		return
	}
	common.Data(w, http.StatusOK, map[string]any{
		"amount":  req.Amount,
		"rounded": pricing.RoundToPricingConvention(req.Amount),
	})
}

// Classify handles POST /api/v1/pricing/classify.
func (h *Handler) Classify(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	band := pricing.Classify(req.Percentage.InexactFloat64())
	common.Data(w, http.StatusOK, map[string]any{
		"percentage": req.Percentage.InexactFloat64(),
		"band":       band,
		"label":      band.Label(),
	})
}
