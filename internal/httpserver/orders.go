package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tiffinOrderManagement/internal/payments"
	"tiffinOrderManagement/internal/pricing"
	"tiffinOrderManagement/models"
)

func (h *Handler) menuHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"pricing": h.engine.Table()})
}

func (h *Handler) deliveryFeeHandler(w http.ResponseWriter, r *http.Request) {
	km, err := strconv.ParseFloat(r.URL.Query().Get("km"), 64)
	if err != nil || km < 0 {
		km = 0
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"km": km, "fee": h.engine.DeliveryFee(km)})
}

type createOrderRequest struct {
	Mobile     string  `json:"mobile"`
	Type       string  `json:"type"`
	Qty        int     `json:"qty"`
	DistanceKm float64 `json:"distanceKm"`
	Note       string  `json:"note"`
}

func (h *Handler) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := readBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if strings.TrimSpace(req.Mobile) == "" {
		writeError(w, http.StatusBadRequest, "missing_parameters", "mobile is required")
		return
	}
	if req.Qty == 0 {
		req.Qty = 1
	}
	if req.DistanceKm < 0 {
		writeError(w, http.StatusBadRequest, "invalid_distance", "distanceKm must be non-negative")
		return
	}

	// Amount comes from the pricing engine, never from the client.
	quote, err := h.engine.Quote(models.PlanType(req.Type), req.Qty, req.DistanceKm)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrUnknownPlanType):
			writeError(w, http.StatusBadRequest, "unknown_plan_type", "unknown plan type "+req.Type)
		case errors.Is(err, pricing.ErrInvalidQuantity):
			writeError(w, http.StatusBadRequest, "invalid_quantity", "qty must be a positive integer")
		default:
			writeError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	order, err := h.orders.Create(r.Context(), &models.Order{
		Mobile:      strings.TrimSpace(req.Mobile),
		PlanType:    models.PlanType(req.Type),
		Qty:         req.Qty,
		DistanceKm:  req.DistanceKm,
		Note:        req.Note,
		UnitPrice:   quote.UnitPrice,
		DeliveryFee: quote.DeliveryFee,
		Amount:      quote.Amount,
		Status:      models.OrderStatusPendingPayment,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	payURL := payments.UPIDeepLink(payments.UPIParams{
		PayeeVPA:  h.cfg.UPI.VPA,
		PayeeName: h.cfg.UPI.BusinessName,
		Amount:    order.Amount,
		Note:      "Order " + order.ID,
	})
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":    true,
		"order": order,
		"payment": map[string]interface{}{
			"upiUrl": payURL,
			"amount": order.Amount,
		},
	})
}
