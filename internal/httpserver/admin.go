package httpserver

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"tiffinOrderManagement/internal/auth"
	"tiffinOrderManagement/models"
	"tiffinOrderManagement/repository"
)

// requireAdmin gates a handler behind the admin session token issued by
// /admin/login.
func (h *Handler) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.RequireAdmin(r, h.cfg.Admin.JWTSecret); err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		next(w, r)
	}
}

func (h *Handler) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := readBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if !auth.VerifyPIN(req.PIN, h.cfg.Admin.PIN) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": false})
		return
	}
	token, err := auth.IssueAdminToken(h.cfg.Admin.JWTSecret, h.cfg.Admin.TokenTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "token": token})
}

func (h *Handler) adminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) adminSetStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var req struct {
		Status string `json:"status"`
	}
	if err := readBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if !models.ValidStatus(req.Status) {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown status "+req.Status)
		return
	}
	to := models.OrderStatus(req.Status)

	order, err := h.orders.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if !order.Status.CanTransitionTo(to) {
		writeError(w, http.StatusBadRequest, "invalid_transition", string(order.Status)+" -> "+req.Status)
		return
	}
	if order.Status == to {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
		return
	}

	applied, err := h.orders.UpdateStatus(r.Context(), id, order.Status, to)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", "")
		return
	}
	if !applied {
		// Lost the race with another transition out of the same state.
		writeError(w, http.StatusConflict, "conflict", "order status changed concurrently")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}
