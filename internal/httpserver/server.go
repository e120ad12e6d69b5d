package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"tiffinOrderManagement/internal/config"
	"tiffinOrderManagement/internal/payments"
	"tiffinOrderManagement/internal/pricing"
	"tiffinOrderManagement/repository"
)

// Handler bundles the dependencies of the HTTP surface.
type Handler struct {
	cfg      *config.Config
	engine   *pricing.Engine
	orders   repository.OrderRepositoryI
	payments *payments.Service
	links    *payments.RazorpayClient
}

// NewHandler wires the HTTP surface.
func NewHandler(cfg *config.Config, engine *pricing.Engine, orders repository.OrderRepositoryI,
	paySvc *payments.Service, links *payments.RazorpayClient) *Handler {
	return &Handler{cfg: cfg, engine: engine, orders: orders, payments: paySvc, links: links}
}

// Router builds the route table.
func Router(h *Handler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/", h.rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", h.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/menu", h.menuHandler).Methods(http.MethodGet)
	r.HandleFunc("/delivery/fee", h.deliveryFeeHandler).Methods(http.MethodGet)
	r.HandleFunc("/orders", h.createOrderHandler).Methods(http.MethodPost)

	r.HandleFunc("/admin/login", h.adminLoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/admin/orders", h.requireAdmin(h.adminListOrdersHandler)).Methods(http.MethodGet)
	r.HandleFunc("/admin/orders/{id}/status", h.requireAdmin(h.adminSetStatusHandler)).Methods(http.MethodPost)

	r.HandleFunc("/payments/create_link", h.createLinkHandler).Methods(http.MethodPost)
	r.HandleFunc("/payments/webhook", h.paymentRedirectHandler).Methods(http.MethodGet)
	r.HandleFunc("/payments/razorpay-webhook", h.paymentWebhookHandler).Methods(http.MethodPost)

	return recoverMiddleware(logMiddleware(r))
}

func (h *Handler) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "name": h.cfg.UPI.BusinessName})
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "status": "up"})
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	})
}

// recoverMiddleware converts panics into a generic server_error without
// leaking internals to the caller.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.WithFields(log.Fields{"path": r.URL.Path, "panic": rec}).Error("Handler panicked")
				writeError(w, http.StatusInternalServerError, "server_error", "")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
