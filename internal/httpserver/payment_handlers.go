package httpserver

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"tiffinOrderManagement/internal/payments"
)

type createLinkRequest struct {
	Amount   float64 `json:"amount"`
	Customer struct {
		Name  string `json:"name"`
		Phone string `json:"phone"`
		Email string `json:"email"`
	} `json:"customer"`
	Description string `json:"description"`
	OrderID     string `json:"orderId"`
}

func (h *Handler) createLinkHandler(w http.ResponseWriter, r *http.Request) {
	var req createLinkRequest
	if err := readBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	// Reference id keys the link on the provider side: the order id
	// when the client supplies one, a fresh uuid otherwise.
	refID := strings.TrimSpace(req.OrderID)
	if refID == "" {
		refID = uuid.NewString()
	}
	url, err := h.links.CreateLink(r.Context(), payments.CreateLinkRequest{
		Amount: req.Amount,
		Customer: payments.LinkCustomer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		Description: req.Description,
		ReferenceID: refID,
		CallbackURL: h.cfg.Server.PublicBaseURL + "/payments/webhook",
	})
	if err != nil {
		var provErr *payments.ProviderError
		switch {
		case errors.Is(err, payments.ErrValidation):
			writeError(w, http.StatusBadRequest, "missing_parameters", "Provide amount and customer {name, phone}")
		case errors.Is(err, payments.ErrMissingCredentials):
			writeError(w, http.StatusInternalServerError, "no_credentials", "Set RAZORPAY_KEY_ID and RAZORPAY_KEY_SECRET in .env")
		case errors.As(err, &provErr):
			writeJSON(w, provErr.Status, map[string]interface{}{
				"ok": false, "error": "razorpay_error", "detail": provErr.Detail,
			})
		default:
			log.WithError(err).Error("Create payment link failed")
			writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "url": url})
}

// paymentRedirectHandler handles the payment-link redirect confirmation
// (GET with signed query params). Responses are plaintext because the
// provider, not the app, consumes them.
func (h *Handler) paymentRedirectHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	confirmation := payments.RedirectConfirmation{
		PaymentID:       q.Get("razorpay_payment_id"),
		PaymentLinkID:   q.Get("razorpay_payment_link_id"),
		ProviderOrderID: q.Get("razorpay_order_id"),
		Signature:       q.Get("razorpay_signature"),
		OrderID:         q.Get("orderId"),
	}
	if _, err := h.payments.ConfirmRedirect(r.Context(), confirmation); err != nil {
		writeCallbackError(w, err)
		return
	}
	writePlain(w, http.StatusOK, "OK")
}

// paymentWebhookHandler handles the asynchronous event webhook: the raw
// body is signed via the x-razorpay-signature header.
func (h *Handler) paymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writePlain(w, http.StatusBadRequest, "Bad request")
		return
	}
	defer r.Body.Close()

	event := payments.WebhookEvent{
		Body:      body,
		Signature: r.Header.Get("x-razorpay-signature"),
	}
	if _, err := h.payments.ConfirmWebhookEvent(r.Context(), event); err != nil {
		writeCallbackError(w, err)
		return
	}
	writePlain(w, http.StatusOK, "OK")
}

func writeCallbackError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, payments.ErrMissingSecret):
		writePlain(w, http.StatusInternalServerError, "Missing webhook secret")
	case errors.Is(err, payments.ErrSignatureMismatch):
		writePlain(w, http.StatusBadRequest, "Signature verification failed")
	default:
		log.WithError(err).Error("Payment callback failed")
		writePlain(w, http.StatusInternalServerError, "Server error")
	}
}

func writePlain(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}
