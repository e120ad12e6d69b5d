package payments

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	pkgerrors "github.com/pkg/errors"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

// LinkCustomer identifies the paying customer on a hosted payment link.
type LinkCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// CreateLinkRequest describes a hosted payment-link to create. Amount
// is in INR; the client converts to paise on the wire.
type CreateLinkRequest struct {
	Amount      float64
	Customer    LinkCustomer
	Description string
	// ReferenceID should be the order id so retried creations stay
	// idempotent on the provider side.
	ReferenceID string
	CallbackURL string
}

type linkCustomerBody struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
}

type linkNotifyBody struct {
	SMS   bool `json:"sms"`
	Email bool `json:"email"`
}

type paymentLinkBody struct {
	Amount         int64             `json:"amount"`
	Currency       string            `json:"currency"`
	AcceptPartial  bool              `json:"accept_partial"`
	ReferenceID    string            `json:"reference_id"`
	Description    string            `json:"description"`
	Customer       linkCustomerBody  `json:"customer"`
	Notify         linkNotifyBody    `json:"notify"`
	CallbackURL    string            `json:"callback_url"`
	CallbackMethod string            `json:"callback_method"`
	Notes          map[string]string `json:"notes,omitempty"`
}

// RazorpayClient creates hosted payment links via the Razorpay REST
// API. Calls carry a bounded timeout and never hold store locks.
type RazorpayClient struct {
	client    *resty.Client
	keyID     string
	keySecret string
}

// NewRazorpayClient builds a client with the given API keys. Empty keys
// are allowed at construction; CreateLink fails with
// ErrMissingCredentials when they are actually needed.
func NewRazorpayClient(keyID, keySecret string) *RazorpayClient {
	return &RazorpayClient{
		client:    resty.New().SetBaseURL(defaultBaseURL).SetTimeout(10 * time.Second),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

// SetBaseURL points the client at a different API host. Used by tests.
func (c *RazorpayClient) SetBaseURL(u string) {
	c.client.SetBaseURL(u)
}

// CreateLink creates a shareable payment link and returns its URL.
func (c *RazorpayClient) CreateLink(ctx context.Context, req CreateLinkRequest) (string, error) {
	if req.Amount <= 0 {
		return "", pkgerrors.Wrap(ErrValidation, "amount must be positive")
	}
	if strings.TrimSpace(req.Customer.Name) == "" || strings.TrimSpace(req.Customer.Phone) == "" {
		return "", pkgerrors.Wrap(ErrValidation, "customer name and phone required")
	}
	if c.keyID == "" || c.keySecret == "" {
		return "", ErrMissingCredentials
	}

	description := req.Description
	if description == "" {
		description = "Tiffin order"
	}
	body := paymentLinkBody{
		Amount:        int64(math.Round(req.Amount * 100)), // INR paise
		Currency:      "INR",
		AcceptPartial: false,
		ReferenceID:   req.ReferenceID,
		Description:   description,
		Customer: linkCustomerBody{
			Name:    req.Customer.Name,
			Contact: req.Customer.Phone,
			Email:   req.Customer.Email,
		},
		Notify:         linkNotifyBody{SMS: true, Email: true},
		CallbackURL:    req.CallbackURL,
		CallbackMethod: "get",
	}
	if req.ReferenceID != "" {
		// Webhook events resolve the order through notes.orderId.
		body.Notes = map[string]string{"orderId": req.ReferenceID}
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBasicAuth(c.keyID, c.keySecret).
		SetBody(body).
		Post("/payment_links")
	if err != nil {
		return "", pkgerrors.Wrap(err, "call payment provider")
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", &ProviderError{Status: resp.StatusCode(), Detail: string(resp.Body())}
	}

	var created struct {
		ShortURL string `json:"short_url"`
	}
	if err := json.Unmarshal(resp.Body(), &created); err != nil {
		return "", pkgerrors.Wrap(err, "decode payment provider response")
	}
	if created.ShortURL == "" {
		return "", pkgerrors.New("payment provider response missing short_url")
	}
	return created.ShortURL, nil
}
