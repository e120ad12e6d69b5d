package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// RedirectConfirmation is the redirect-style callback Razorpay issues
// after a payment link is paid: query parameters carrying a payment id,
// a link or order id, and an HMAC signature.
type RedirectConfirmation struct {
	PaymentID       string
	PaymentLinkID   string
	ProviderOrderID string
	Signature       string
	// OrderID is this service's order id, passed through the callback
	// URL. Empty when the provider did not echo it back.
	OrderID string
}

// WebhookEvent is the asynchronous event notification: a raw JSON body
// signed out-of-band via the x-razorpay-signature header.
type WebhookEvent struct {
	Body      []byte
	Signature string
}

// VerificationResult is the outcome of verifying a callback.
type VerificationResult struct {
	Verified    bool
	OrderID     string
	ProviderRef string
}

func signHMACSHA256(secret string, payload []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func equalSignature(expected, got string) bool {
	return hmac.Equal([]byte(expected), []byte(got))
}

// VerifyRedirect recomputes the HMAC-SHA256 over
// "{linkOrOrderId}|{paymentId}" with the key secret and compares it to
// the supplied signature. Both the payment-link and order id flavours
// are tried when present; at most one can match a real transaction.
func VerifyRedirect(c RedirectConfirmation, keySecret string) (VerificationResult, error) {
	if keySecret == "" {
		return VerificationResult{}, ErrMissingSecret
	}
	var bases []string
	if c.PaymentLinkID != "" && c.PaymentID != "" {
		bases = append(bases, c.PaymentLinkID+"|"+c.PaymentID)
	}
	if c.ProviderOrderID != "" && c.PaymentID != "" {
		bases = append(bases, c.ProviderOrderID+"|"+c.PaymentID)
	}
	for _, base := range bases {
		if equalSignature(signHMACSHA256(keySecret, []byte(base)), c.Signature) {
			return VerificationResult{Verified: true, OrderID: c.OrderID, ProviderRef: c.PaymentID}, nil
		}
	}
	return VerificationResult{}, ErrSignatureMismatch
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID    string            `json:"id"`
				Notes map[string]string `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// VerifyWebhookEvent recomputes the HMAC-SHA256 over the exact raw body
// with the webhook secret and requires an exact match. There is no
// fallback secret: an unset webhook secret is a server misconfiguration.
func VerifyWebhookEvent(e WebhookEvent, webhookSecret string) (VerificationResult, error) {
	if webhookSecret == "" {
		return VerificationResult{}, ErrMissingSecret
	}
	if !equalSignature(signHMACSHA256(webhookSecret, e.Body), e.Signature) {
		return VerificationResult{}, ErrSignatureMismatch
	}

	var data webhookPayload
	if err := json.Unmarshal(e.Body, &data); err != nil {
		// Signature checked out, so the sender holds the secret; an
		// unparseable body still verifies but resolves no order.
		return VerificationResult{Verified: true}, nil
	}
	ref := data.Payload.Payment.Entity.ID
	if ref == "" {
		ref = data.Event
	}
	return VerificationResult{
		Verified:    true,
		OrderID:     data.Payload.Payment.Entity.Notes["orderId"],
		ProviderRef: ref,
	}, nil
}
