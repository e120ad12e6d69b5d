package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, payload string) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyRedirectPaymentLinkFlavour(t *testing.T) {
	const secret = "key-secret"
	c := RedirectConfirmation{
		PaymentID:     "pay_1",
		PaymentLinkID: "plink_1",
		OrderID:       "order-9",
	}
	c.Signature = sign(t, secret, "plink_1|pay_1")

	res, err := VerifyRedirect(c, secret)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "order-9", res.OrderID)
	assert.Equal(t, "pay_1", res.ProviderRef)
}

func TestVerifyRedirectOrderFlavour(t *testing.T) {
	const secret = "key-secret"
	c := RedirectConfirmation{
		PaymentID:       "pay_2",
		ProviderOrderID: "rzp_order_2",
		OrderID:         "order-5",
	}
	c.Signature = sign(t, secret, "rzp_order_2|pay_2")

	res, err := VerifyRedirect(c, secret)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestVerifyRedirectEitherFlavourWhenBothPresent(t *testing.T) {
	const secret = "key-secret"
	c := RedirectConfirmation{
		PaymentID:       "pay_3",
		PaymentLinkID:   "plink_3",
		ProviderOrderID: "rzp_order_3",
	}
	// Only the order flavour is genuine; it must still verify.
	c.Signature = sign(t, secret, "rzp_order_3|pay_3")

	res, err := VerifyRedirect(c, secret)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestVerifyRedirectTamperedSignature(t *testing.T) {
	const secret = "key-secret"
	c := RedirectConfirmation{
		PaymentID:     "pay_1",
		PaymentLinkID: "plink_1",
	}
	c.Signature = sign(t, secret, "plink_1|pay_1")
	c.PaymentID = "pay_other" // tamper after signing

	res, err := VerifyRedirect(c, secret)
	require.ErrorIs(t, err, ErrSignatureMismatch)
	assert.False(t, res.Verified)
}

func TestVerifyRedirectMissingSecret(t *testing.T) {
	_, err := VerifyRedirect(RedirectConfirmation{PaymentID: "pay_1", PaymentLinkID: "plink_1", Signature: "x"}, "")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyRedirectNoIDs(t *testing.T) {
	// With no id pair present there is nothing to verify against.
	_, err := VerifyRedirect(RedirectConfirmation{Signature: "x"}, "secret")
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyWebhookEvent(t *testing.T) {
	const secret = "webhook-secret"
	body := []byte(`{"event":"payment_link.paid","payload":{"payment":{"entity":{"id":"pay_77","notes":{"orderId":"order-42"}}}}}`)

	res, err := VerifyWebhookEvent(WebhookEvent{Body: body, Signature: sign(t, secret, string(body))}, secret)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "order-42", res.OrderID)
	assert.Equal(t, "pay_77", res.ProviderRef)
}

func TestVerifyWebhookEventBadSignature(t *testing.T) {
	const secret = "webhook-secret"
	body := []byte(`{"event":"payment_link.paid"}`)

	_, err := VerifyWebhookEvent(WebhookEvent{Body: body, Signature: sign(t, "wrong-secret", string(body))}, secret)
	require.ErrorIs(t, err, ErrSignatureMismatch)

	// Flipping a single body byte after signing must also fail.
	signed := sign(t, secret, string(body))
	tampered := append([]byte{}, body...)
	tampered[0] = '['
	_, err = VerifyWebhookEvent(WebhookEvent{Body: tampered, Signature: signed}, secret)
	require.ErrorIs(t, err, ErrSignatureMismatch)
}

func TestVerifyWebhookEventMissingSecretNoFallback(t *testing.T) {
	body := []byte(`{"event":"payment_link.paid"}`)
	_, err := VerifyWebhookEvent(WebhookEvent{Body: body, Signature: "sig"}, "")
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyWebhookEventWithoutOrderRef(t *testing.T) {
	const secret = "webhook-secret"
	body := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_88","notes":{}}}}}`)

	res, err := VerifyWebhookEvent(WebhookEvent{Body: body, Signature: sign(t, secret, string(body))}, secret)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Empty(t, res.OrderID)
}
