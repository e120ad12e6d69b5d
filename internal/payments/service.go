package payments

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"tiffinOrderManagement/models"
	"tiffinOrderManagement/repository"
)

// Service verifies inbound payment callbacks and applies the resulting
// pending_payment -> paid transition to stored orders. Providers
// deliver callbacks at-least-once and possibly out of order, so every
// application path is idempotent.
type Service struct {
	orders        repository.OrderRepositoryI
	keySecret     string
	webhookSecret string
}

// NewService wires the verifier to the order store. keySecret verifies
// redirect confirmations; webhookSecret verifies raw event bodies and
// must be set for the event webhook to work at all.
func NewService(orders repository.OrderRepositoryI, keySecret, webhookSecret string) *Service {
	return &Service{orders: orders, keySecret: keySecret, webhookSecret: webhookSecret}
}

// ConfirmRedirect verifies a redirect-style confirmation and, on
// success, marks the referenced order paid. Verification failure never
// mutates any order.
func (s *Service) ConfirmRedirect(ctx context.Context, c RedirectConfirmation) (VerificationResult, error) {
	res, err := VerifyRedirect(c, s.keySecret)
	if err != nil {
		return res, err
	}
	return res, s.applyPaid(ctx, res)
}

// ConfirmWebhookEvent verifies an asynchronous event notification and,
// on success, marks the referenced order paid.
func (s *Service) ConfirmWebhookEvent(ctx context.Context, e WebhookEvent) (VerificationResult, error) {
	res, err := VerifyWebhookEvent(e, s.webhookSecret)
	if err != nil {
		return res, err
	}
	return res, s.applyPaid(ctx, res)
}

// applyPaid transitions the order if it exists and is still awaiting
// payment. Unknown orders and repeat confirmations are no-ops: the
// callback is acknowledged either way so the provider stops retrying.
func (s *Service) applyPaid(ctx context.Context, res VerificationResult) error {
	if res.OrderID == "" {
		return nil
	}
	applied, err := s.orders.MarkPaid(ctx, res.OrderID, models.PaymentRecord{
		ProviderRef: res.ProviderRef,
		Verified:    true,
		At:          time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	if applied {
		log.WithFields(log.Fields{"order": res.OrderID, "ref": res.ProviderRef}).Info("Order marked paid")
	} else {
		log.WithField("order", res.OrderID).Debug("Payment confirmation was a no-op")
	}
	return nil
}
