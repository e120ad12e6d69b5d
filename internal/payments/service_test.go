package payments

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiffinOrderManagement/models"
	"tiffinOrderManagement/repository"
)

// mockOrderRepository is an in-memory double for the order store.
type mockOrderRepository struct {
	mu     sync.Mutex
	orders map[string]*models.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: map[string]*models.Order{}}
}

func (m *mockOrderRepository) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
	return o, nil
}

func (m *mockOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return o, nil
}

func (m *mockOrderRepository) List(_ context.Context) ([]*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.Order
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(_ context.Context, id string, from, to models.OrderStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return false, repository.ErrNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (m *mockOrderRepository) MarkPaid(_ context.Context, id string, p models.PaymentRecord) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok || o.Status != models.OrderStatusPendingPayment {
		return false, nil
	}
	o.Status = models.OrderStatusPaid
	o.Payment = &p
	return true, nil
}

func setupServiceTest(t *testing.T) (*Service, *mockOrderRepository) {
	t.Helper()
	repo := newMockOrderRepository()
	repo.orders["order-1"] = &models.Order{ID: "order-1", Status: models.OrderStatusPendingPayment}
	svc := NewService(repo, "key-secret", "webhook-secret")
	return svc, repo
}

func TestConfirmRedirectMarksPaid(t *testing.T) {
	svc, repo := setupServiceTest(t)

	c := RedirectConfirmation{PaymentID: "pay_1", PaymentLinkID: "plink_1", OrderID: "order-1"}
	c.Signature = sign(t, "key-secret", "plink_1|pay_1")

	res, err := svc.ConfirmRedirect(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Verified)

	o := repo.orders["order-1"]
	assert.Equal(t, models.OrderStatusPaid, o.Status)
	require.NotNil(t, o.Payment)
	assert.Equal(t, "pay_1", o.Payment.ProviderRef)
	assert.True(t, o.Payment.Verified)
	assert.NotEmpty(t, o.Payment.At)
}

func TestConfirmRedirectDuplicateIsNoop(t *testing.T) {
	svc, repo := setupServiceTest(t)

	c := RedirectConfirmation{PaymentID: "pay_1", PaymentLinkID: "plink_1", OrderID: "order-1"}
	c.Signature = sign(t, "key-secret", "plink_1|pay_1")

	_, err := svc.ConfirmRedirect(context.Background(), c)
	require.NoError(t, err)
	first := *repo.orders["order-1"].Payment

	// Providers deliver at-least-once; the replay must change nothing.
	_, err = svc.ConfirmRedirect(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, repo.orders["order-1"].Status)
	assert.Equal(t, first, *repo.orders["order-1"].Payment)
}

func TestConfirmRedirectTamperedNeverMutates(t *testing.T) {
	svc, repo := setupServiceTest(t)

	c := RedirectConfirmation{PaymentID: "pay_1", PaymentLinkID: "plink_1", OrderID: "order-1", Signature: "forged"}
	_, err := svc.ConfirmRedirect(context.Background(), c)
	require.ErrorIs(t, err, ErrSignatureMismatch)
	assert.Equal(t, models.OrderStatusPendingPayment, repo.orders["order-1"].Status)
	assert.Nil(t, repo.orders["order-1"].Payment)
}

func TestConfirmRedirectUnknownOrderIsNoop(t *testing.T) {
	svc, _ := setupServiceTest(t)

	c := RedirectConfirmation{PaymentID: "pay_1", PaymentLinkID: "plink_1", OrderID: "ghost"}
	c.Signature = sign(t, "key-secret", "plink_1|pay_1")

	res, err := svc.ConfirmRedirect(context.Background(), c)
	require.NoError(t, err)
	assert.True(t, res.Verified)
}

func TestConfirmWebhookEventMarksPaid(t *testing.T) {
	svc, repo := setupServiceTest(t)

	body := []byte(`{"event":"payment_link.paid","payload":{"payment":{"entity":{"id":"pay_9","notes":{"orderId":"order-1"}}}}}`)
	e := WebhookEvent{Body: body, Signature: sign(t, "webhook-secret", string(body))}

	res, err := svc.ConfirmWebhookEvent(context.Background(), e)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, models.OrderStatusPaid, repo.orders["order-1"].Status)
}

func TestConfirmWebhookEventNoSecretConfigured(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewService(repo, "key-secret", "") // webhook secret unset

	body := []byte(`{"event":"payment_link.paid"}`)
	// Even a signature computed with the key secret must not pass.
	e := WebhookEvent{Body: body, Signature: sign(t, "key-secret", string(body))}
	_, err := svc.ConfirmWebhookEvent(context.Background(), e)
	require.ErrorIs(t, err, ErrMissingSecret)
}
