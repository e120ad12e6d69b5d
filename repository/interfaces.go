package repository

import (
	"context"

	"tiffinOrderManagement/models"
)

// OrderRepositoryI defines operations on Order entities. HTTP handlers
// and the payment service depend on this interface so tests can swap in
// doubles.
type OrderRepositoryI interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
	// UpdateStatus moves an order from one status to another. The
	// transition is guarded by the expected current status so
	// concurrent writers cannot clobber each other.
	UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error)
	// MarkPaid attaches a payment record and flips pending_payment to
	// paid. Returns applied=false without error when the order is
	// missing or already paid (idempotent under duplicate callbacks).
	MarkPaid(ctx context.Context, id string, p models.PaymentRecord) (applied bool, err error)
}
