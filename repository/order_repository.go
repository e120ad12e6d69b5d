package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"tiffinOrderManagement/models"
)

// ErrNotFound is returned when the referenced order does not exist.
var ErrNotFound = errors.New("order not found")

const orderColumns = `id, created_at, mobile, plan_type, qty, distance_km, note, unit_price, delivery_fee, amount, status, payment_ref, payment_verified, payment_at`

// OrderRepository is the SQLite-backed store for Order entities.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order, assigning a fresh id and creation time if
// absent. Status defaults to 'pending_payment'. The insert commits
// before returning, so a crash immediately after cannot lose it.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if o == nil {
		return nil, errors.New("order is nil")
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt == "" {
		o.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if o.Status == "" {
		o.Status = models.OrderStatusPendingPayment
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO orders (id, created_at, mobile, plan_type, qty, distance_km, note, unit_price, delivery_fee, amount, status) VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.CreatedAt, o.Mobile, string(o.PlanType), o.Qty, o.DistanceKm, o.Note, o.UnitPrice, o.DeliveryFee, o.Amount, string(o.Status))
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, o.ID)
}

// GetByID fetches an order by its ID. Returns ErrNotFound if absent.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

// List returns all orders, most recent first.
func (r *OrderRepository) List(ctx context.Context) ([]*models.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// UpdateStatus moves an order from one status to another. The WHERE
// clause pins the expected current status, so under concurrent calls
// only one transition out of a given state can win. Returns false when
// the order's status was not `from` anymore; ErrNotFound when the order
// does not exist at all.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from, to models.OrderStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		string(to), id, string(from))
	if err != nil {
		return false, err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return true, nil
	}
	var exists int
	err = r.db.QueryRowContext(ctx, `SELECT 1 FROM orders WHERE id = ?`, id).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	return false, err
}

// MarkPaid flips a pending_payment order to paid and attaches the
// payment record in a single guarded update. Re-applying the same
// confirmation, or confirming an unknown order, is a no-op.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string, p models.PaymentRecord) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = ?, payment_ref = ?, payment_verified = 1, payment_at = ? WHERE id = ? AND status = ?`,
		string(models.OrderStatusPaid), p.ProviderRef, p.At, id, string(models.OrderStatusPendingPayment))
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var planType, status string
	var paymentRef, paymentAt sql.NullString
	var paymentVerified int
	err := row.Scan(&o.ID, &o.CreatedAt, &o.Mobile, &planType, &o.Qty, &o.DistanceKm, &o.Note,
		&o.UnitPrice, &o.DeliveryFee, &o.Amount, &status, &paymentRef, &paymentVerified, &paymentAt)
	if err != nil {
		return nil, err
	}
	o.PlanType = models.PlanType(planType)
	o.Status = models.OrderStatus(status)
	if paymentVerified != 0 || paymentRef.Valid {
		o.Payment = &models.PaymentRecord{
			ProviderRef: paymentRef.String,
			Verified:    paymentVerified != 0,
			At:          paymentAt.String,
		}
	}
	return &o, nil
}
