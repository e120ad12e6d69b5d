package models

// PlanType identifies a tiffin subscription plan.
type PlanType string

const (
	PlanDaily         PlanType = "daily"
	PlanBreakfast     PlanType = "breakfast"
	PlanMonthlyVeg    PlanType = "monthlyVeg"
	PlanMonthlyNonVeg PlanType = "monthlyNonVeg"
)

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "pending_payment"
	OrderStatusPaid           OrderStatus = "paid"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// statusRank orders the forward-only lifecycle. Cancelled sits outside
// the sequence and is handled separately.
var statusRank = map[OrderStatus]int{
	OrderStatusPendingPayment: 0,
	OrderStatusPaid:           1,
	OrderStatusPreparing:      2,
	OrderStatusOutForDelivery: 3,
	OrderStatusDelivered:      4,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if OrderStatus(s) == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[OrderStatus(s)]
	return ok
}

// CanTransitionTo reports whether moving from s to "to" is allowed.
// The lifecycle only moves forward (skipping steps is permitted);
// cancelled is reachable from any non-terminal state.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	if s == to {
		return true
	}
	if s == OrderStatusCancelled || s == OrderStatusDelivered {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[s]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// PaymentRecord is attached to an order once a provider callback has
// been verified.
type PaymentRecord struct {
	ProviderRef string `json:"providerRef"`
	Verified    bool   `json:"verified"`
	At          string `json:"at"`
}

// Order represents a tiffin order. Pricing fields are always computed
// server-side from the pricing table; client-supplied amounts are never
// trusted.
type Order struct {
	ID          string      `db:"id" json:"id"`
	CreatedAt   string      `db:"created_at" json:"createdAt"`
	Mobile      string      `db:"mobile" json:"mobile"`
	PlanType    PlanType    `db:"plan_type" json:"type"`
	Qty         int         `db:"qty" json:"qty"`
	DistanceKm  float64     `db:"distance_km" json:"distanceKm"`
	Note        string      `db:"note" json:"note,omitempty"`
	UnitPrice   float64     `db:"unit_price" json:"unitPrice"`
	DeliveryFee float64     `db:"delivery_fee" json:"deliveryFee"`
	Amount      float64     `db:"amount" json:"amount"`
	Status      OrderStatus `db:"status" json:"status"`
	// Payment is nullable in DB (split across payment_* columns); nil
	// until a callback has been verified.
	Payment *PaymentRecord `db:"-" json:"payment,omitempty"`
}
