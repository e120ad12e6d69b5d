package pricing

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"tiffinOrderManagement/models"
)

// ErrUnknownPlanType is returned when the pricing table has no entry
// for the requested plan. Quoting must never silently fall back to a
// zero price.
var ErrUnknownPlanType = errors.New("unknown plan type")

// ErrInvalidQuantity is returned for non-positive quantities.
var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// Quote is the server-side price breakdown for an order request.
type Quote struct {
	UnitPrice   float64 `json:"unitPrice"`
	DeliveryFee float64 `json:"deliveryFee"`
	Amount      float64 `json:"amount"`
}

// Engine computes deterministic quotes from a validated pricing table
// and delivery slabs. It has no side effects and needs no
// synchronization; it is the authority client-submitted amounts are
// checked against.
type Engine struct {
	table models.PricingTable
	slabs models.DeliverySlabs
}

// NewEngine validates the pricing configuration and returns an engine.
// A missing table entry or malformed slab set fails here, at startup,
// rather than at quote time.
func NewEngine(table models.PricingTable, slabs models.DeliverySlabs) (*Engine, error) {
	if err := table.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "pricing engine")
	}
	if err := slabs.Validate(); err != nil {
		return nil, pkgerrors.Wrap(err, "pricing engine")
	}
	return &Engine{table: table, slabs: slabs}, nil
}

// Table returns the pricing table snapshot served by GET /menu.
func (e *Engine) Table() models.PricingTable {
	return e.table
}

// DeliveryFee scans the slabs in ascending order and returns the fee of
// the first slab covering km. Distances beyond the last slab pay the
// ceiling fee; no order is rejected for being far away.
func (e *Engine) DeliveryFee(km float64) float64 {
	if km < 0 {
		km = 0
	}
	for _, s := range e.slabs {
		if km <= s.MaxKm {
			return s.Fee
		}
	}
	return e.slabs[len(e.slabs)-1].Fee
}

// Quote computes {unitPrice, deliveryFee, amount} for a plan, quantity
// and distance. amount = unitPrice*qty + deliveryFee.
func (e *Engine) Quote(plan models.PlanType, qty int, distanceKm float64) (Quote, error) {
	unit, ok := e.table.UnitPrice(plan)
	if !ok {
		return Quote{}, pkgerrors.Wrapf(ErrUnknownPlanType, "plan %q", plan)
	}
	if qty <= 0 {
		return Quote{}, ErrInvalidQuantity
	}
	fee := e.DeliveryFee(distanceKm)
	return Quote{
		UnitPrice:   unit,
		DeliveryFee: fee,
		Amount:      unit*float64(qty) + fee,
	}, nil
}
