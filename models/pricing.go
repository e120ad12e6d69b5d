package models

import (
	"fmt"
	"sort"
)

// PricingTable maps each plan type to its unit price in INR.
type PricingTable struct {
	DailyMeal     float64 `json:"dailyMeal"`
	Breakfast     float64 `json:"breakfast"`
	MonthlyVeg    float64 `json:"monthlyVeg"`
	MonthlyNonVeg float64 `json:"monthlyNonVeg"`
}

// UnitPrice returns the price for a plan type. The second return value
// is false for unknown plan types; callers must not default to zero.
func (t PricingTable) UnitPrice(p PlanType) (float64, bool) {
	switch p {
	case PlanDaily:
		return t.DailyMeal, true
	case PlanBreakfast:
		return t.Breakfast, true
	case PlanMonthlyVeg:
		return t.MonthlyVeg, true
	case PlanMonthlyNonVeg:
		return t.MonthlyNonVeg, true
	default:
		return 0, false
	}
}

// Validate checks every plan has a positive price. A zero entry almost
// always means a misconfigured table, so fail at startup instead of
// quoting free meals.
func (t PricingTable) Validate() error {
	entries := map[PlanType]float64{
		PlanDaily:         t.DailyMeal,
		PlanBreakfast:     t.Breakfast,
		PlanMonthlyVeg:    t.MonthlyVeg,
		PlanMonthlyNonVeg: t.MonthlyNonVeg,
	}
	for plan, price := range entries {
		if price <= 0 {
			return fmt.Errorf("pricing table: missing or non-positive price for plan %q", plan)
		}
	}
	return nil
}

// DeliverySlab is a distance tier: orders up to MaxKm pay Fee.
type DeliverySlab struct {
	MaxKm float64 `json:"maxKm"`
	Fee   float64 `json:"fee"`
}

// DeliverySlabs is an ascending sequence of slabs. The last slab acts
// as the ceiling for any distance beyond its MaxKm.
type DeliverySlabs []DeliverySlab

// Validate checks the slabs are non-empty, strictly ascending by MaxKm
// and carry non-negative fees.
func (s DeliverySlabs) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("delivery slabs: at least one slab required")
	}
	if !sort.SliceIsSorted(s, func(i, j int) bool { return s[i].MaxKm < s[j].MaxKm }) {
		return fmt.Errorf("delivery slabs: must be sorted ascending by maxKm")
	}
	for i, slab := range s {
		if slab.MaxKm <= 0 {
			return fmt.Errorf("delivery slabs: slab %d has non-positive maxKm", i)
		}
		if slab.Fee < 0 {
			return fmt.Errorf("delivery slabs: slab %d has negative fee", i)
		}
		if i > 0 && s[i-1].MaxKm >= slab.MaxKm {
			return fmt.Errorf("delivery slabs: duplicate maxKm %v", slab.MaxKm)
		}
	}
	return nil
}
