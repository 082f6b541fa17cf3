package processors

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/tokoledger/backend/src/models"
)

// DepreciationCalculator computes straight-line book values. Stateless; the
// current value is always derived from purchase data, never persisted.
type DepreciationCalculator struct{}

func NewDepreciationCalculator() *DepreciationCalculator { return &DepreciationCalculator{} }

// monthsBetween counts whole calendar months from a to b, floored at zero.
func monthsBetween(a, b time.Time) int64 {
	if b.Before(a) {
		return 0
	}
	months := int64(b.Year()-a.Year())*12 + int64(b.Month()-a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// CurrentValue returns the asset's book value as of asOf, in minor units.
// Missing purchase data fails closed to zero; the result is always within
// [0, purchasePrice].
func (c *DepreciationCalculator) CurrentValue(a models.Asset, asOf time.Time) int64 {
	return a.PurchasePrice - c.TotalDepreciation(a, asOf)
}

// TotalDepreciation returns the accumulated depreciation as of asOf, capped at
// the purchase price.
func (c *DepreciationCalculator) TotalDepreciation(a models.Asset, asOf time.Time) int64 {
	if a.UsefulLifeMonths <= 0 || a.PurchasePrice <= 0 {
		// Fail closed: an asset without a life or price carries no book value.
		return a.PurchasePrice
	}
	elapsed := monthsBetween(a.PurchaseDate, asOf)
	if elapsed <= 0 {
		return 0
	}

	monthly := decimal.NewFromInt(a.PurchasePrice).Div(decimal.NewFromInt(a.UsefulLifeMonths))
	total := monthly.Mul(decimal.NewFromInt(elapsed)).Round(0).IntPart()
	if total > a.PurchasePrice {
		total = a.PurchasePrice
	}
	return total
}

// AggregateValue sums the current book value of every asset as of asOf.
func (c *DepreciationCalculator) AggregateValue(assets []models.Asset, asOf time.Time) int64 {
	var sum int64
	for _, a := range assets {
		sum += c.CurrentValue(a, asOf)
	}
	return sum
}
