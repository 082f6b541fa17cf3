package processors

import (
	"github.com/shopspring/decimal"
	"github.com/username/tokoledger/backend/src/models"
)

// DividendProcessor holds the pure allocation math for a distribution.
// Persisting the resulting DIVIDEND transactions is the service's job.
type DividendProcessor struct{}

func NewDividendProcessor() *DividendProcessor { return &DividendProcessor{} }

// Allocate splits totalAmount across investors proportional to their invested
// capital. The payout sum may differ from totalAmount by a rounding epsilon;
// this is accepted, not corrected. Callers pass only eligible investors
// (totalInvestment > 0).
func (p *DividendProcessor) Allocate(totalAmount int64, investors []models.Investor) (int64, []models.DividendAllocation) {
	var capitalBase int64
	for _, inv := range investors {
		capitalBase += inv.TotalInvestment
	}
	if capitalBase == 0 {
		return 0, nil
	}

	total := decimal.NewFromInt(totalAmount)
	base := decimal.NewFromInt(capitalBase)

	allocations := make([]models.DividendAllocation, 0, len(investors))
	for _, inv := range investors {
		share := decimal.NewFromInt(inv.TotalInvestment).Div(base)
		payout := total.Mul(share).Round(0).IntPart()
		sharePct, _ := share.Mul(decimal.NewFromInt(100)).Round(2).Float64()
		allocations = append(allocations, models.DividendAllocation{
			InvestorID:   inv.ID,
			InvestorName: inv.Name,
			SharePercent: sharePct,
			Payout:       payout,
		})
	}
	return capitalBase, allocations
}
