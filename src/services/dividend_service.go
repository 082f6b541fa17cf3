package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/processors"
	"github.com/username/tokoledger/backend/src/store"
)

type dividendServiceImpl struct {
	store       store.LedgerStore
	allocator   *processors.DividendProcessor
	reportCache *cache.Cache
}

func NewDividendService(st store.LedgerStore, reportCache *cache.Cache) DividendService {
	return &dividendServiceImpl{
		store:       st,
		allocator:   processors.NewDividendProcessor(),
		reportCache: reportCache,
	}
}

// Distribute allocates totalAmount across investors with positive capital,
// proportional to invested capital, and creates one DIVIDEND transaction per
// investor inside a single atomic unit. No eligible investors is a valid
// empty result, not an error. A failure partway rolls back every transaction
// created in the call.
func (s *dividendServiceImpl) Distribute(ctx context.Context, totalAmount int64, actorID *int64) (*models.DividendDistributionResult, error) {
	if totalAmount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	// Capital totals only change through explicit profile edits, so this
	// snapshot is a best-effort read, not a locked one.
	eligible, err := s.store.ListEligibleInvestors(ctx)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		logger.FromContext(ctx).Info("Dividend distribution skipped: no eligible investors")
		return &models.DividendDistributionResult{Allocations: []models.DividendAllocation{}}, nil
	}

	capitalBase, allocations := s.allocator.Allocate(totalAmount, eligible)

	now := time.Now().UTC()
	err = s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		for i := range allocations {
			a := &allocations[i]
			tx := &models.Transaction{
				Kind:          models.KindDividend,
				Amount:        a.Payout,
				PaymentMethod: "TRANSFER",
				PaymentStatus: models.StatusPaid,
				Description:   "Dividend distribution to " + a.InvestorName,
				Date:          now,
				CreatedBy:     actorID,
				InvestorID:    &a.InvestorID,
			}
			if err := atx.InsertTransaction(ctx, tx); err != nil {
				return err
			}
			a.TransactionID = tx.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &models.DividendDistributionResult{
		TotalCapitalBase: capitalBase,
		Allocations:      allocations,
	}
	for _, a := range allocations {
		result.TotalDistributed += a.Payout
	}

	if s.reportCache != nil {
		s.reportCache.Flush()
	}
	logger.FromContext(ctx).Info("Dividend distributed",
		"totalAmount", totalAmount, "totalDistributed", result.TotalDistributed,
		"capitalBase", capitalBase, "investors", len(allocations))
	return result, nil
}
