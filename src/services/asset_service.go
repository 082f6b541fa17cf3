package services

import (
	"context"
	"time"

	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/processors"
	"github.com/username/tokoledger/backend/src/store"
)

type assetServiceImpl struct {
	store store.LedgerStore
	dep   *processors.DepreciationCalculator
}

func NewAssetService(st store.LedgerStore) AssetService {
	return &assetServiceImpl{store: st, dep: processors.NewDepreciationCalculator()}
}

// ListWithValue returns every asset with its book value recomputed as of
// asOf. Book values are never persisted, so there is no drift to reconcile.
func (s *assetServiceImpl) ListWithValue(ctx context.Context, asOf time.Time) ([]models.AssetWithValue, error) {
	assets, err := s.store.ListAssets(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.AssetWithValue, 0, len(assets))
	for _, a := range assets {
		out = append(out, models.AssetWithValue{
			Asset:             a,
			CurrentValue:      s.dep.CurrentValue(a, asOf),
			TotalDepreciation: s.dep.TotalDepreciation(a, asOf),
		})
	}
	return out, nil
}
