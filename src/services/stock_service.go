package services

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/store"
)

type stockServiceImpl struct {
	store       store.LedgerStore
	reportCache *cache.Cache
}

func NewStockService(st store.LedgerStore, reportCache *cache.Cache) StockService {
	return &stockServiceImpl{store: st, reportCache: reportCache}
}

// ApplySaleDecrement decrements stock for one sale line inside the caller's
// atomic unit and appends the matching SALE stock event. The conditional
// update in the store is the authoritative non-negative check; the resulting
// level written to the event is read after the decrement, so per-product
// events always chain correctly.
func (s *stockServiceImpl) ApplySaleDecrement(ctx context.Context, atx *store.AtomicTx, product *models.Product, quantity int64, transactionID int64, actorID *int64) (*models.StockEvent, error) {
	if product.Kind == models.ProductService {
		return nil, nil
	}

	newLevel, err := atx.AdjustProductStock(ctx, product.ID, -quantity)
	if err != nil {
		return nil, err
	}

	event := &models.StockEvent{
		ProductID:      product.ID,
		Change:         -quantity,
		ResultingStock: newLevel,
		Kind:           models.StockOutSale,
		TransactionID:  &transactionID,
		Note:           fmt.Sprintf("Sold %d x %s", quantity, product.Name),
		CreatedBy:      actorID,
	}
	if err := atx.InsertStockEvent(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Restock increments a GOODS product's stock and logs a RESTOCK event in its
// own atomic unit.
func (s *stockServiceImpl) Restock(ctx context.Context, in RestockInput) (*models.StockEvent, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: restock quantity", models.ErrInvalidAmount)
	}

	product, err := s.store.GetProduct(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.Kind == models.ProductService {
		return nil, fmt.Errorf("%w: service products do not track stock", models.ErrInvalidAmount)
	}

	event := &models.StockEvent{
		ProductID:  product.ID,
		Change:     in.Quantity,
		Kind:       models.StockInRestock,
		SupplierID: in.SupplierID,
		UnitCost:   in.UnitCost,
		Note:       in.Note,
		CreatedBy:  in.ActorID,
	}
	err = s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		newLevel, err := atx.AdjustProductStock(ctx, product.ID, in.Quantity)
		if err != nil {
			return err
		}
		event.ResultingStock = newLevel
		return atx.InsertStockEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	if s.reportCache != nil {
		s.reportCache.Flush()
	}
	logger.FromContext(ctx).Info("Restock recorded", "productID", product.ID, "quantity", in.Quantity, "newLevel", event.ResultingStock)
	return event, nil
}

func (s *stockServiceImpl) Movements(ctx context.Context, productID int64) ([]models.StockEvent, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	return s.store.ListStockEvents(ctx, productID)
}
