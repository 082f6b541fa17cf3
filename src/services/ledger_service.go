package services

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/store"
)

type ledgerServiceImpl struct {
	store       store.LedgerStore
	stock       StockService
	reportCache *cache.Cache
}

// NewLedgerService creates the transaction recorder. The report cache is
// flushed after every committed write so statement reads never serve stale
// aggregates.
func NewLedgerService(st store.LedgerStore, stock StockService, reportCache *cache.Cache) LedgerService {
	return &ledgerServiceImpl{store: st, stock: stock, reportCache: reportCache}
}

func (s *ledgerServiceImpl) flushCache() {
	if s.reportCache != nil {
		s.reportCache.Flush()
	}
}

// RecordSale commits a checkout: the SALE transaction, its lines, and every
// GOODS line's stock decrement land in one atomic unit. A failure on any line
// aborts the whole sale.
func (s *ledgerServiceImpl) RecordSale(ctx context.Context, in SaleInput) (*models.Transaction, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: sale requires at least one line", models.ErrInvalidAmount)
	}
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for product %d", models.ErrInvalidAmount, l.ProductID)
		}
	}
	if in.TaxRatePercent < 0 || in.AdminFee < 0 {
		return nil, fmt.Errorf("%w: tax rate and admin fee", models.ErrInvalidAmount)
	}

	// Pre-check against current state for a fast, readable rejection. The
	// authoritative check still happens inside the atomic unit.
	for _, l := range in.Lines {
		p, err := s.store.GetProduct(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if p.Kind == models.ProductGoods && l.Quantity > p.Stock {
			return nil, fmt.Errorf("%w: product %q has %d in stock, requested %d",
				models.ErrInsufficientStock, p.Name, p.Stock, l.Quantity)
		}
	}

	var committed *models.Transaction
	err := s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		// Snapshot prices inside the unit so lines and totals agree with the
		// state the unit commits against.
		products := make([]*models.Product, len(in.Lines))
		var rawTotal int64
		for i, l := range in.Lines {
			p, err := atx.GetProduct(ctx, l.ProductID)
			if err != nil {
				return err
			}
			products[i] = p
			rawTotal += l.Quantity * p.Price
		}

		taxAmount := decimal.NewFromInt(rawTotal).
			Mul(decimal.NewFromFloat(in.TaxRatePercent)).
			Div(decimal.NewFromInt(100)).
			Round(0).IntPart()
		finalAmount := rawTotal + taxAmount + in.AdminFee

		tx := &models.Transaction{
			Kind:          models.KindSale,
			Amount:        finalAmount,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: models.StatusPaid,
			Description:   fmt.Sprintf("Sale of %d item(s)", len(in.Lines)),
			Date:          time.Now().UTC(),
			CreatedBy:     in.ActorID,
		}
		if err := atx.InsertTransaction(ctx, tx); err != nil {
			return err
		}

		for i, l := range in.Lines {
			p := products[i]
			line := &models.TransactionLine{
				TransactionID: tx.ID,
				ProductID:     p.ID,
				ProductName:   p.Name,
				Quantity:      l.Quantity,
				PriceAtTime:   p.Price,
				Subtotal:      l.Quantity * p.Price,
			}
			if err := atx.InsertTransactionLine(ctx, line); err != nil {
				return err
			}
			tx.Lines = append(tx.Lines, *line)

			if _, err := s.stock.ApplySaleDecrement(ctx, atx, p, l.Quantity, tx.ID, in.ActorID); err != nil {
				return err
			}
		}

		committed = tx
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.flushCache()
	logger.FromContext(ctx).Info("Sale recorded", "transactionID", committed.ID, "amount", committed.Amount, "lines", len(committed.Lines))
	return committed, nil
}

// RecordExpense creates a single EXPENSE transaction. The category is stored
// in its own column and also encoded as a [Category] prefix in the
// description, which statement grouping still parses for legacy rows.
func (s *ledgerServiceImpl) RecordExpense(ctx context.Context, in ExpenseInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, models.ErrInvalidAmount
	}

	description := in.Description
	if in.Category != "" {
		description = fmt.Sprintf("[%s] %s", in.Category, in.Description)
	}
	status := models.StatusPaid
	if in.Unpaid {
		status = models.StatusUnpaid
	}

	tx := &models.Transaction{
		Kind:          models.KindExpense,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: status,
		Category:      in.Category,
		Description:   description,
		Date:          time.Now().UTC(),
		CreatedBy:     in.ActorID,
	}
	err := s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		return atx.InsertTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.flushCache()
	logger.FromContext(ctx).Info("Expense recorded", "transactionID", tx.ID, "amount", tx.Amount, "category", in.Category)
	return tx, nil
}

// RecordCapital creates a CAPITAL_IN or CAPITAL_OUT transaction linked to an
// investor. The investor's total_investment is a profile field edited
// explicitly; it is not derived from these movements.
func (s *ledgerServiceImpl) RecordCapital(ctx context.Context, in CapitalInput) (*models.Transaction, error) {
	if in.Amount <= 0 {
		return nil, models.ErrInvalidAmount
	}
	inv, err := s.store.GetInvestor(ctx, in.InvestorID)
	if err != nil {
		return nil, err
	}

	kind := models.KindCapitalIn
	if in.Withdrawal {
		kind = models.KindCapitalOut
	}
	description := in.Description
	if description == "" {
		description = fmt.Sprintf("Capital movement for %s", inv.Name)
	}

	tx := &models.Transaction{
		Kind:          kind,
		Amount:        in.Amount,
		PaymentMethod: "TRANSFER",
		PaymentStatus: models.StatusPaid,
		Description:   description,
		Date:          time.Now().UTC(),
		CreatedBy:     in.ActorID,
		InvestorID:    &inv.ID,
	}
	err = s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		return atx.InsertTransaction(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.flushCache()
	logger.FromContext(ctx).Info("Capital movement recorded", "transactionID", tx.ID, "kind", kind, "investorID", inv.ID)
	return tx, nil
}

// RecordAssetPurchase creates the fixed asset and its ASSET_PURCHASE
// transaction in one atomic unit.
func (s *ledgerServiceImpl) RecordAssetPurchase(ctx context.Context, in AssetPurchaseInput) (*models.Asset, *models.Transaction, error) {
	if in.PurchasePrice <= 0 {
		return nil, nil, models.ErrInvalidAmount
	}
	purchaseDate := in.PurchaseDate
	if purchaseDate.IsZero() {
		purchaseDate = time.Now().UTC()
	}

	asset := &models.Asset{
		Name:             in.Name,
		Category:         in.Category,
		PurchasePrice:    in.PurchasePrice,
		PurchaseDate:     purchaseDate,
		UsefulLifeMonths: in.UsefulLifeMonths,
	}
	tx := &models.Transaction{
		Kind:          models.KindAssetPurchase,
		Amount:        in.PurchasePrice,
		PaymentMethod: in.PaymentMethod,
		PaymentStatus: models.StatusPaid,
		Description:   fmt.Sprintf("Asset purchase: %s", in.Name),
		Date:          purchaseDate,
		CreatedBy:     in.ActorID,
	}
	err := s.store.RunAtomic(ctx, func(atx *store.AtomicTx) error {
		if err := atx.InsertAsset(ctx, asset); err != nil {
			return err
		}
		return atx.InsertTransaction(ctx, tx)
	})
	if err != nil {
		return nil, nil, err
	}

	s.flushCache()
	logger.FromContext(ctx).Info("Asset purchase recorded", "assetID", asset.ID, "transactionID", tx.ID, "amount", tx.Amount)
	return asset, tx, nil
}

func (s *ledgerServiceImpl) ListTransactions(ctx context.Context, f store.TransactionFilter) ([]models.Transaction, error) {
	return s.store.ListTransactions(ctx, f)
}
