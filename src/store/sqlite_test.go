package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tokoledger/backend/src/models"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) LedgerStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../db/migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	s := NewSQLiteStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProduct(t *testing.T, s LedgerStore, stock int64) *models.Product {
	t.Helper()
	cost := int64(6000)
	p := &models.Product{
		SKU:   "SKU-" + t.Name(),
		Name:  "Coffee Beans",
		Kind:  models.ProductGoods,
		Price: 10000,
		Cost:  &cost,
		Stock: stock,
	}
	require.NoError(t, s.CreateProduct(context.Background(), p))
	return p
}

func TestAdjustProductStock(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 5)

	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		level, err := tx.AdjustProductStock(ctx, p.ID, -2)
		if err != nil {
			return err
		}
		assert.Equal(t, int64(3), level)
		return nil
	})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Stock)
}

func TestAdjustProductStockInsufficient(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 1)

	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		_, err := tx.AdjustProductStock(ctx, p.ID, -2)
		return err
	})
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Stock, "failed decrement must not move stock")
}

func TestAdjustProductStockUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		_, err := tx.AdjustProductStock(ctx, 999, -1)
		return err
	})
	assert.ErrorIs(t, err, models.ErrProductNotFound)
}

func TestRunAtomicRollsBackOnValidationError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		tr := &models.Transaction{
			Kind:          models.KindSale,
			Amount:        22200,
			PaymentMethod: "CASH",
			PaymentStatus: models.StatusPaid,
			Date:          time.Now(),
		}
		if err := tx.InsertTransaction(ctx, tr); err != nil {
			return err
		}
		return models.ErrInsufficientStock
	})
	require.ErrorIs(t, err, models.ErrInsufficientStock)
	assert.NotErrorIs(t, err, models.ErrAtomicWriteFailed, "validation errors surface unchanged")

	txs, err := s.ListTransactions(ctx, TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs, "aborted unit must leave nothing behind")
}

func TestRunAtomicRetriesStoreFailures(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	attempts := 0
	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		attempts++
		return errors.New("disk went away")
	})
	assert.ErrorIs(t, err, models.ErrAtomicWriteFailed)
	assert.Equal(t, 2, attempts)
}

func TestTransactionWithLinesRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	p := seedProduct(t, s, 10)

	var txID int64
	err := s.RunAtomic(ctx, func(tx *AtomicTx) error {
		tr := &models.Transaction{
			Kind:          models.KindSale,
			Amount:        22200,
			PaymentMethod: "CASH",
			PaymentStatus: models.StatusPaid,
			Description:   "walk-in sale",
			Date:          time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC),
		}
		if err := tx.InsertTransaction(ctx, tr); err != nil {
			return err
		}
		txID = tr.ID
		return tx.InsertTransactionLine(ctx, &models.TransactionLine{
			TransactionID: tr.ID,
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      2,
			PriceAtTime:   10000,
			Subtotal:      20000,
		})
	})
	require.NoError(t, err)

	got, err := s.GetTransaction(ctx, txID)
	require.NoError(t, err)
	assert.Equal(t, models.KindSale, got.Kind)
	assert.Equal(t, int64(22200), got.Amount)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, "Coffee Beans", got.Lines[0].ProductName)
	assert.Equal(t, int64(20000), got.Lines[0].Subtotal)
}

func TestListTransactionsFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insert := func(kind models.TransactionKind, amount int64, date time.Time) {
		require.NoError(t, s.RunAtomic(ctx, func(tx *AtomicTx) error {
			return tx.InsertTransaction(ctx, &models.Transaction{
				Kind: kind, Amount: amount, PaymentMethod: "CASH",
				PaymentStatus: models.StatusPaid, Date: date,
			})
		}))
	}
	insert(models.KindSale, 10000, time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
	insert(models.KindSale, 20000, time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC))
	insert(models.KindExpense, 5000, time.Date(2024, 1, 6, 12, 0, 0, 0, time.UTC))

	sale := models.KindSale
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	txs, err := s.ListTransactions(ctx, TransactionFilter{Kind: &sale, From: &from})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(20000), txs[0].Amount)

	sum, err := s.SumTransactionsByKind(ctx, models.KindSale, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(30000), sum)

	count, err := s.CountTransactionsByKind(ctx, models.KindExpense, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDailySaleTotals(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	insert := func(amount int64, date time.Time) {
		require.NoError(t, s.RunAtomic(ctx, func(tx *AtomicTx) error {
			return tx.InsertTransaction(ctx, &models.Transaction{
				Kind: models.KindSale, Amount: amount, PaymentMethod: "CASH",
				PaymentStatus: models.StatusPaid, Date: date,
			})
		}))
	}
	insert(10000, time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC))
	insert(15000, time.Date(2024, 1, 5, 17, 0, 0, 0, time.UTC))
	insert(20000, time.Date(2024, 1, 7, 12, 0, 0, 0, time.UTC))

	points, err := s.DailySaleTotals(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, points, 2, "days without sales produce no row")
	assert.Equal(t, "2024-01-05", points[0].Date)
	assert.Equal(t, int64(25000), points[0].Total)
	assert.Equal(t, "2024-01-07", points[1].Date)
	assert.Equal(t, int64(20000), points[1].Total)
}

func TestEligibleInvestors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateInvestor(ctx, &models.Investor{Name: "Alice", TotalInvestment: 700000}))
	require.NoError(t, s.CreateInvestor(ctx, &models.Investor{Name: "Bob", TotalInvestment: 300000}))
	require.NoError(t, s.CreateInvestor(ctx, &models.Investor{Name: "Carol", TotalInvestment: 0}))

	eligible, err := s.ListEligibleInvestors(ctx)
	require.NoError(t, err)
	require.Len(t, eligible, 2)
	assert.Equal(t, "Alice", eligible[0].Name)
	assert.Equal(t, "Bob", eligible[1].Name)
}

func TestDueRecurringExpenseScan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC)

	create := func(name string, due time.Time, active bool) {
		require.NoError(t, s.CreateRecurringExpense(ctx, &models.RecurringExpense{
			Name: name, Amount: 500000, Category: "Rent",
			Frequency: models.FreqMonthly, NextDueDate: due, Active: active,
		}))
	}
	create("shop rent", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), true)
	create("insurance", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), true)
	create("old plan", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), false)

	due, err := s.ListDueRecurringExpenses(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "shop rent", due[0].Name)
}

func TestAdvanceRecurringExpense(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	re := &models.RecurringExpense{
		Name: "shop rent", Amount: 500000, Category: "Rent",
		Frequency:   models.FreqMonthly,
		NextDueDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	}
	require.NoError(t, s.CreateRecurringExpense(ctx, re))

	next := re.Frequency.NextAfter(re.NextDueDate)
	require.NoError(t, s.RunAtomic(ctx, func(tx *AtomicTx) error {
		return tx.AdvanceRecurringExpense(ctx, re.ID, next)
	}))

	all, err := s.ListRecurringExpenses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), all[0].NextDueDate.UTC())
}
