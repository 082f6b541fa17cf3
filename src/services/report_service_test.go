package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitLossFromLedger(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reports := NewReportService(env.store, env.cache, 10)

	p := seedGoods(t, env, "PNL-01", 10000, 6000, 50)
	_, err := env.ledger.RecordSale(ctx, SaleInput{
		Lines:         []SaleLine{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	_, err = env.ledger.RecordExpense(ctx, ExpenseInput{
		Category: "Rent", Amount: 5000, PaymentMethod: "TRANSFER",
	})
	require.NoError(t, err)

	st, err := reports.ProfitLoss(ctx, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(20000), st.Revenue)
	assert.Equal(t, int64(12000), st.COGS, "COGS uses the product's current unit cost")
	assert.Equal(t, int64(8000), st.GrossProfit)
	assert.Equal(t, int64(5000), st.TotalExpenses)
	assert.Equal(t, int64(3000), st.NetProfit)
	require.Len(t, st.ExpensesByCategory, 1)
	assert.Equal(t, "Rent", st.ExpensesByCategory[0].Category)
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reports := NewReportService(env.store, env.cache, 10)

	p := seedGoods(t, env, "DSH-01", 10000, 6000, 3)
	_, err := env.ledger.RecordSale(ctx, SaleInput{
		Lines:         []SaleLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	_, err = env.ledger.RecordSale(ctx, SaleInput{
		Lines:         []SaleLine{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	summary, err := reports.Dashboard(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(30000), summary.TodaySales)
	assert.Equal(t, int64(30000), summary.MonthRevenue)
	assert.InDelta(t, 100.0, summary.RevenueGrowthPct, 1e-9, "no prior month reads as 100% growth")
	assert.Equal(t, int64(15000), summary.AverageOrderValue)

	require.Len(t, summary.TopProducts, 1)
	assert.Equal(t, int64(3), summary.TopProducts[0].Quantity)
	assert.Equal(t, int64(30000), summary.TopProducts[0].Revenue)

	require.Len(t, summary.LowStock, 1, "stock 0 after the sales is below threshold")
	assert.Equal(t, p.ID, summary.LowStock[0].ProductID)

	require.Len(t, summary.DailyTrend, 1)
	assert.Equal(t, int64(30000), summary.DailyTrend[0].Total)
}

func TestReportCacheFlushedByWrites(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reports := NewReportService(env.store, env.cache, 10)

	p := seedGoods(t, env, "CCH-01", 10000, 6000, 50)

	first, err := reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Zero(t, first.TodaySales)

	_, err = env.ledger.RecordSale(ctx, SaleInput{
		Lines:         []SaleLine{{ProductID: p.ID, Quantity: 1}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)

	second, err := reports.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), second.TodaySales, "a committed sale must invalidate the cached dashboard")
}

func TestCashFlowAndBalanceSheet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	reports := NewReportService(env.store, env.cache, 10)

	p := seedGoods(t, env, "CFB-01", 10000, 6000, 10)
	_, err := env.ledger.RecordSale(ctx, SaleInput{
		Lines:         []SaleLine{{ProductID: p.ID, Quantity: 2}},
		PaymentMethod: "CASH",
	})
	require.NoError(t, err)
	_, err = env.ledger.RecordExpense(ctx, ExpenseInput{
		Category: "Rent", Amount: 5000, PaymentMethod: "TRANSFER",
	})
	require.NoError(t, err)

	cf, err := reports.CashFlow(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), cf.OperatingInflow)
	assert.Equal(t, int64(5000), cf.OperatingOutflow)
	assert.Equal(t, int64(15000), cf.NetCashFlow)
	assert.Equal(t, int64(15000), cf.EndingCash)

	bs, err := reports.BalanceSheet(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), bs.Cash)
	// 8 units left at cost 6000.
	assert.Equal(t, int64(48000), bs.InventoryValue)
	assert.Equal(t, bs.TotalAssets, bs.TotalLiabilities+bs.TotalEquity)
}
