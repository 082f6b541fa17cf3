package processors

import (
	"sort"
	"strings"
	"time"

	"github.com/username/tokoledger/backend/src/models"
)

// UncategorizedLabel is the expense bucket for descriptions without a
// [Category] prefix and no first-class category.
const UncategorizedLabel = "Uncategorized"

// StatementProcessor derives financial statements from ledger contents.
// Every method is a pure function of its inputs.
type StatementProcessor struct{}

func NewStatementProcessor() *StatementProcessor { return &StatementProcessor{} }

// ParseCategory extracts the leading [Category] token from an expense
// description. Legacy rows encode the category this way; newer rows also carry
// a first-class category column, with this parse as the fallback.
func ParseCategory(description string) string {
	s := strings.TrimSpace(description)
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 1 {
			if cat := strings.TrimSpace(s[1:end]); cat != "" {
				return cat
			}
		}
	}
	return UncategorizedLabel
}

func expenseCategory(t models.Transaction) string {
	if c := strings.TrimSpace(t.Category); c != "" {
		return c
	}
	return ParseCategory(t.Description)
}

// ProfitLoss computes the P&L over the given transactions. COGS uses each
// product's current cost, not the cost at sale time, so editing a cost later
// restates historical margins. That mirrors how the ledger has always worked.
func (p *StatementProcessor) ProfitLoss(txs []models.Transaction, products map[int64]models.Product) models.ProfitLossStatement {
	var st models.ProfitLossStatement
	expenses := make(map[string]int64)

	for _, t := range txs {
		switch t.Kind {
		case models.KindSale:
			st.Revenue += t.Amount
			for _, l := range t.Lines {
				if prod, ok := products[l.ProductID]; ok && prod.Cost != nil {
					st.COGS += l.Quantity * *prod.Cost
				}
			}
		case models.KindExpense:
			expenses[expenseCategory(t)] += t.Amount
		case models.KindCapitalIn, models.KindCapitalOut, models.KindDividend, models.KindAssetPurchase:
			// capital movements never touch the P&L
		}
	}

	st.GrossProfit = st.Revenue - st.COGS
	if st.Revenue != 0 {
		st.GrossMarginPercent = float64(st.GrossProfit) / float64(st.Revenue) * 100
	}

	for cat, amount := range expenses {
		st.ExpensesByCategory = append(st.ExpensesByCategory, models.CategoryAmount{Category: cat, Amount: amount})
		st.TotalExpenses += amount
	}
	sort.Slice(st.ExpensesByCategory, func(i, j int) bool {
		a, b := st.ExpensesByCategory[i], st.ExpensesByCategory[j]
		if a.Amount != b.Amount {
			return a.Amount > b.Amount
		}
		return a.Category < b.Category
	})

	st.OperatingIncome = st.GrossProfit - st.TotalExpenses
	st.NetProfit = st.OperatingIncome
	return st
}

// CashFlow buckets transactions into operating, investing and financing
// activity (direct method). Ending cash assumes a zero starting balance:
// the view is cumulative from inception, not period-bounded.
func (p *StatementProcessor) CashFlow(txs []models.Transaction) models.CashFlowStatement {
	var st models.CashFlowStatement
	for _, t := range txs {
		switch t.Kind {
		case models.KindSale:
			st.OperatingInflow += t.Amount
		case models.KindExpense:
			st.OperatingOutflow += t.Amount
		case models.KindAssetPurchase:
			st.InvestingOutflow += t.Amount
		case models.KindCapitalIn:
			st.FinancingInflow += t.Amount
		case models.KindCapitalOut, models.KindDividend:
			st.FinancingOutflow += t.Amount
		}
	}
	st.OperatingNet = st.OperatingInflow - st.OperatingOutflow
	st.InvestingNet = -st.InvestingOutflow
	st.FinancingNet = st.FinancingInflow - st.FinancingOutflow
	st.NetCashFlow = st.OperatingNet + st.InvestingNet + st.FinancingNet
	st.EndingCash = st.NetCashFlow
	return st
}

// BalanceSheet assembles the balance sheet as of now. Retained earnings is the
// plug figure (assets - liabilities - capital), so the sheet balances by
// construction.
func (p *StatementProcessor) BalanceSheet(
	txs []models.Transaction,
	products []models.Product,
	assets []models.Asset,
	investors []models.Investor,
	asOf time.Time,
) models.BalanceSheet {
	var bs models.BalanceSheet

	cf := p.CashFlow(txs)
	bs.Cash = cf.NetCashFlow

	for _, prod := range products {
		if prod.Cost != nil {
			bs.InventoryValue += prod.Stock * *prod.Cost
		}
	}

	dep := NewDepreciationCalculator()
	for _, a := range assets {
		bs.FixedAssets += dep.CurrentValue(a, asOf)
	}

	bs.TotalAssets = bs.Cash + bs.InventoryValue + bs.FixedAssets

	for _, t := range txs {
		if t.PaymentStatus == models.StatusUnpaid {
			bs.TotalLiabilities += t.Amount
		}
	}

	for _, inv := range investors {
		bs.Capital += inv.TotalInvestment
	}

	bs.RetainedEarnings = bs.TotalAssets - bs.TotalLiabilities - bs.Capital
	bs.TotalEquity = bs.Capital + bs.RetainedEarnings
	return bs
}
