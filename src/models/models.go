package models

import "time"

// TransactionKind discriminates ledger transactions. All statement derivation
// switches exhaustively over these values.
type TransactionKind string

const (
	KindSale          TransactionKind = "SALE"
	KindExpense       TransactionKind = "EXPENSE"
	KindCapitalIn     TransactionKind = "CAPITAL_IN"
	KindCapitalOut    TransactionKind = "CAPITAL_OUT"
	KindDividend      TransactionKind = "DIVIDEND"
	KindAssetPurchase TransactionKind = "ASSET_PURCHASE"
)

// Valid reports whether k is one of the known transaction kinds.
func (k TransactionKind) Valid() bool {
	switch k {
	case KindSale, KindExpense, KindCapitalIn, KindCapitalOut, KindDividend, KindAssetPurchase:
		return true
	}
	return false
}

// PaymentStatus marks whether a transaction has been settled. UNPAID
// transactions show up as liabilities on the balance sheet.
type PaymentStatus string

const (
	StatusPaid   PaymentStatus = "PAID"
	StatusUnpaid PaymentStatus = "UNPAID"
)

// ProductKind separates stock-tracked goods from services.
type ProductKind string

const (
	ProductGoods   ProductKind = "GOODS"
	ProductService ProductKind = "SERVICE"
)

// StockEventKind classifies a stock movement.
type StockEventKind string

const (
	StockOutSale   StockEventKind = "SALE"
	StockInRestock StockEventKind = "RESTOCK"
)

// Frequency is the recurrence period of a recurring expense.
type Frequency string

const (
	FreqDaily   Frequency = "DAILY"
	FreqWeekly  Frequency = "WEEKLY"
	FreqMonthly Frequency = "MONTHLY"
	FreqYearly  Frequency = "YEARLY"
)

// Transaction is a committed ledger entry. All monetary amounts across the
// system are integer minor units (e.g. cents); floats only appear at
// presentation boundaries. Transactions are immutable once committed —
// corrections are new offsetting transactions.
type Transaction struct {
	ID            int64             `json:"id"`
	Kind          TransactionKind   `json:"kind"`
	Amount        int64             `json:"amount"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Category      string            `json:"category,omitempty"` // EXPENSE grouping, also encoded as [Category] in the description
	Description   string            `json:"description"`
	Date          time.Time         `json:"date"`
	CreatedBy     *int64            `json:"created_by,omitempty"`
	InvestorID    *int64            `json:"investor_id,omitempty"`
	Lines         []TransactionLine `json:"lines,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// TransactionLine is a child row of a SALE transaction.
// Invariant: Σ Subtotal + tax + admin fee == parent Transaction.Amount.
type TransactionLine struct {
	ID            int64  `json:"id"`
	TransactionID int64  `json:"transaction_id"`
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"` // snapshot at sale time
	Quantity      int64  `json:"quantity"`
	PriceAtTime   int64  `json:"price_at_time"` // unit price snapshot, minor units
	Subtotal      int64  `json:"subtotal"`      // Quantity * PriceAtTime
}

// StockEvent is an append-only stock movement. ResultingStock must equal the
// product's stock level immediately after the event; events for one product
// are totally ordered by creation.
type StockEvent struct {
	ID             int64          `json:"id"`
	ProductID      int64          `json:"product_id"`
	Change         int64          `json:"change"` // signed delta
	ResultingStock int64          `json:"resulting_stock"`
	Kind           StockEventKind `json:"kind"`
	TransactionID  *int64         `json:"transaction_id,omitempty"`
	SupplierID     *int64         `json:"supplier_id,omitempty"`
	UnitCost       *int64         `json:"unit_cost,omitempty"`
	Note           string         `json:"note,omitempty"`
	CreatedBy      *int64         `json:"created_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Product is a sellable item. Stock is authoritative and only ever mutated
// through the stock tracker; Cost is nil for SERVICE products.
type Product struct {
	ID        int64       `json:"id"`
	SKU       string      `json:"sku"`
	Name      string      `json:"name"`
	Kind      ProductKind `json:"kind"`
	Price     int64       `json:"price"`
	Cost      *int64      `json:"cost,omitempty"`
	Stock     int64       `json:"stock"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Supplier is a goods source referenced by restock events.
type Supplier struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// User is a slim actor record referenced by transactions and stock events.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Investor holds outside capital. TotalInvestment (minor units) is the
// authoritative base for dividend allocation; SharePercent is informational
// only.
type Investor struct {
	ID              int64     `json:"id"`
	UserID          *int64    `json:"user_id,omitempty"`
	Name            string    `json:"name"`
	TotalInvestment int64     `json:"total_investment"`
	SharePercent    float64   `json:"share_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

// Asset is a fixed asset. Its current book value is never persisted; it is
// recomputed from the purchase data on every read (straight-line method).
type Asset struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Category         string    `json:"category"`
	PurchasePrice    int64     `json:"purchase_price"`
	PurchaseDate     time.Time `json:"purchase_date"`
	UsefulLifeMonths int64     `json:"useful_life_months"`
	CreatedAt        time.Time `json:"created_at"`
}

// RecurringExpense is a definition the scheduler materializes into EXPENSE
// transactions. Only the scheduler advances NextDueDate.
type RecurringExpense struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category"`
	Frequency   Frequency `json:"frequency"`
	NextDueDate time.Time `json:"next_due_date"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// NextAfter returns the due date advanced by one period. Unknown frequencies
// fall back to one calendar month.
func (f Frequency) NextAfter(t time.Time) time.Time {
	switch f {
	case FreqDaily:
		return t.AddDate(0, 0, 1)
	case FreqWeekly:
		return t.AddDate(0, 0, 7)
	case FreqYearly:
		return t.AddDate(1, 0, 0)
	case FreqMonthly:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 1, 0)
	}
}
