package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/tokoledger/backend/src/logger"
	"github.com/username/tokoledger/backend/src/models"
)

const timeLayout = time.RFC3339

// atomicAttempts bounds how often a failed atomic unit is re-run before
// surfacing models.ErrAtomicWriteFailed.
const atomicAttempts = 2

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an injected database handle. The caller owns the
// handle's lifecycle up to Close.
func NewSQLiteStore(db *sql.DB) LedgerStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// AtomicTx is the handle passed to RunAtomic callbacks. Every write performed
// through it commits or rolls back as one unit.
type AtomicTx struct {
	tx *sql.Tx
}

func (s *sqliteStore) RunAtomic(ctx context.Context, fn func(tx *AtomicTx) error) error {
	var lastErr error
	for attempt := 1; attempt <= atomicAttempts; attempt++ {
		err := s.runOnce(ctx, fn)
		if err == nil {
			return nil
		}
		if isValidationError(err) || ctx.Err() != nil {
			return err
		}
		lastErr = err
		logger.L.Warn("Atomic unit failed", "attempt", attempt, "error", err)
	}
	return fmt.Errorf("%w: %v", models.ErrAtomicWriteFailed, lastErr)
}

func (s *sqliteStore) runOnce(ctx context.Context, fn func(tx *AtomicTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(&AtomicTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}

// isValidationError reports whether err is a domain validation failure that
// must abort without retry and reach the caller unchanged.
func isValidationError(err error) bool {
	return errors.Is(err, models.ErrProductNotFound) ||
		errors.Is(err, models.ErrInsufficientStock) ||
		errors.Is(err, models.ErrInvalidAmount) ||
		errors.Is(err, models.ErrNotFound)
}

// --- AtomicTx write primitives ---

// InsertTransaction persists t and fills in its ID and CreatedAt.
func (a *AtomicTx) InsertTransaction(ctx context.Context, t *models.Transaction) error {
	now := time.Now().UTC()
	res, err := a.tx.ExecContext(ctx, `
		INSERT INTO transactions (kind, amount, payment_method, payment_status, category, description, date, created_by, investor_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(t.Kind), t.Amount, t.PaymentMethod, string(t.PaymentStatus), t.Category, t.Description,
		t.Date.UTC().Format(timeLayout), nullInt64(t.CreatedBy), nullInt64(t.InvestorID), now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading transaction id: %w", err)
	}
	t.ID = id
	t.CreatedAt = now
	return nil
}

// InsertTransactionLine persists l and fills in its ID.
func (a *AtomicTx) InsertTransactionLine(ctx context.Context, l *models.TransactionLine) error {
	res, err := a.tx.ExecContext(ctx, `
		INSERT INTO transaction_lines (transaction_id, product_id, product_name, quantity, price_at_time, subtotal)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.TransactionID, l.ProductID, l.ProductName, l.Quantity, l.PriceAtTime, l.Subtotal)
	if err != nil {
		return fmt.Errorf("inserting transaction line: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading transaction line id: %w", err)
	}
	l.ID = id
	return nil
}

// GetProduct reads a product inside the atomic unit, so price/cost snapshots
// and stock checks see the same state the unit will commit against.
func (a *AtomicTx) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	row := a.tx.QueryRowContext(ctx, `
		SELECT id, sku, name, kind, price, cost, stock, created_at, updated_at
		FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrProductNotFound
	}
	return p, err
}

// AdjustProductStock applies a signed stock delta with a non-negative guard.
// The guard lives in the UPDATE itself (stock + delta >= 0), so a concurrent
// sale can never decrement past zero off a stale read: the statement either
// applies against the current committed level or affects no rows.
func (a *AtomicTx) AdjustProductStock(ctx context.Context, productID, delta int64) (int64, error) {
	res, err := a.tx.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?, updated_at = ?
		WHERE id = ? AND stock + ? >= 0`,
		delta, time.Now().UTC().Format(timeLayout), productID, delta)
	if err != nil {
		return 0, fmt.Errorf("adjusting stock for product %d: %w", productID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	if n == 0 {
		var stock int64
		err := a.tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, productID).Scan(&stock)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, models.ErrProductNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("re-reading product %d: %w", productID, err)
		}
		return 0, models.ErrInsufficientStock
	}

	var newLevel int64
	if err := a.tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = ?`, productID).Scan(&newLevel); err != nil {
		return 0, fmt.Errorf("reading new stock level for product %d: %w", productID, err)
	}
	return newLevel, nil
}

// InsertStockEvent appends a movement record and fills in its ID and CreatedAt.
func (a *AtomicTx) InsertStockEvent(ctx context.Context, e *models.StockEvent) error {
	now := time.Now().UTC()
	res, err := a.tx.ExecContext(ctx, `
		INSERT INTO stock_events (product_id, change, resulting_stock, kind, transaction_id, supplier_id, unit_cost, note, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ProductID, e.Change, e.ResultingStock, string(e.Kind), nullInt64(e.TransactionID),
		nullInt64(e.SupplierID), nullInt64(e.UnitCost), e.Note, nullInt64(e.CreatedBy), now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting stock event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading stock event id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

// InsertAsset persists a fixed asset inside the atomic unit (asset purchase
// creates the asset and its ASSET_PURCHASE transaction together).
func (a *AtomicTx) InsertAsset(ctx context.Context, asset *models.Asset) error {
	now := time.Now().UTC()
	res, err := a.tx.ExecContext(ctx, `
		INSERT INTO assets (name, category, purchase_price, purchase_date, useful_life_months, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		asset.Name, asset.Category, asset.PurchasePrice, asset.PurchaseDate.UTC().Format(timeLayout),
		asset.UsefulLifeMonths, now.Format(timeLayout))
	if err != nil {
		return fmt.Errorf("inserting asset: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading asset id: %w", err)
	}
	asset.ID = id
	asset.CreatedAt = now
	return nil
}

// AdvanceRecurringExpense moves a definition's next due date forward.
func (a *AtomicTx) AdvanceRecurringExpense(ctx context.Context, id int64, nextDue time.Time) error {
	res, err := a.tx.ExecContext(ctx, `
		UPDATE recurring_expenses SET next_due_date = ? WHERE id = ?`,
		nextDue.UTC().Format(timeLayout), id)
	if err != nil {
		return fmt.Errorf("advancing recurring expense %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// --- shared scan/null helpers ---

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func parseStoredTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// Older rows written by sqlite defaults lack a timezone designator.
		if t2, err2 := time.Parse("2006-01-02T15:04:05", s); err2 == nil {
			return t2.UTC()
		}
		logger.L.Warn("Unparseable stored timestamp", "value", s, "error", err)
		return time.Time{}
	}
	return t
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (*models.Product, error) {
	var p models.Product
	var kind, createdAt, updatedAt string
	var cost sql.NullInt64
	if err := r.Scan(&p.ID, &p.SKU, &p.Name, &kind, &p.Price, &cost, &p.Stock, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Kind = models.ProductKind(kind)
	p.Cost = int64Ptr(cost)
	p.CreatedAt = parseStoredTime(createdAt)
	p.UpdatedAt = parseStoredTime(updatedAt)
	return &p, nil
}
