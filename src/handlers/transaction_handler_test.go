package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/tokoledger/backend/src/models"
	"github.com/username/tokoledger/backend/src/services"
	"github.com/username/tokoledger/backend/src/store"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) store.LedgerStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	schema, err := os.ReadFile("../../db/migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	_, err = db.Exec(string(schema))
	require.NoError(t, err)

	st := store.NewSQLiteStore(db)
	t.Cleanup(func() { st.Close() })
	return st
}

func insertSale(t *testing.T, st store.LedgerStore, amount int64, date time.Time) {
	t.Helper()
	require.NoError(t, st.RunAtomic(context.Background(), func(tx *store.AtomicTx) error {
		return tx.InsertTransaction(context.Background(), &models.Transaction{
			Kind: models.KindSale, Amount: amount, PaymentMethod: "CASH",
			PaymentStatus: models.StatusPaid, Date: date,
		})
	}))
}

func TestListTransactionsEndDateCoversWholeDay(t *testing.T) {
	st := newTestStore(t)
	stock := services.NewStockService(st, nil)
	h := NewTransactionHandler(services.NewLedgerService(st, stock, nil))

	insertSale(t, st, 10000, time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC))
	// Midday on the requested end day: must be inside the range.
	insertSale(t, st, 20000, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC))
	insertSale(t, st, 30000, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))

	req := httptest.NewRequest("GET", "/api/transactions?from=2024-01-01&to=2024-01-31", nil)
	rec := httptest.NewRecorder()
	h.HandleListTransactions(rec, req)
	require.Equal(t, 200, rec.Code)

	var txs []models.Transaction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &txs))
	require.Len(t, txs, 2)
	assert.Equal(t, int64(20000), txs[0].Amount, "the end-day sale is inside the bound")
	assert.Equal(t, int64(10000), txs[1].Amount)
}

func TestListTransactionsRejectsBadDates(t *testing.T) {
	st := newTestStore(t)
	stock := services.NewStockService(st, nil)
	h := NewTransactionHandler(services.NewLedgerService(st, stock, nil))

	req := httptest.NewRequest("GET", "/api/transactions?to=31-01-2024", nil)
	rec := httptest.NewRecorder()
	h.HandleListTransactions(rec, req)
	assert.Equal(t, 400, rec.Code)

	req = httptest.NewRequest("GET", "/api/transactions?kind=BOGUS", nil)
	rec = httptest.NewRecorder()
	h.HandleListTransactions(rec, req)
	assert.Equal(t, 400, rec.Code)
}
