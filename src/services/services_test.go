package services

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/require"
	"github.com/username/tokoledger/backend/src/store"
	_ "modernc.org/sqlite"
)

type testEnv struct {
	store  store.LedgerStore
	cache  *cache.Cache
	ledger LedgerService
	stock  StockService
}

func newTestEnv(t *testing.T) *testEnv {
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

	c := cache.New(time.Minute, 5*time.Minute)
	stock := NewStockService(st, c)
	return &testEnv{
		store:  st,
		cache:  c,
		ledger: NewLedgerService(st, stock, c),
		stock:  stock,
	}
}
