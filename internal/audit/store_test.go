package audit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"futuresbot/internal/core/order"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordOutcomes(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	req := order.Request{
		Symbol:      "BTCUSDT",
		Side:        order.SideSell,
		Type:        order.TypeLimit,
		Quantity:    decimal.NewFromInt(1),
		Price:       decimal.NewFromInt(50000),
		TimeInForce: "GTC",
	}

	require.NoError(t, s.Record(ctx, req, &order.Result{OrderID: 42, Status: "NEW"}, nil))
	require.NoError(t, s.Record(ctx, req, nil, &order.ValidationError{Field: "quantity", Reason: "must be positive"}))
	require.NoError(t, s.Record(ctx, req, nil, &order.ExchangeError{Code: -2019, Msg: "Margin is insufficient."}))

	counts := map[string]int{}
	rows, err := s.db.Query(`SELECT outcome, COUNT(*) FROM submissions GROUP BY outcome`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var outcome string
		var n int
		require.NoError(t, rows.Scan(&outcome, &n))
		counts[outcome] = n
	}
	require.NoError(t, rows.Err())

	assert.Equal(t, 1, counts["placed"])
	assert.Equal(t, 1, counts["validation_rejected"])
	assert.Equal(t, 1, counts["exchange_error"])

	var orderID int64
	var status string
	err = s.db.QueryRow(`SELECT order_id, status FROM submissions WHERE outcome = 'placed'`).Scan(&orderID, &status)
	require.NoError(t, err)
	assert.Equal(t, int64(42), orderID)
	assert.Equal(t, "NEW", status)
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "audit.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
}
