package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"futuresbot/internal/core/execution"
	"futuresbot/internal/core/order"
	"futuresbot/internal/telemetry"
)

var _ execution.Journal = (*Store)(nil)

// Store journals every submission attempt — accepted, locally rejected
// or exchange-rejected — to a SQLite file. It is a write-only audit
// sink; nothing in the bot reads it back.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS submissions (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	submitted_at    TEXT    NOT NULL,
	symbol          TEXT    NOT NULL,
	side            TEXT    NOT NULL,
	order_type      TEXT    NOT NULL,
	quantity        TEXT    NOT NULL,
	price           TEXT,
	time_in_force   TEXT,
	reduce_only     INTEGER NOT NULL DEFAULT 0,
	client_order_id TEXT,

	outcome         TEXT    NOT NULL, -- placed | validation_rejected | exchange_error
	order_id        INTEGER,
	status          TEXT,
	error           TEXT
)`

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create audit dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init audit schema: %w", err)
	}

	telemetry.Debugf("audit store: opened %s", path)
	return &Store{db: db}, nil
}

// Record implements execution.Journal.
func (s *Store) Record(ctx context.Context, req order.Request, res *order.Result, submitErr error) error {
	outcome := "placed"
	var orderID sql.NullInt64
	var status, errText sql.NullString

	switch {
	case submitErr == nil && res != nil:
		orderID = sql.NullInt64{Int64: res.OrderID, Valid: true}
		status = sql.NullString{String: res.Status, Valid: true}
	case isValidation(submitErr):
		outcome = "validation_rejected"
		errText = sql.NullString{String: submitErr.Error(), Valid: true}
	default:
		outcome = "exchange_error"
		if submitErr != nil {
			errText = sql.NullString{String: submitErr.Error(), Valid: true}
		}
	}

	var price sql.NullString
	if req.Price.Sign() > 0 {
		price = sql.NullString{String: req.Price.String(), Valid: true}
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO submissions
		 (submitted_at, symbol, side, order_type, quantity, price, time_in_force, reduce_only, client_order_id, outcome, order_id, status, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano),
		req.Symbol, string(req.Side), string(req.Type),
		req.Quantity.String(), price, req.TimeInForce, boolToInt(req.ReduceOnly), req.ClientOrderID,
		outcome, orderID, status, errText,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isValidation(err error) bool {
	var verr *order.ValidationError
	return errors.As(err, &verr)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
