package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordOrder(rec OrderRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO orders
		(run_id, client, broker, symbol, side, qty, status, message, demo, placed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Client, rec.Broker, rec.Symbol, rec.Side,
		rec.Qty, rec.Status, rec.Message, rec.Demo, rec.PlacedAt,
	)
	return err
}

// ListOrdersByRun returns a run's orders in placement order.
func (j *SQLite) ListOrdersByRun(runID string) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, client, broker, symbol, side, qty, status, message, demo, placed_at
		FROM orders WHERE run_id = ? ORDER BY placed_at, rowid`, runID)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

// ListOrdersBetween returns orders placed in [start, end).
func (j *SQLite) ListOrdersBetween(start, end time.Time) ([]OrderRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, client, broker, symbol, side, qty, status, message, demo, placed_at
		FROM orders WHERE placed_at >= ? AND placed_at < ? ORDER BY placed_at, rowid`,
		start, end)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func scanOrders(rows *sql.Rows) ([]OrderRecord, error) {
	defer rows.Close()

	var recs []OrderRecord
	for rows.Next() {
		var rec OrderRecord
		var msg sql.NullString
		if err := rows.Scan(
			&rec.RunID, &rec.Client, &rec.Broker, &rec.Symbol, &rec.Side,
			&rec.Qty, &rec.Status, &msg, &rec.Demo, &rec.PlacedAt,
		); err != nil {
			return nil, err
		}
		rec.Message = msg.String
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
