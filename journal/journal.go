// Package journal persists every order outcome of a run so partial fills can
// be reconciled after a fail-fast abort.
package journal

import "time"

// OrderRecord is one dispatched (or demo-simulated) order outcome.
type OrderRecord struct {
	RunID  string
	Client string
	Broker string
	Symbol string
	Side   string // "B" or "S"
	Qty    int    // signed
	Status string // "SUCCESS" or "FAILED"
	// Message carries the broker's raw status text on failure.
	Message  string
	Demo     bool
	PlacedAt time.Time
}

type Journal interface {
	RecordOrder(rec OrderRecord) error
	Close() error
}

// Nop discards records. Used when journaling is disabled.
type Nop struct{}

func (Nop) RecordOrder(OrderRecord) error { return nil }
func (Nop) Close() error                  { return nil }
