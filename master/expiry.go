package master

import (
	"fmt"
	"sort"
	"time"
)

// ExpiryKind selects which of a scrip's expiries to trade.
type ExpiryKind string

const (
	Weekly  ExpiryKind = "weekly"
	Monthly ExpiryKind = "monthly"
)

// NextExpiry resolves the nearest index-option expiry for scrip on or after
// the given day.
//
// TODO: Monthly should pick the last weekly expiry of the calendar month;
// until that lands it resolves exactly like Weekly.
func NextExpiry(contracts []Contract, scrip string, kind ExpiryKind, now time.Time) (time.Time, error) {
	if kind != Weekly && kind != Monthly {
		return time.Time{}, fmt.Errorf("unknown expiry kind %q", kind)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	seen := make(map[time.Time]bool)
	var expiries []time.Time
	for _, c := range contracts {
		if c.Symbol != scrip || c.Instrument != "OPTIDX" {
			continue
		}
		if c.Expiry.Before(today) || seen[c.Expiry] {
			continue
		}
		seen[c.Expiry] = true
		expiries = append(expiries, c.Expiry)
	}
	if len(expiries) == 0 {
		return time.Time{}, fmt.Errorf("no upcoming expiries for %s", scrip)
	}

	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })
	return expiries[0], nil
}
