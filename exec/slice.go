// Package exec turns expanded strategy legs into exchange-acceptable orders
// and drives them through a broker: slice to the freeze quantity, partition
// into buys and sells, place buys, wait for settlement, place sells.
package exec

import "github.com/rustyeddy/optioner/strategy"

// SliceForFreeze splits any leg whose absolute quantity exceeds limit into
// whole slices of exactly limit plus one remainder, preserving sign and
// relative order. limit == 0 means no cap.
//
// For every leg the signed quantities of its slices sum to the leg's original
// quantity, and the slice count is ceil(|qty|/limit).
func SliceForFreeze(legs []strategy.Leg, limit int) []strategy.Leg {
	if limit <= 0 {
		return legs
	}

	sliced := make([]strategy.Leg, 0, len(legs))
	for _, leg := range legs {
		absQty := leg.AbsQty()
		if absQty <= limit {
			sliced = append(sliced, leg)
			continue
		}

		sign := 1
		if leg.Qty < 0 {
			sign = -1
		}

		full := strategy.Leg{Strike: leg.Strike, Opt: leg.Opt, Qty: sign * limit}
		for i := 0; i < absQty/limit; i++ {
			sliced = append(sliced, full)
		}
		if rem := absQty % limit; rem != 0 {
			sliced = append(sliced, strategy.Leg{Strike: leg.Strike, Opt: leg.Opt, Qty: sign * rem})
		}
	}
	return sliced
}
