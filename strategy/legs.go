package strategy

import (
	"sort"

	"github.com/rustyeddy/optioner/market"
)

// Leg is one directional quantity of a specific option contract. Qty is
// signed: positive buys, negative sells. A Leg never carries Qty == 0.
type Leg struct {
	Strike int
	Opt    market.OptionType
	Qty    int
}

// Side returns "B" or "S" from the sign of the quantity.
func (l Leg) Side() string {
	if l.Qty > 0 {
		return "B"
	}
	return "S"
}

// AbsQty returns the unsigned quantity.
func (l Leg) AbsQty() int {
	if l.Qty < 0 {
		return -l.Qty
	}
	return l.Qty
}

// ExpandLegs turns the strategy's exit and entry specs into a flat list of
// signed legs for one client.
//
// Each active sub-spec contributes a primary leg and a hedge leg of the same
// magnitude with the opposite sign. Hedges sit away from the primary strike:
// puts hedge below (strike - gap), calls hedge above (strike + gap). Exit
// primaries buy back shorts (+ExitQty); entry primaries sell to open
// (-EntryQty). That fixed polarity is the short-strangle-with-hedges shape
// this tool exists for, not a general sign rule.
//
// A sub-spec with strike 0 (or a zero quantity) is skipped. Legs come back
// in emission order: exit-put, exit-call, entry-put, entry-call, each
// primary-then-hedge. Callers sort with SortByQtyDesc before slicing.
func ExpandLegs(st *Strategy, q ClientQty) ([]Leg, error) {
	exitPE, exitCE, err := st.Exit.ParseStrikes()
	if err != nil {
		return nil, err
	}
	entryPE, entryCE, err := st.Entry.ParseStrikes()
	if err != nil {
		return nil, err
	}

	var legs []Leg
	add := func(primary, hedge Leg) {
		legs = append(legs, primary, hedge)
	}

	if exitPE > 0 && q.ExitQty != 0 {
		add(
			Leg{Strike: exitPE, Opt: market.PE, Qty: q.ExitQty},
			Leg{Strike: exitPE - st.Exit.HedgeGap, Opt: market.PE, Qty: -q.ExitQty},
		)
	}
	if exitCE > 0 && q.ExitQty != 0 {
		add(
			Leg{Strike: exitCE, Opt: market.CE, Qty: q.ExitQty},
			Leg{Strike: exitCE + st.Exit.HedgeGap, Opt: market.CE, Qty: -q.ExitQty},
		)
	}
	if entryPE > 0 && q.EntryQty != 0 {
		add(
			Leg{Strike: entryPE, Opt: market.PE, Qty: -q.EntryQty},
			Leg{Strike: entryPE - st.Entry.HedgeGap, Opt: market.PE, Qty: q.EntryQty},
		)
	}
	if entryCE > 0 && q.EntryQty != 0 {
		add(
			Leg{Strike: entryCE, Opt: market.CE, Qty: -q.EntryQty},
			Leg{Strike: entryCE + st.Entry.HedgeGap, Opt: market.CE, Qty: q.EntryQty},
		)
	}

	return legs, nil
}

// SortByQtyDesc orders legs by quantity descending, so the largest buys are
// placed first. Stable, so the expansion order breaks ties deterministically.
func SortByQtyDesc(legs []Leg) {
	sort.SliceStable(legs, func(i, j int) bool {
		return legs[i].Qty > legs[j].Qty
	})
}
