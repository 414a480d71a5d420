package exec

import "github.com/rustyeddy/optioner/strategy"

// Partition splits sliced orders into buys (qty > 0) and sells (qty < 0),
// keeping the relative order of each group. Zero quantities cannot occur
// upstream. Buys always execute before sells so that closing buys settle
// before short legs widen the margin exposure.
func Partition(orders []strategy.Leg) (buys, sells []strategy.Leg) {
	for _, o := range orders {
		if o.Qty > 0 {
			buys = append(buys, o)
		} else {
			sells = append(sells, o)
		}
	}
	return buys, sells
}
