// market/instruments.go
package market

// OptionType is the option contract kind as quoted on NSE.
type OptionType string

const (
	PE OptionType = "PE" // put
	CE OptionType = "CE" // call
)

// Valid reports whether t is one of the two quoted option kinds.
func (t OptionType) Valid() bool {
	return t == PE || t == CE
}

type ScripMeta struct {
	Name       string
	LotSize    int
	StrikeStep int
	// FreezeQty is the exchange-imposed maximum quantity for a single
	// order. Orders above it must be sliced. 0 means no cap.
	FreezeQty int
}

// Scrips is the closed set of index underlyings we trade options on.
// Freeze quantities follow the NSE circular values for each index.
var Scrips = map[string]ScripMeta{
	"NIFTY": {
		Name:       "NIFTY",
		LotSize:    50,
		StrikeStep: 50,
		FreezeQty:  1800,
	},
	"BANKNIFTY": {
		Name:       "BANKNIFTY",
		LotSize:    15,
		StrikeStep: 100,
		FreezeQty:  900,
	},
	"FINNIFTY": {
		Name:       "FINNIFTY",
		LotSize:    40,
		StrikeStep: 50,
		FreezeQty:  1800,
	},
	"MIDCPNIFTY": {
		Name:       "MIDCPNIFTY",
		LotSize:    75,
		StrikeStep: 25,
		FreezeQty:  4200,
	},
}

// FreezeQty returns the freeze quantity for scrip, or 0 (no cap) when the
// scrip is unknown.
func FreezeQty(scrip string) int {
	return Scrips[scrip].FreezeQty
}

// Supported reports whether scrip is in the tradable set.
func Supported(scrip string) bool {
	_, ok := Scrips[scrip]
	return ok
}
