// Package broker defines the capability set an options backend must supply:
// instrument resolution, market order placement, and a success predicate over
// the backend's raw response. The execution engine is written against this
// interface and never branches on broker identity.
package broker

import (
	"context"
	"time"

	"github.com/rustyeddy/optioner/market"
)

type Side string

const (
	Buy  Side = "B"
	Sell Side = "S"
)

// OptionQuery identifies a single option contract to resolve.
type OptionQuery struct {
	Scrip  string
	Strike int
	Expiry time.Time
	Opt    market.OptionType
}

// Instrument is a resolved, tradable contract. Symbol is the broker's
// display/trading symbol; Token is its native identifier, opaque to callers.
type Instrument struct {
	Symbol string
	Token  string
}

// OrderRequest asks for a market order. Qty is always the absolute quantity;
// direction lives in Side.
type OrderRequest struct {
	Side       Side
	Instrument Instrument
	Qty        int
}

// Response is the backend's decoded reply, kept raw because each broker
// reports success through different fields. Feed it to the same broker's
// IsSuccess to interpret it.
type Response map[string]any

// Broker is implemented once per backend. Adding a broker means supplying
// these four methods; nothing in the engine changes.
type Broker interface {
	Name() string
	ResolveInstrument(ctx context.Context, q OptionQuery) (Instrument, error)
	PlaceOrder(ctx context.Context, req OrderRequest) (Response, error)
	IsSuccess(resp Response) bool
}

// Message pulls a human-readable status out of a raw response, trying the
// fields the supported backends use. Best effort: returns "" when nothing
// recognizable is present.
func Message(resp Response) string {
	for _, key := range []string{"emsg", "Message", "stat"} {
		if v, ok := resp[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
