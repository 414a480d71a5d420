package exec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"

	"github.com/rustyeddy/optioner/broker"
	"github.com/rustyeddy/optioner/journal"
	"github.com/rustyeddy/optioner/market"
	"github.com/rustyeddy/optioner/pkg/id"
	"github.com/rustyeddy/optioner/strategy"
)

// Phase is the runner's position in a single client's lifecycle.
type Phase int

const (
	Idle Phase = iota
	PlacingBuys
	Pausing
	PlacingSells
	Done
	Aborted
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case PlacingBuys:
		return "placing_buys"
	case Pausing:
		return "pausing"
	case PlacingSells:
		return "placing_sells"
	case Done:
		return "done"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Outcome is the uniform result of one dispatched order, whichever backend
// produced it.
type Outcome struct {
	Symbol  string
	Qty     int // signed
	Status  string
	Message string
}

// ErrAborted is returned when a broker reports a failed order and the run
// stops without dispatching anything further. Already-placed orders stand;
// there is no rollback.
var ErrAborted = errors.New("run aborted")

// Runner drives one client's orders through a broker, buys first, then a
// settlement pause, then sells.
type Runner struct {
	Broker  broker.Broker
	Journal journal.Journal
	Logger  *zap.Logger
	Out     io.Writer

	// Demo skips placement entirely: every order resolves and reports as a
	// vacuous success, and nothing touches the network beyond resolution.
	Demo bool

	// SettleWait separates the buy phase from the sell phase. Defaults to
	// DefaultSettleWait.
	SettleWait time.Duration
}

const DefaultSettleWait = 2 * time.Second

func (r *Runner) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}

func (r *Runner) out() io.Writer {
	if r.Out == nil {
		return os.Stdout
	}
	return r.Out
}

func (r *Runner) journal() journal.Journal {
	if r.Journal == nil {
		return journal.Nop{}
	}
	return r.Journal
}

// Run executes the strategy for one client: expand, sort, slice, partition,
// then place buys, pause, place sells. The first failed order aborts the run
// with ErrAborted; outcomes up to and including the failure are returned.
func (r *Runner) Run(ctx context.Context, st *strategy.Strategy, clientID string) ([]Outcome, error) {
	q, ok := st.Clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client %q not in strategy", clientID)
	}

	expiry, err := st.ExpiryTime()
	if err != nil {
		return nil, err
	}
	if expiry.IsZero() {
		return nil, fmt.Errorf("strategy expiry not resolved")
	}

	legs, err := strategy.ExpandLegs(st, q)
	if err != nil {
		return nil, err
	}
	strategy.SortByQtyDesc(legs)

	orders := SliceForFreeze(legs, market.FreezeQty(st.Scrip))
	buys, sells := Partition(orders)

	runID := id.New()
	log := r.logger().With(
		zap.String("run_id", runID),
		zap.String("client", clientID),
		zap.String("broker", r.Broker.Name()),
		zap.String("scrip", st.Scrip),
		zap.Bool("demo", r.Demo),
	)
	log.Info("starting run",
		zap.Int("legs", len(legs)),
		zap.Int("orders", len(orders)),
		zap.Int("buys", len(buys)),
		zap.Int("sells", len(sells)),
	)

	var outcomes []Outcome

	place := func(phase Phase, group []strategy.Leg) error {
		log.Debug("entering phase", zap.Stringer("phase", phase))
		for _, order := range group {
			outcome, err := r.Dispatch(ctx, st.Scrip, expiry, order)
			if outcome.Symbol != "" {
				// Resolution failures never reach the broker, so there
				// is nothing to journal for them.
				outcomes = append(outcomes, outcome)
				r.record(runID, clientID, order, outcome)
			}
			if err != nil {
				log.Error("run aborted",
					zap.Stringer("phase", phase),
					zap.String("symbol", outcome.Symbol),
					zap.Error(err),
				)
				return err
			}
			r.report(outcome)
		}
		return nil
	}

	if err := place(PlacingBuys, buys); err != nil {
		return outcomes, err
	}

	if len(buys) > 0 && len(sells) > 0 {
		log.Debug("entering phase", zap.Stringer("phase", Pausing))
		if err := r.settle(ctx); err != nil {
			return outcomes, err
		}
	}

	if err := place(PlacingSells, sells); err != nil {
		return outcomes, err
	}

	log.Info("run complete", zap.Int("orders_placed", len(outcomes)))
	return outcomes, nil
}

// Dispatch resolves and places a single sliced order. A broker-reported
// failure comes back as an Outcome with StatusFailed plus an error wrapping
// ErrAborted; the caller must stop the run.
func (r *Runner) Dispatch(ctx context.Context, scrip string, expiry time.Time, order strategy.Leg) (Outcome, error) {
	inst, err := r.Broker.ResolveInstrument(ctx, broker.OptionQuery{
		Scrip:  scrip,
		Strike: order.Strike,
		Expiry: expiry,
		Opt:    order.Opt,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("resolve %d%s: %w", order.Strike, order.Opt, err)
	}

	outcome := Outcome{Symbol: inst.Symbol, Qty: order.Qty, Status: StatusSuccess}
	if r.Demo {
		return outcome, nil
	}

	side := broker.Buy
	if order.Qty < 0 {
		side = broker.Sell
	}

	resp, err := r.Broker.PlaceOrder(ctx, broker.OrderRequest{
		Side:       side,
		Instrument: inst,
		Qty:        order.AbsQty(),
	})
	if err != nil {
		outcome.Status = StatusFailed
		outcome.Message = err.Error()
		return outcome, fmt.Errorf("%s qty:%d: %w: %w", inst.Symbol, order.Qty, ErrAborted, err)
	}
	if !r.Broker.IsSuccess(resp) {
		outcome.Status = StatusFailed
		outcome.Message = broker.Message(resp)
		return outcome, fmt.Errorf("%s qty:%d rejected: %s: %w", inst.Symbol, order.Qty, outcome.Message, ErrAborted)
	}

	return outcome, nil
}

// settle waits out the exchange settlement window between buys and sells.
func (r *Runner) settle(ctx context.Context) error {
	wait := r.SettleWait
	if wait == 0 {
		wait = DefaultSettleWait
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (r *Runner) record(runID, clientID string, order strategy.Leg, outcome Outcome) {
	err := r.journal().RecordOrder(journal.OrderRecord{
		RunID:    runID,
		Client:   clientID,
		Broker:   r.Broker.Name(),
		Symbol:   outcome.Symbol,
		Side:     order.Side(),
		Qty:      outcome.Qty,
		Status:   outcome.Status,
		Message:  outcome.Message,
		Demo:     r.Demo,
		PlacedAt: time.Now().UTC(),
	})
	if err != nil {
		r.logger().Warn("journal write failed", zap.Error(err))
	}
}

func (r *Runner) report(outcome Outcome) {
	paint := color.New(color.FgGreen)
	if outcome.Qty < 0 {
		paint = color.New(color.FgRed)
	}
	paint.Fprintf(r.out(), "%s qty:%d - order placed successfully!\n", outcome.Symbol, outcome.Qty)
}
