package engine

import (
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/lobtest/internal/domain"
	"github.com/alanyoungcy/lobtest/internal/portfolio"
)

// Dispatcher routes orders to their matching policy and owns the cross-tick
// pending-order pool. An order stays in the pool until a tick both matches it
// and passes the portfolio gate; there is no backoff and no retry limit.
type Dispatcher struct {
	policies map[domain.OrderKind]Policy
	pending  []domain.Order

	// scratch is reused for fills across orders and ticks so the matching hot
	// path does not allocate once the buffer has warmed up.
	scratch []domain.Fill

	logger *slog.Logger
}

// NewDispatcher creates a dispatcher with the three supported order kinds
// registered.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		policies: map[domain.OrderKind]Policy{
			domain.KindMarket:   NewMarketPolicy(),
			domain.KindLimitFOK: NewLimitFOKPolicy(),
			domain.KindLimitIOC: NewLimitIOCPolicy(),
		},
		logger: logger.With(slog.String("component", "dispatcher")),
	}
}

// Submit appends an order to the pending pool. Business validation happens at
// fill-application time against the portfolio, not here.
func (d *Dispatcher) Submit(order domain.Order) {
	d.logger.Debug("order submitted",
		slog.String("side", string(order.Side)),
		slog.String("kind", string(order.Kind)),
		slog.Float64("price", order.Price),
		slog.Float64("amount", order.Amount),
	)
	d.pending = append(d.pending, order)
}

// Pending returns the number of orders waiting in the pool.
func (d *Dispatcher) Pending() int {
	return len(d.pending)
}

// Tick attempts every pending order against the snapshot. Executed orders
// leave the pool; the rest are retried on the next tick. It reports whether
// at least one order executed. An order with an unregistered kind or an
// undefined side aborts the run: both are configuration bugs, never data
// conditions.
func (d *Dispatcher) Tick(snap domain.Snapshot, pf *portfolio.Portfolio) (bool, error) {
	kept := d.pending[:0]
	executed := false

	for _, order := range d.pending {
		done, err := d.execute(order, snap, pf)
		if err != nil {
			return false, err
		}
		if done {
			executed = true
		} else {
			kept = append(kept, order)
		}
	}

	d.pending = kept
	return executed, nil
}

// execute matches one order and, when the portfolio gate accepts, applies the
// fills. A false return with nil error means the order stays pending.
func (d *Dispatcher) execute(order domain.Order, snap domain.Snapshot, pf *portfolio.Portfolio) (bool, error) {
	policy, ok := d.policies[order.Kind]
	if !ok {
		return false, fmt.Errorf("engine: order kind %q: %w", order.Kind, domain.ErrUnknownOrderKind)
	}

	fills, err := match(policy, order, snap, d.scratch[:0])
	if err != nil {
		return false, fmt.Errorf("engine: %w", err)
	}
	d.scratch = fills[:0]

	if len(fills) == 0 {
		return false, nil
	}

	switch order.Side {
	case domain.SideBuy:
		if !pf.CanBuy(fills) {
			d.logger.Debug("buy rejected, insufficient cash",
				slog.Float64("cost", domain.FillsCost(fills)),
				slog.Float64("cash", pf.Cash()),
			)
			return false, nil
		}
		pf.ApplyBuy(fills)
	case domain.SideSell:
		if !pf.CanSell(fills) {
			d.logger.Debug("sell rejected, insufficient holdings",
				slog.Float64("amount", domain.FillsAmount(fills)),
				slog.Float64("asset", pf.AssetAmount()),
			)
			return false, nil
		}
		if err := pf.ApplySell(fills); err != nil {
			return false, fmt.Errorf("engine: apply sell: %w", err)
		}
	default:
		return false, fmt.Errorf("engine: %w", domain.ErrUndefinedSide)
	}

	d.logger.Debug("order executed",
		slog.String("side", string(order.Side)),
		slog.String("kind", string(order.Kind)),
		slog.Int("fills", len(fills)),
		slog.Float64("filled_amount", domain.FillsAmount(fills)),
	)
	return true, nil
}
