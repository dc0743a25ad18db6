package strategy

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// Replay reproduces a historical trade sequence: once the tick timestamp
// reaches the next trade's timestamp, that trade is emitted as an
// immediate-or-cancel limit order. Useful for measuring how an observed order
// flow would have executed against the recorded book.
type Replay struct {
	Base
	trades []domain.TradeEvent
	next   int
}

// NewReplay creates a Replay strategy over the given trades, which must be
// ordered by timestamp.
func NewReplay(trades []domain.TradeEvent) *Replay {
	return &Replay{trades: trades}
}

// Name returns the strategy identifier.
func (r *Replay) Name() string { return "replay" }

// OnTick emits the next trade as a limit-IOC order when its timestamp has
// been reached, at most one per tick.
func (r *Replay) OnTick() (domain.Order, bool) {
	if r.next >= len(r.trades) {
		return domain.Order{}, false
	}

	t := r.trades[r.next]
	if r.Snapshot().Timestamp < t.Timestamp {
		return domain.Order{}, false
	}

	r.next++
	return domain.Order{
		Side:   t.Side,
		Kind:   domain.KindLimitIOC,
		Price:  t.Price,
		Amount: t.Amount,
	}, true
}
