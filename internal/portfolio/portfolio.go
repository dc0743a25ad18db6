// Package portfolio tracks cash, asset holdings, open lots, and the trade and
// value histories of a backtest run. All mutation goes through ApplyBuy,
// ApplySell, and MarkValue; the dispatcher and the backtest loop never touch
// the fields directly.
package portfolio

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// epsilon absorbs floating-point residue when shrinking lots. A lot whose
// remaining amount falls at or below this threshold is considered consumed.
const epsilon = 1e-10

// Portfolio owns the accounting state of one backtest run. It is not safe for
// concurrent use; the replay loop is single-threaded by design.
type Portfolio struct {
	cash  float64
	asset float64

	// Open lots form a FIFO queue: lots[head] is the oldest. Consumed lots
	// advance head instead of reslicing so the backing array can be compacted
	// in bulk.
	lots []domain.Lot
	head int

	history []domain.TradeRecord
	values  []float64
}

// New creates a portfolio with the given initial cash and asset amount.
func New(initialCash, initialAsset float64) *Portfolio {
	return &Portfolio{
		cash:  initialCash,
		asset: initialAsset,
	}
}

// Cash returns the current cash balance.
func (p *Portfolio) Cash() float64 { return p.cash }

// AssetAmount returns the current asset holdings.
func (p *Portfolio) AssetAmount() float64 { return p.asset }

// Value returns cash plus holdings marked at the given price.
func (p *Portfolio) Value(price float64) float64 {
	return p.cash + p.asset*price
}

// CanBuy reports whether current cash covers the total cost of the fills.
func (p *Portfolio) CanBuy(fills []domain.Fill) bool {
	return domain.FillsCost(fills) <= p.cash
}

// CanSell reports whether current holdings cover the total amount of the fills.
func (p *Portfolio) CanSell(fills []domain.Fill) bool {
	return domain.FillsAmount(fills) <= p.asset
}

// ApplyBuy books the fills: each fill becomes a new lot at the back of the
// queue, cash is debited, holdings credited, and a buy record appended.
// Callers must have checked CanBuy first.
func (p *Portfolio) ApplyBuy(fills []domain.Fill) {
	for _, f := range fills {
		lot := domain.Lot{EntryPrice: f.Price, Amount: f.Amount}
		p.lots = append(p.lots, lot)
		p.cash -= f.Amount * f.Price
		p.asset += f.Amount
		p.history = append(p.history, domain.TradeRecord{Action: domain.SideBuy, Lot: lot})
	}
}

// ApplySell books the fills: realized PnL is computed by consuming open lots
// oldest-first, cash is credited, holdings debited, and a sell record
// carrying the fill's PnL appended. Callers must have checked CanSell first;
// a sell that runs past the last open lot returns ErrOversold with the
// remainder left unbooked.
func (p *Portfolio) ApplySell(fills []domain.Fill) error {
	for _, f := range fills {
		pnl, err := p.consume(f.Amount, f.Price)
		if err != nil {
			return err
		}
		p.cash += f.Amount * f.Price
		p.asset -= f.Amount
		p.history = append(p.history, domain.TradeRecord{
			Action:      domain.SideSell,
			Lot:         domain.Lot{EntryPrice: f.Price, Amount: f.Amount},
			RealizedPnL: pnl,
		})
	}
	return nil
}

// consume shrinks open lots front to back by amount and returns the realized
// PnL against sellPrice.
func (p *Portfolio) consume(amount, sellPrice float64) (float64, error) {
	var realized float64

	for amount > epsilon && p.head < len(p.lots) {
		front := &p.lots[p.head]
		take := min(amount, front.Amount)

		realized += (sellPrice - front.EntryPrice) * take
		front.Amount -= take
		amount -= take

		if front.Amount <= epsilon {
			p.head++
		}
	}

	if amount > epsilon {
		// Only reachable when the CanSell gate was bypassed.
		return realized, domain.ErrOversold
	}

	p.compact()
	return realized, nil
}

// compact reclaims the consumed front of the lot queue once it dominates the
// backing array, keeping memory bounded over long runs.
func (p *Portfolio) compact() {
	if p.head > 64 && p.head > len(p.lots)/2 {
		n := copy(p.lots, p.lots[p.head:])
		p.lots = p.lots[:n]
		p.head = 0
	}
}

// MarkValue appends the current portfolio value at the given price to the
// value history. Called once per processed tick by the backtest loop.
func (p *Portfolio) MarkValue(price float64) {
	p.values = append(p.values, p.Value(price))
}

// OpenPositions returns a copy of the open lots, oldest first.
func (p *Portfolio) OpenPositions() []domain.Lot {
	out := make([]domain.Lot, len(p.lots)-p.head)
	copy(out, p.lots[p.head:])
	return out
}

// History returns the trade history. The returned slice is shared and must
// not be modified.
func (p *Portfolio) History() []domain.TradeRecord {
	return p.history
}

// Values returns the per-tick value history. The returned slice is shared and
// must not be modified.
func (p *Portfolio) Values() []float64 {
	return p.values
}
