// Package strategy defines the contract between the backtest loop and
// trading strategies, plus the predefined strategies shipped with the
// backtester. A strategy sees one book snapshot per tick and may answer with
// at most one order; everything downstream (matching, retry, accounting) is
// the engine's business.
package strategy

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// Strategy is driven by the backtest loop: the loop stores the current
// snapshot first, then asks for an optional order. The bool result reports
// whether an order was produced this tick.
type Strategy interface {
	Name() string
	SetSnapshot(snap domain.Snapshot)
	OnTick() (domain.Order, bool)
}

// Base carries the current snapshot and the order-construction helpers shared
// by all strategies. Embed it and implement Name and OnTick.
type Base struct {
	snap domain.Snapshot
}

// SetSnapshot stores the snapshot for the current tick.
func (b *Base) SetSnapshot(snap domain.Snapshot) {
	b.snap = snap
}

// Snapshot returns the snapshot of the current tick.
func (b *Base) Snapshot() domain.Snapshot { return b.snap }

// BestBid returns the best bid of the current tick, or 0 with no bids.
func (b *Base) BestBid() float64 { return b.snap.BestBid() }

// BestAsk returns the best ask of the current tick, or 0 with no asks.
func (b *Base) BestAsk() float64 { return b.snap.BestAsk() }

// MidPrice returns the mid price of the current tick.
func (b *Base) MidPrice() float64 { return b.snap.MidPrice() }

// BuyOrder builds a market buy order. A non-positive price means "best ask at
// call time"; the recorded price only matters if the caller switches the
// order to a limit kind.
func (b *Base) BuyOrder(amount, price float64) domain.Order {
	if price <= 0 {
		price = b.BestAsk()
	}
	return domain.Order{Side: domain.SideBuy, Kind: domain.KindMarket, Price: price, Amount: amount}
}

// SellOrder builds a market sell order. A non-positive price means "best bid
// at call time".
func (b *Base) SellOrder(amount, price float64) domain.Order {
	if price <= 0 {
		price = b.BestBid()
	}
	return domain.Order{Side: domain.SideSell, Kind: domain.KindMarket, Price: price, Amount: amount}
}
