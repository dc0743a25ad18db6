package engine

// Market orders walk the opposing side level by level, taking
// min(remaining, level.Amount) at each level's published price, with no price
// eligibility filter.
//
// Buys and sells deliberately diverge when total liquidity is insufficient: a
// buy that cannot be fully filled is discarded whole, while a sell keeps the
// partial fills it accumulated. Downstream accounting depends on this
// asymmetry; do not "fix" it here without revisiting the retry semantics in
// the dispatcher.

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// MarketPolicy matches market orders.
type MarketPolicy struct{}

// NewMarketPolicy returns the market-order matching policy.
func NewMarketPolicy() *MarketPolicy { return &MarketPolicy{} }

// MatchBuy walks the asks. If the book cannot cover the full amount the
// attempt is discarded and no fills are returned.
func (p *MarketPolicy) MatchBuy(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	base := len(dst)
	if len(snap.Asks) == 0 {
		return dst
	}

	remaining := order.Amount
	for _, ask := range snap.Asks {
		if remaining <= 0 {
			break
		}
		take := min(remaining, ask.Amount)
		dst = append(dst, domain.Fill{Amount: take, Price: ask.Price})
		remaining -= take
	}

	if remaining > 0 {
		return dst[:base]
	}
	return dst
}

// MatchSell walks the bids. A sell against insufficient liquidity keeps its
// partial fills.
func (p *MarketPolicy) MatchSell(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	if len(snap.Bids) == 0 {
		return dst
	}

	remaining := order.Amount
	for _, bid := range snap.Bids {
		if remaining <= 0 {
			break
		}
		take := min(remaining, bid.Amount)
		dst = append(dst, domain.Fill{Amount: take, Price: bid.Price})
		remaining -= take
	}
	return dst
}
