package engine

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// LimitIOCPolicy matches immediate-or-cancel limit orders: take whatever the
// eligible levels hold, up to the requested amount. The unfilled remainder is
// dropped by the policy; whether the order is retried on a later tick is the
// dispatcher's decision.
type LimitIOCPolicy struct{}

// NewLimitIOCPolicy returns the immediate-or-cancel matching policy.
func NewLimitIOCPolicy() *LimitIOCPolicy { return &LimitIOCPolicy{} }

// MatchBuy fills against asks priced at or below the limit.
func (p *LimitIOCPolicy) MatchBuy(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	if len(snap.Asks) == 0 || order.Price < snap.Asks[0].Price {
		return dst
	}

	remaining := order.Amount
	for _, ask := range snap.Asks {
		if ask.Price > order.Price || remaining <= 0 {
			break
		}
		take := min(remaining, ask.Amount)
		dst = append(dst, domain.Fill{Amount: take, Price: ask.Price})
		remaining -= take
	}
	return dst
}

// MatchSell fills against bids priced at or above the limit.
func (p *LimitIOCPolicy) MatchSell(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	if len(snap.Bids) == 0 || order.Price > snap.Bids[0].Price {
		return dst
	}

	remaining := order.Amount
	for _, bid := range snap.Bids {
		if bid.Price < order.Price || remaining <= 0 {
			break
		}
		take := min(remaining, bid.Amount)
		dst = append(dst, domain.Fill{Amount: take, Price: bid.Price})
		remaining -= take
	}
	return dst
}
