package engine

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// LimitFOKPolicy matches fill-or-kill limit orders: a dry-run pass first
// confirms the eligible levels hold at least the requested amount, and only
// then are fills emitted. No partial commitment ever occurs.
type LimitFOKPolicy struct{}

// NewLimitFOKPolicy returns the fill-or-kill matching policy.
func NewLimitFOKPolicy() *LimitFOKPolicy { return &LimitFOKPolicy{} }

// MatchBuy fills against asks priced at or below the limit, all or nothing.
func (p *LimitFOKPolicy) MatchBuy(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	if len(snap.Asks) == 0 || order.Price < snap.Asks[0].Price {
		return dst
	}

	var available float64
	for _, ask := range snap.Asks {
		if ask.Price > order.Price {
			break
		}
		available += ask.Amount
		if available >= order.Amount {
			break
		}
	}
	if available < order.Amount {
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

// MatchSell fills against bids priced at or above the limit, all or nothing.
func (p *LimitFOKPolicy) MatchSell(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill {
	if len(snap.Bids) == 0 || order.Price > snap.Bids[0].Price {
		return dst
	}

	var available float64
	for _, bid := range snap.Bids {
		if bid.Price < order.Price {
			break
		}
		available += bid.Amount
		if available >= order.Amount {
			break
		}
	}
	if available < order.Amount {
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
