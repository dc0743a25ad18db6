// Package engine implements order matching against historical book snapshots:
// one policy per order kind plus the dispatcher that owns the cross-tick
// pending-order pool.
package engine

import (
	"github.com/alanyoungcy/lobtest/internal/domain"
)

// Policy matches one side of an order against a book snapshot. Fills are
// appended to dst and the extended slice is returned, so the caller can reuse
// one buffer across calls; an unchanged length means no fill. Policies never
// mutate the snapshot and never commit anything — gating against the
// portfolio happens in the dispatcher.
type Policy interface {
	MatchBuy(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill
	MatchSell(order domain.Order, snap domain.Snapshot, dst []domain.Fill) []domain.Fill
}

// match dispatches an order to the buy or sell routine of p. An order without
// a defined side is a programming error, not a data condition.
func match(p Policy, order domain.Order, snap domain.Snapshot, dst []domain.Fill) ([]domain.Fill, error) {
	switch order.Side {
	case domain.SideBuy:
		return p.MatchBuy(order, snap, dst), nil
	case domain.SideSell:
		return p.MatchSell(order, snap, dst), nil
	default:
		return dst, domain.ErrUndefinedSide
	}
}
