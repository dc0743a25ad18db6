// Package domain holds the shared data types of the backtester: orders,
// fills, book snapshots, portfolio lots, and the store/blob/cache interfaces
// implemented by the infrastructure packages.
package domain

// Side indicates whether an order or trade buys or sells the asset. The zero
// value is deliberately not a valid side: an order that reaches the matching
// engine without a side set is a configuration bug and aborts the run.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether the side is one of the two defined values.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// OrderKind selects the matching policy applied to an order.
type OrderKind string

const (
	// KindMarket executes against all available liquidity regardless of price.
	KindMarket OrderKind = "market"
	// KindLimitFOK fills the full amount at the limit price or better, or not at all.
	KindLimitFOK OrderKind = "limit_fok"
	// KindLimitIOC fills what is immediately available at the limit price or
	// better and drops the remainder.
	KindLimitIOC OrderKind = "limit_ioc"
)

// Order is the intent to trade a given amount, produced by a strategy and
// consumed by the matching engine. Price is the limit price for limit kinds
// and is ignored by market orders.
type Order struct {
	Side   Side
	Kind   OrderKind
	Price  float64
	Amount float64
}

// Fill is one realized (amount, price) slice of an order's execution. A
// matching pass returns zero or more fills whose amounts sum to at most the
// order's requested amount.
type Fill struct {
	Amount float64
	Price  float64
}

// FillsAmount sums the amounts across fills.
func FillsAmount(fills []Fill) float64 {
	var total float64
	for _, f := range fills {
		total += f.Amount
	}
	return total
}

// FillsCost sums amount*price across fills.
func FillsCost(fills []Fill) float64 {
	var total float64
	for _, f := range fills {
		total += f.Amount * f.Price
	}
	return total
}
