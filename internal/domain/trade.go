package domain

// TradeEvent is one historical trade row from a trades file, consumed by the
// replay strategy to reproduce an observed order flow.
type TradeEvent struct {
	Timestamp int64
	Side      Side
	Price     float64
	Amount    float64
}

// Lot is a slice of previously bought inventory not yet sold. Lots are owned
// exclusively by the portfolio and consumed oldest-first on sale.
type Lot struct {
	EntryPrice float64
	Amount     float64
}

// TradeRecord is an immutable audit entry in the portfolio's trade history.
// RealizedPnL is nonzero only for sell records.
type TradeRecord struct {
	Action      Side
	Lot         Lot
	RealizedPnL float64
}
