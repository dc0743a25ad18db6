package domain

// PriceLevel is a single price+amount entry on one side of the book.
type PriceLevel struct {
	Price  float64
	Amount float64
}

// Snapshot is an immutable per-tick view of the limit order book. Asks are
// ordered ascending by price and bids descending; the ordering of the source
// data is trusted and never re-sorted here.
type Snapshot struct {
	Timestamp int64
	Asks      []PriceLevel
	Bids      []PriceLevel
}

// BestBid returns the highest bid price, or 0 when the bid side is empty.
func (s Snapshot) BestBid() float64 {
	if len(s.Bids) == 0 {
		return 0
	}
	return s.Bids[0].Price
}

// BestAsk returns the lowest ask price, or 0 when the ask side is empty.
func (s Snapshot) BestAsk() float64 {
	if len(s.Asks) == 0 {
		return 0
	}
	return s.Asks[0].Price
}

// MidPrice returns the average of the best bid and best ask. It is only
// meaningful when both sides are non-empty.
func (s Snapshot) MidPrice() float64 {
	return (s.BestBid() + s.BestAsk()) / 2
}
