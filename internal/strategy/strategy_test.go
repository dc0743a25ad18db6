package strategy

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func book(ts int64, bid, ask float64) domain.Snapshot {
	return domain.Snapshot{
		Timestamp: ts,
		Asks:      []domain.PriceLevel{{Price: ask, Amount: 100}},
		Bids:      []domain.PriceLevel{{Price: bid, Amount: 100}},
	}
}

func TestBaseOrderHelpersDefaultToBestPrice(t *testing.T) {
	var b Base
	b.SetSnapshot(book(1, 99, 101))

	buy := b.BuyOrder(2, 0)
	if buy.Side != domain.SideBuy || buy.Kind != domain.KindMarket {
		t.Fatalf("buy = %+v", buy)
	}
	if buy.Price != 101 {
		t.Fatalf("buy price = %v, want best ask 101", buy.Price)
	}

	sell := b.SellOrder(2, 0)
	if sell.Price != 99 {
		t.Fatalf("sell price = %v, want best bid 99", sell.Price)
	}

	// Explicit price wins over the default.
	if got := b.BuyOrder(1, 50).Price; got != 50 {
		t.Fatalf("explicit buy price = %v, want 50", got)
	}
}

func TestReplayEmitsAtTimestamp(t *testing.T) {
	trades := []domain.TradeEvent{
		{Timestamp: 100, Side: domain.SideBuy, Price: 10, Amount: 1},
		{Timestamp: 200, Side: domain.SideSell, Price: 11, Amount: 2},
	}
	r := NewReplay(trades)

	// Before the first trade's timestamp: nothing.
	r.SetSnapshot(book(50, 9, 10))
	if _, ok := r.OnTick(); ok {
		t.Fatal("emitted before timestamp reached")
	}

	// At the timestamp: the first trade, as limit-IOC.
	r.SetSnapshot(book(100, 9, 10))
	order, ok := r.OnTick()
	if !ok {
		t.Fatal("expected order at ts 100")
	}
	if order.Kind != domain.KindLimitIOC || order.Side != domain.SideBuy || order.Price != 10 || order.Amount != 1 {
		t.Fatalf("order = %+v", order)
	}

	// Same tick again: the next trade's timestamp is not reached yet.
	if _, ok := r.OnTick(); ok {
		t.Fatal("emitted second trade before ts 200")
	}

	// Once the tick covers it, the second trade comes out.
	r.SetSnapshot(book(200, 9, 10))
	order, ok = r.OnTick()
	if !ok || order.Side != domain.SideSell || order.Amount != 2 {
		t.Fatalf("order = %+v ok = %v", order, ok)
	}
}

func TestReplayOrdersPastTimestamp(t *testing.T) {
	trades := []domain.TradeEvent{
		{Timestamp: 100, Side: domain.SideSell, Price: 11, Amount: 2},
	}
	r := NewReplay(trades)

	// A tick far past the trade timestamp still emits it.
	r.SetSnapshot(book(500, 9, 10))
	order, ok := r.OnTick()
	if !ok || order.Side != domain.SideSell {
		t.Fatalf("order = %+v ok = %v", order, ok)
	}

	// Sequence exhausted.
	if _, ok := r.OnTick(); ok {
		t.Fatal("emitted past end of trade sequence")
	}
}

func TestPriceTrackerStats(t *testing.T) {
	pt := NewPriceTracker(3)

	if pt.Volatility() != 0 {
		t.Fatal("volatility of empty window should be 0")
	}

	pt.Track(10)
	pt.Track(20)
	if got := pt.Average(); math.Abs(got-15) > 1e-9 {
		t.Fatalf("avg = %v, want 15", got)
	}
	if got := pt.Volatility(); math.Abs(got-5) > 1e-9 {
		t.Fatalf("vol = %v, want 5", got)
	}

	// Rolling over evicts the oldest observation.
	pt.Track(30)
	pt.Track(40)
	if got := pt.Average(); math.Abs(got-30) > 1e-9 {
		t.Fatalf("avg after eviction = %v, want 30", got)
	}
	if pt.Len() != 3 {
		t.Fatalf("len = %d, want 3", pt.Len())
	}
}

func TestMeanReversionBuysBelowBand(t *testing.T) {
	mr := NewMeanReversion(MeanReversionConfig{Window: 4, Threshold: 1.5, Size: 2}, testLogger())

	// Stable prices first so mean and volatility are established.
	for _, mid := range []float64{100, 102, 98, 101} {
		mr.SetSnapshot(book(1, mid-1, mid+1))
		if _, ok := mr.OnTick(); ok {
			t.Fatalf("emitted during warmup at mid %v", mid)
		}
	}

	// A sharp drop far below the trailing mean triggers a buy.
	mr.SetSnapshot(book(2, 79, 81))
	order, ok := mr.OnTick()
	if !ok {
		t.Fatal("expected buy on sharp drop")
	}
	if order.Side != domain.SideBuy || order.Amount != 2 {
		t.Fatalf("order = %+v", order)
	}
}

func TestMeanReversionNeverSellsWithoutInventory(t *testing.T) {
	mr := NewMeanReversion(MeanReversionConfig{Window: 4, Threshold: 1.5, Size: 2}, testLogger())

	for _, mid := range []float64{100, 102, 98, 101} {
		mr.SetSnapshot(book(1, mid-1, mid+1))
		mr.OnTick()
	}

	// A spike above the band with zero position must stay silent.
	mr.SetSnapshot(book(2, 119, 121))
	if order, ok := mr.OnTick(); ok {
		t.Fatalf("sold without inventory: %+v", order)
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.Register("replay", NewReplay(nil))

	if _, err := reg.Get("replay"); err != nil {
		t.Fatalf("Get(replay): %v", err)
	}
	if _, err := reg.Get("missing"); err == nil {
		t.Fatal("Get(missing) should fail")
	}
	if names := reg.List(); len(names) != 1 || names[0] != "replay" {
		t.Fatalf("List = %v", names)
	}
}
