package domain

import (
	"math"
	"testing"
)

func TestSideValid(t *testing.T) {
	if !SideBuy.Valid() || !SideSell.Valid() {
		t.Fatal("defined sides reported invalid")
	}
	var zero Side
	if zero.Valid() || Side("short").Valid() {
		t.Fatal("undefined side reported valid")
	}
}

func TestFillHelpers(t *testing.T) {
	fills := []Fill{
		{Amount: 2, Price: 10},
		{Amount: 3, Price: 20},
	}
	if got := FillsAmount(fills); got != 5 {
		t.Fatalf("FillsAmount = %v, want 5", got)
	}
	if got := FillsCost(fills); got != 80 {
		t.Fatalf("FillsCost = %v, want 80", got)
	}
	if FillsAmount(nil) != 0 || FillsCost(nil) != 0 {
		t.Fatal("empty fills should sum to 0")
	}
}

func TestSnapshotBestPrices(t *testing.T) {
	s := Snapshot{
		Asks: []PriceLevel{{Price: 101, Amount: 1}, {Price: 102, Amount: 1}},
		Bids: []PriceLevel{{Price: 99, Amount: 1}, {Price: 98, Amount: 1}},
	}
	if s.BestAsk() != 101 || s.BestBid() != 99 {
		t.Fatalf("best ask/bid = %v/%v", s.BestAsk(), s.BestBid())
	}
	if got := s.MidPrice(); math.Abs(got-100) > 1e-9 {
		t.Fatalf("mid = %v, want 100", got)
	}

	var empty Snapshot
	if empty.BestAsk() != 0 || empty.BestBid() != 0 {
		t.Fatal("empty book best prices should be 0")
	}
}
