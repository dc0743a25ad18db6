package portfolio

import (
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestApplyBuyBooksLots(t *testing.T) {
	pf := New(1000, 0)

	pf.ApplyBuy([]domain.Fill{
		{Amount: 3, Price: 10},
		{Amount: 5, Price: 12},
	})

	if !almostEqual(pf.Cash(), 1000-30-60) {
		t.Fatalf("cash = %v, want 910", pf.Cash())
	}
	if !almostEqual(pf.AssetAmount(), 8) {
		t.Fatalf("asset = %v, want 8", pf.AssetAmount())
	}

	lots := pf.OpenPositions()
	if len(lots) != 2 {
		t.Fatalf("open lots = %d, want 2", len(lots))
	}
	if lots[0].EntryPrice != 10 || lots[1].EntryPrice != 12 {
		t.Fatalf("lots out of FIFO order: %v", lots)
	}
}

func TestApplySellFIFOPnL(t *testing.T) {
	pf := New(1000, 0)
	pf.ApplyBuy([]domain.Fill{
		{Amount: 3, Price: 10},
		{Amount: 5, Price: 12},
	})

	// Selling 8 at 11: (11-10)*3 + (11-12)*5 = 3 - 5 = -2.
	if err := pf.ApplySell([]domain.Fill{{Amount: 8, Price: 11}}); err != nil {
		t.Fatalf("ApplySell: %v", err)
	}

	history := pf.History()
	last := history[len(history)-1]
	if last.Action != domain.SideSell {
		t.Fatalf("last record action = %v", last.Action)
	}
	if !almostEqual(last.RealizedPnL, -2) {
		t.Fatalf("realized pnl = %v, want -2", last.RealizedPnL)
	}
	if !almostEqual(pf.AssetAmount(), 0) {
		t.Fatalf("asset = %v, want 0", pf.AssetAmount())
	}
	if len(pf.OpenPositions()) != 0 {
		t.Fatalf("open lots = %v, want none", pf.OpenPositions())
	}
}

func TestApplySellPartialLot(t *testing.T) {
	pf := New(1000, 0)
	pf.ApplyBuy([]domain.Fill{{Amount: 5, Price: 10}})

	if err := pf.ApplySell([]domain.Fill{{Amount: 2, Price: 14}}); err != nil {
		t.Fatalf("ApplySell: %v", err)
	}

	lots := pf.OpenPositions()
	if len(lots) != 1 || !almostEqual(lots[0].Amount, 3) {
		t.Fatalf("open lots = %v, want one lot of 3", lots)
	}

	last := pf.History()[len(pf.History())-1]
	if !almostEqual(last.RealizedPnL, 8) {
		t.Fatalf("realized pnl = %v, want 8", last.RealizedPnL)
	}
}

func TestApplySellOversold(t *testing.T) {
	pf := New(1000, 0)
	pf.ApplyBuy([]domain.Fill{{Amount: 1, Price: 10}})

	// Bypasses the CanSell gate on purpose.
	err := pf.ApplySell([]domain.Fill{{Amount: 5, Price: 11}})
	if !errors.Is(err, domain.ErrOversold) {
		t.Fatalf("err = %v, want ErrOversold", err)
	}
}

func TestCanBuyCanSell(t *testing.T) {
	pf := New(100, 2)

	if !pf.CanBuy([]domain.Fill{{Amount: 1, Price: 100}}) {
		t.Fatal("CanBuy rejected affordable fill")
	}
	if pf.CanBuy([]domain.Fill{{Amount: 2, Price: 100}}) {
		t.Fatal("CanBuy accepted unaffordable fill")
	}
	if !pf.CanSell([]domain.Fill{{Amount: 2, Price: 1}}) {
		t.Fatal("CanSell rejected covered fill")
	}
	if pf.CanSell([]domain.Fill{{Amount: 3, Price: 1}}) {
		t.Fatal("CanSell accepted uncovered fill")
	}
}

func TestMarkValue(t *testing.T) {
	pf := New(100, 2)
	pf.MarkValue(10)
	pf.MarkValue(20)

	values := pf.Values()
	if len(values) != 2 || !almostEqual(values[0], 120) || !almostEqual(values[1], 140) {
		t.Fatalf("values = %v, want [120 140]", values)
	}
}

func TestLotCompaction(t *testing.T) {
	pf := New(1e9, 0)

	// Many tiny round trips drive head far enough to trigger compaction.
	for i := 0; i < 200; i++ {
		pf.ApplyBuy([]domain.Fill{{Amount: 1, Price: 10}})
		if err := pf.ApplySell([]domain.Fill{{Amount: 1, Price: 10}}); err != nil {
			t.Fatalf("round trip %d: %v", i, err)
		}
	}

	if n := len(pf.OpenPositions()); n != 0 {
		t.Fatalf("open lots = %d, want 0", n)
	}
	if !almostEqual(pf.Cash(), 1e9) {
		t.Fatalf("cash drifted to %v over flat round trips", pf.Cash())
	}
}

func TestAccountingInvariants(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		pf := New(10_000, 0)
		var spent, received float64

		n := rapid.IntRange(1, 40).Draw(t, "ops")
		for i := 0; i < n; i++ {
			price := rapid.Float64Range(1, 100).Draw(t, "price")
			amount := rapid.Float64Range(0.01, 10).Draw(t, "amount")

			if rapid.Bool().Draw(t, "isBuy") {
				fills := []domain.Fill{{Amount: amount, Price: price}}
				if pf.CanBuy(fills) {
					pf.ApplyBuy(fills)
					spent += amount * price
				}
			} else {
				fills := []domain.Fill{{Amount: amount, Price: price}}
				if pf.CanSell(fills) {
					if err := pf.ApplySell(fills); err != nil {
						t.Fatalf("gated sell failed: %v", err)
					}
					received += amount * price
				}
			}
		}

		if pf.AssetAmount() < -1e-9 {
			t.Fatalf("asset went negative: %v", pf.AssetAmount())
		}
		if pf.Cash() < -1e-6 {
			t.Fatalf("cash went negative: %v", pf.Cash())
		}
		wantCash := 10_000 - spent + received
		if math.Abs(pf.Cash()-wantCash) > 1e-6 {
			t.Fatalf("cash = %v, want %v", pf.Cash(), wantCash)
		}

		var open float64
		for _, lot := range pf.OpenPositions() {
			open += lot.Amount
		}
		if math.Abs(open-pf.AssetAmount()) > 1e-6 {
			t.Fatalf("open lots sum %v != asset %v", open, pf.AssetAmount())
		}
	})
}
