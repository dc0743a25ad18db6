package metrics

import (
	"math"
	"testing"

	"github.com/alanyoungcy/lobtest/internal/domain"
	"github.com/alanyoungcy/lobtest/internal/portfolio"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// portfolioWithValues builds a portfolio whose value history follows prices,
// holding one unit of asset and no cash.
func portfolioWithValues(prices ...float64) *portfolio.Portfolio {
	pf := portfolio.New(0, 1)
	for _, p := range prices {
		pf.MarkValue(p)
	}
	return pf
}

func TestPnLSumsSellRecords(t *testing.T) {
	pf := portfolio.New(1000, 0)
	pf.ApplyBuy([]domain.Fill{{Amount: 2, Price: 10}})
	if err := pf.ApplySell([]domain.Fill{{Amount: 1, Price: 14}}); err != nil {
		t.Fatalf("ApplySell: %v", err)
	}
	if err := pf.ApplySell([]domain.Fill{{Amount: 1, Price: 8}}); err != nil {
		t.Fatalf("ApplySell: %v", err)
	}

	// (14-10)*1 + (8-10)*1 = 2
	if got := (PnL{}).Compute(pf); !almostEqual(got, 2) {
		t.Fatalf("pnl = %v, want 2", got)
	}
}

func TestPnLIgnoresBuys(t *testing.T) {
	pf := portfolio.New(1000, 0)
	pf.ApplyBuy([]domain.Fill{{Amount: 5, Price: 10}})

	if got := (PnL{}).Compute(pf); got != 0 {
		t.Fatalf("pnl = %v, want 0 with no sells", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"monotonic rise has no drawdown", []float64{100, 110, 120}, 0},
		{"single trough", []float64{100, 120, 90, 110}, 25},
		{"empty history", nil, 0},
		{"deepest of two troughs wins", []float64{100, 80, 100, 50}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pf := portfolioWithValues(tt.values...)
			if got := (MaxDrawdown{}).Compute(pf); !almostEqual(got, tt.want) {
				t.Fatalf("max drawdown = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSharpeRatioEdgeCases(t *testing.T) {
	if got := (SharpeRatio{}).Compute(portfolioWithValues(100)); got != 0 {
		t.Fatalf("sharpe with one point = %v, want 0", got)
	}
	// Flat values: zero volatility.
	if got := (SharpeRatio{}).Compute(portfolioWithValues(100, 100, 100)); got != 0 {
		t.Fatalf("sharpe with flat values = %v, want 0", got)
	}
}

func TestSharpeRatioSign(t *testing.T) {
	up := (SharpeRatio{}).Compute(portfolioWithValues(100, 101, 103, 104))
	if up <= 0 {
		t.Fatalf("sharpe of rising series = %v, want > 0", up)
	}
	down := (SharpeRatio{}).Compute(portfolioWithValues(104, 103, 101, 100))
	if down >= 0 {
		t.Fatalf("sharpe of falling series = %v, want < 0", down)
	}
}

func TestTotalReturn(t *testing.T) {
	pf := portfolioWithValues(100, 120)
	if got := (TotalReturn{Initial: 100}).Compute(pf); !almostEqual(got, 20) {
		t.Fatalf("total return = %v, want 20", got)
	}
	if got := (TotalReturn{Initial: 0}).Compute(pf); got != 0 {
		t.Fatalf("total return with zero initial = %v, want 0", got)
	}
	if got := (TotalReturn{Initial: 100}).Compute(portfolioWithValues()); got != 0 {
		t.Fatalf("total return with empty history = %v, want 0", got)
	}
}

func TestCalculator(t *testing.T) {
	c := NewCalculator()
	pf := portfolioWithValues(100, 110)

	if _, err := c.Compute("pnl", pf); err != nil {
		t.Fatalf("Compute(pnl): %v", err)
	}
	if _, err := c.Compute("nope", pf); err == nil {
		t.Fatal("Compute(nope) should fail")
	}

	c.Register(TotalReturn{Initial: 100})
	all := c.ComputeAll(pf)
	for _, name := range []string{"pnl", "max_drawdown", "sharpe_ratio", "total_return"} {
		if _, ok := all[name]; !ok {
			t.Fatalf("ComputeAll missing %q: %v", name, all)
		}
	}
	if !almostEqual(all["total_return"], 10) {
		t.Fatalf("total_return = %v, want 10", all["total_return"])
	}

	names := c.Names()
	if len(names) != 4 || names[0] != "max_drawdown" {
		t.Fatalf("Names = %v", names)
	}
}
