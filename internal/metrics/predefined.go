package metrics

import (
	"math"

	"github.com/alanyoungcy/lobtest/internal/domain"
	"github.com/alanyoungcy/lobtest/internal/portfolio"
)

// PnL sums the realized profit and loss over all sell records.
type PnL struct{}

// Name returns "pnl".
func (PnL) Name() string { return "pnl" }

// Compute sums RealizedPnL across the sell entries of the trade history.
func (PnL) Compute(pf *portfolio.Portfolio) float64 {
	var realized float64
	for _, rec := range pf.History() {
		if rec.Action == domain.SideSell {
			realized += rec.RealizedPnL
		}
	}
	return realized
}

// MaxDrawdown is the maximum peak-to-trough decline of the value history, as
// a percentage of the peak.
type MaxDrawdown struct{}

// Name returns "max_drawdown".
func (MaxDrawdown) Name() string { return "max_drawdown" }

// Compute walks the value history tracking the running peak.
func (MaxDrawdown) Compute(pf *portfolio.Portfolio) float64 {
	values := pf.Values()
	if len(values) == 0 {
		return 0
	}

	peak := values[0]
	var maxDrawdown float64
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if dd := (peak - v) / peak; dd > maxDrawdown {
			maxDrawdown = dd
		}
	}
	return maxDrawdown * 100
}

// SharpeRatio is the mean tick-over-tick return divided by its standard
// deviation. No annualization is applied; tick spacing is whatever the data
// provides.
type SharpeRatio struct{}

// Name returns "sharpe_ratio".
func (SharpeRatio) Name() string { return "sharpe_ratio" }

// Compute returns 0 with fewer than two value points or near-zero volatility.
func (SharpeRatio) Compute(pf *portfolio.Portfolio) float64 {
	values := pf.Values()
	if len(values) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		returns = append(returns, (values[i]-values[i-1])/values[i-1])
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	stddev := math.Sqrt(variance)

	if stddev < 1e-10 {
		return 0
	}
	return mean / stddev
}

// TotalReturn is the percentage gain or loss of the final portfolio value
// relative to a fixed initial value.
type TotalReturn struct {
	Initial float64
}

// Name returns "total_return".
func (TotalReturn) Name() string { return "total_return" }

// Compute returns the percentage change of the last recorded value versus the
// initial value, or 0 with an empty history.
func (tr TotalReturn) Compute(pf *portfolio.Portfolio) float64 {
	values := pf.Values()
	if len(values) == 0 || tr.Initial == 0 {
		return 0
	}
	final := values[len(values)-1]
	return (final - tr.Initial) / tr.Initial * 100
}
