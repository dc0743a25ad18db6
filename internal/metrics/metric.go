// Package metrics computes performance figures over a finished (or halted)
// backtest run. All metrics are pure read-only functions of portfolio state.
package metrics

import (
	"github.com/alanyoungcy/lobtest/internal/portfolio"
)

// Metric computes one named figure from a portfolio.
type Metric interface {
	Name() string
	Compute(pf *portfolio.Portfolio) float64
}
