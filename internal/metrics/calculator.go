package metrics

import (
	"fmt"
	"sort"

	"github.com/alanyoungcy/lobtest/internal/portfolio"
)

// Calculator holds a named set of metrics and evaluates them against a
// portfolio.
type Calculator struct {
	metrics map[string]Metric
}

// NewCalculator returns a calculator preloaded with the default metrics: pnl,
// max_drawdown, and sharpe_ratio. total_return needs the run's initial value
// and is registered by the caller.
func NewCalculator() *Calculator {
	c := &Calculator{metrics: make(map[string]Metric)}
	c.Register(PnL{})
	c.Register(MaxDrawdown{})
	c.Register(SharpeRatio{})
	return c
}

// Register adds a metric under its own name, replacing any previous metric
// with the same name.
func (c *Calculator) Register(m Metric) {
	c.metrics[m.Name()] = m
}

// Compute evaluates a single metric by name.
func (c *Calculator) Compute(name string, pf *portfolio.Portfolio) (float64, error) {
	m, ok := c.metrics[name]
	if !ok {
		return 0, fmt.Errorf("metrics: %q: not registered", name)
	}
	return m.Compute(pf), nil
}

// ComputeAll evaluates every registered metric.
func (c *Calculator) ComputeAll(pf *portfolio.Portfolio) map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for name, m := range c.metrics {
		out[name] = m.Compute(pf)
	}
	return out
}

// Names returns the registered metric names in sorted order.
func (c *Calculator) Names() []string {
	names := make([]string, 0, len(c.metrics))
	for n := range c.metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
