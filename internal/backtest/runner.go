// Package backtest drives one pass over a historical snapshot sequence:
// strategy first, then the matching engine, then the portfolio valuation.
package backtest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/lobtest/internal/domain"
	"github.com/alanyoungcy/lobtest/internal/engine"
	"github.com/alanyoungcy/lobtest/internal/portfolio"
	"github.com/alanyoungcy/lobtest/internal/strategy"
)

// Runner owns the backtest state for a single run: the dispatcher, the
// portfolio, the strategy under test, and the snapshot sequence. A Runner is
// single-use; create a new one per run.
type Runner struct {
	dispatcher *engine.Dispatcher
	pf         *portfolio.Portfolio
	strat      strategy.Strategy
	snapshots  []domain.Snapshot

	ticks  int
	logger *slog.Logger
}

// NewRunner creates a runner over the given snapshots. The strategy may be
// nil here, but Run will refuse to start without one attached.
func NewRunner(pf *portfolio.Portfolio, strat strategy.Strategy, snapshots []domain.Snapshot, logger *slog.Logger) *Runner {
	return &Runner{
		dispatcher: engine.NewDispatcher(logger),
		pf:         pf,
		strat:      strat,
		snapshots:  snapshots,
		logger:     logger.With(slog.String("component", "backtest")),
	}
}

// Portfolio returns the portfolio under management, for metrics and reporting
// after the run.
func (r *Runner) Portfolio() *portfolio.Portfolio { return r.pf }

// Ticks returns the number of fully processed ticks.
func (r *Runner) Ticks() int { return r.ticks }

// Pending returns the number of orders still waiting in the pool.
func (r *Runner) Pending() int { return r.dispatcher.Pending() }

// Run replays every snapshot in order. Each tick: present the snapshot to the
// strategy, submit its optional order, attempt all pending orders, then mark
// the portfolio value at mid price. A snapshot with an empty bid or ask side
// halts the run with ErrEmptyBook — a deliberate fail-fast on broken data;
// everything accumulated on prior ticks stays valid. Returns nil after the
// full sequence is processed.
func (r *Runner) Run(ctx context.Context) error {
	if r.strat == nil {
		return domain.ErrNoStrategy
	}

	r.logger.Info("starting backtest",
		slog.String("strategy", r.strat.Name()),
		slog.Int("snapshots", len(r.snapshots)),
	)

	for i, snap := range r.snapshots {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("backtest: tick %d: %w", i, err)
		}

		r.strat.SetSnapshot(snap)
		if order, ok := r.strat.OnTick(); ok {
			r.dispatcher.Submit(order)
		}

		if _, err := r.dispatcher.Tick(snap, r.pf); err != nil {
			return fmt.Errorf("backtest: tick %d: %w", i, err)
		}

		if len(snap.Bids) == 0 || len(snap.Asks) == 0 {
			r.logger.Warn("halting on empty book side",
				slog.Int("tick", i),
				slog.Int64("timestamp", snap.Timestamp),
				slog.Int("bids", len(snap.Bids)),
				slog.Int("asks", len(snap.Asks)),
			)
			return fmt.Errorf("backtest: tick %d: %w", i, domain.ErrEmptyBook)
		}

		r.pf.MarkValue(snap.MidPrice())
		r.ticks++
	}

	r.logger.Info("backtest complete",
		slog.Int("ticks", r.ticks),
		slog.Int("pending_orders", r.dispatcher.Pending()),
		slog.Int("trades", len(r.pf.History())),
	)
	return nil
}
