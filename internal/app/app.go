// Package app provides the top-level lifecycle for the backtester. It wires
// the data loader, the optional persistence backends, and the strategy
// registry, runs one backtest, and fans the results out to the configured
// sinks.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alanyoungcy/lobtest/internal/backtest"
	"github.com/alanyoungcy/lobtest/internal/config"
	"github.com/alanyoungcy/lobtest/internal/domain"
	"github.com/alanyoungcy/lobtest/internal/feed"
	"github.com/alanyoungcy/lobtest/internal/metrics"
	"github.com/alanyoungcy/lobtest/internal/portfolio"
	"github.com/alanyoungcy/lobtest/internal/strategy"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates an App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point: wire dependencies, load the dataset, run the
// backtest, compute metrics, and persist the results. A halted run (empty
// book, cancellation) still persists everything accumulated before the halt;
// the halt error is returned after the results are flushed.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting backtester",
		slog.String("strategy", a.cfg.Strategy.Name),
		slog.String("lob_path", a.cfg.Data.LOBPath),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	ds, err := deps.Loader.Load(ctx, a.cfg.Data.LOBPath, a.cfg.Data.TradesPath)
	if err != nil {
		return fmt.Errorf("app: load dataset: %w", err)
	}

	strat, err := a.buildStrategy(ds)
	if err != nil {
		return fmt.Errorf("app: build strategy: %w", err)
	}

	pf := portfolio.New(a.cfg.Backtest.InitialCash, a.cfg.Backtest.InitialAsset)
	runner := backtest.NewRunner(pf, strat, ds.Snapshots, a.logger)

	run := domain.BacktestRun{
		ID:          uuid.NewString(),
		Strategy:    strat.Name(),
		LOBPath:     a.cfg.Data.LOBPath,
		StartedAt:   time.Now().UTC(),
		InitialCash: a.cfg.Backtest.InitialCash,
	}
	if deps.RunStore != nil {
		if err := deps.RunStore.InsertRun(ctx, run); err != nil {
			return fmt.Errorf("app: record run start: %w", err)
		}
	}

	runErr := runner.Run(ctx)
	if runErr != nil {
		a.logger.Warn("backtest halted", slog.String("error", runErr.Error()))
	}

	initialValue := a.cfg.Backtest.InitialCash
	if len(ds.Snapshots) > 0 {
		initialValue += a.cfg.Backtest.InitialAsset * ds.Snapshots[0].MidPrice()
	}

	calc := metrics.NewCalculator()
	calc.Register(metrics.TotalReturn{Initial: initialValue})
	results := calc.ComputeAll(pf)

	for _, name := range calc.Names() {
		a.logger.Info("metric", slog.String("name", name), slog.Float64("value", results[name]))
	}

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	run.Ticks = runner.Ticks()
	run.Success = runErr == nil
	if runErr != nil {
		run.HaltReason = runErr.Error()
	}
	if values := pf.Values(); len(values) > 0 {
		run.FinalValue = values[len(values)-1]
	}

	// Flush results even for a halted run; the error is reported afterwards.
	if err := a.persist(ctx, deps, run, pf, results); err != nil {
		return errors.Join(runErr, err)
	}

	a.logger.Info("run complete",
		slog.String("run_id", run.ID),
		slog.Int("ticks", run.Ticks),
		slog.Int("pending_orders", runner.Pending()),
		slog.Float64("final_value", run.FinalValue),
		slog.Bool("success", run.Success),
	)
	return runErr
}

// buildStrategy registers the shipped strategies and selects the configured
// one. Registration happens here so strategies can capture run inputs such as
// the historical trades.
func (a *App) buildStrategy(ds *feed.Dataset) (strategy.Strategy, error) {
	reg := strategy.NewRegistry()
	reg.Register("replay", strategy.NewReplay(ds.Trades))
	reg.Register("mean_reversion", strategy.NewMeanReversion(strategy.MeanReversionConfig{
		Window:    a.cfg.Strategy.MeanReversion.Window,
		Threshold: a.cfg.Strategy.MeanReversion.Threshold,
		Size:      a.cfg.Strategy.Size,
	}, a.logger))

	strat, err := reg.Get(a.cfg.Strategy.Name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %v)", err, reg.List())
	}
	return strat, nil
}

// persist writes the finished run to every configured sink. Store writes are
// mandatory when a store is configured; cache and archive failures are
// logged and do not fail the run.
func (a *App) persist(ctx context.Context, deps *Dependencies, run domain.BacktestRun, pf *portfolio.Portfolio, results map[string]float64) error {
	if deps.RunStore != nil {
		if err := deps.RunStore.FinishRun(ctx, run); err != nil {
			return fmt.Errorf("app: record run finish: %w", err)
		}

		history := pf.History()
		trades := make([]domain.BacktestTrade, 0, len(history))
		for i, rec := range history {
			trades = append(trades, domain.BacktestTrade{
				RunID:       run.ID,
				Seq:         i,
				Action:      rec.Action,
				Price:       rec.Lot.EntryPrice,
				Amount:      rec.Lot.Amount,
				RealizedPnL: rec.RealizedPnL,
			})
		}
		if err := deps.RunStore.InsertTrades(ctx, trades); err != nil {
			return fmt.Errorf("app: record trades: %w", err)
		}
	}

	if deps.RunCache != nil {
		summary := domain.RunSummary{
			RunID:    run.ID,
			Strategy: run.Strategy,
			Success:  run.Success,
			Metrics:  results,
		}
		if run.FinishedAt != nil {
			summary.FinishedAt = *run.FinishedAt
		}
		if err := deps.RunCache.SetLatest(ctx, summary); err != nil {
			a.logger.Warn("cache latest run", slog.String("error", err.Error()))
		}
	}

	if deps.Archiver != nil {
		if err := deps.Archiver.ArchiveValues(ctx, run.ID, pf.Values()); err != nil {
			a.logger.Warn("archive values", slog.String("error", err.Error()))
		}
		if err := deps.Archiver.ArchiveTrades(ctx, run.ID, pf.History()); err != nil {
			a.logger.Warn("archive trades", slog.String("error", err.Error()))
		}
		if err := deps.Archiver.ArchiveMetrics(ctx, run.ID, results); err != nil {
			a.logger.Warn("archive metrics", slog.String("error", err.Error()))
		}
	}

	return nil
}

// Close tears down all resources in reverse registration order. Safe to call
// multiple times.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
