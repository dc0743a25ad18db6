package strategy

import (
	"log/slog"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// MeanReversionConfig configures the mean-reversion strategy.
type MeanReversionConfig struct {
	// Window is the number of recent mid prices used for mean/volatility.
	Window int
	// Threshold is the number of standard deviations away from the mean
	// before an order is emitted.
	Threshold float64
	// Size is the amount per order.
	Size float64
}

// MeanReversion buys when the mid price sits significantly below its trailing
// mean and sells the acquired inventory back once it sits significantly
// above. "Significantly" is measured in multiples of the trailing standard
// deviation.
type MeanReversion struct {
	Base
	cfg      MeanReversionConfig
	tracker  *PriceTracker
	position float64
	logger   *slog.Logger
}

// NewMeanReversion creates a MeanReversion strategy.
func NewMeanReversion(cfg MeanReversionConfig, logger *slog.Logger) *MeanReversion {
	if cfg.Window <= 0 {
		cfg.Window = 50
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = 2.0
	}
	return &MeanReversion{
		cfg:     cfg,
		tracker: NewPriceTracker(cfg.Window),
		logger:  logger.With(slog.String("strategy", "mean_reversion")),
	}
}

// Name returns the strategy identifier.
func (mr *MeanReversion) Name() string { return "mean_reversion" }

// OnTick tracks the current mid price and emits a market order when the
// deviation from the trailing mean exceeds the configured threshold. Sells
// are capped at the inventory this strategy itself acquired.
func (mr *MeanReversion) OnTick() (domain.Order, bool) {
	mid := mr.MidPrice()
	if mid <= 0 {
		return domain.Order{}, false
	}
	mr.tracker.Track(mid)

	avg := mr.tracker.Average()
	vol := mr.tracker.Volatility()
	if vol == 0 || avg == 0 {
		// Not enough data yet.
		return domain.Order{}, false
	}

	deviation := (mid - avg) / vol

	if deviation <= -mr.cfg.Threshold {
		mr.logger.Debug("mean reversion buy",
			slog.Float64("mid", mid),
			slog.Float64("avg", avg),
			slog.Float64("deviation", deviation),
		)
		mr.position += mr.cfg.Size
		return mr.BuyOrder(mr.cfg.Size, 0), true
	}

	if deviation >= mr.cfg.Threshold && mr.position > 0 {
		size := min(mr.cfg.Size, mr.position)
		mr.logger.Debug("mean reversion sell",
			slog.Float64("mid", mid),
			slog.Float64("avg", avg),
			slog.Float64("deviation", deviation),
		)
		mr.position -= size
		return mr.SellOrder(size, 0), true
	}

	return domain.Order{}, false
}
