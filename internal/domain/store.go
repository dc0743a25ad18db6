package domain

import (
	"context"
	"time"
)

// BacktestRun is the persisted summary of one backtest execution.
type BacktestRun struct {
	ID          string
	Strategy    string
	LOBPath     string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Ticks       int
	InitialCash float64
	FinalValue  float64
	Success     bool
	HaltReason  string
}

// BacktestTrade is one executed trade of a run, in execution order.
type BacktestTrade struct {
	RunID       string
	Seq         int
	Action      Side
	Price       float64
	Amount      float64
	RealizedPnL float64
}

// RunStore persists backtest runs and their trade logs.
type RunStore interface {
	InsertRun(ctx context.Context, run BacktestRun) error
	FinishRun(ctx context.Context, run BacktestRun) error
	InsertTrades(ctx context.Context, trades []BacktestTrade) error
	GetRun(ctx context.Context, id string) (BacktestRun, error)
	ListRuns(ctx context.Context, strategy string, limit int) ([]BacktestRun, error)
}
