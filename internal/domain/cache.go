package domain

import (
	"context"
	"time"
)

// RunSummary is the latest-run result cached per strategy for dashboards.
type RunSummary struct {
	RunID      string
	Strategy   string
	FinishedAt time.Time
	Success    bool
	Metrics    map[string]float64
}

// RunCache stores the most recent run summary per strategy.
type RunCache interface {
	SetLatest(ctx context.Context, summary RunSummary) error
	GetLatest(ctx context.Context, strategy string) (RunSummary, error)
}
