package s3blob

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// Archiver uploads the artifacts of a finished run to object storage, keyed
// by run ID:
//
//	runs/<run-id>/values.csv
//	runs/<run-id>/trades.csv
//	runs/<run-id>/metrics.json
//
// Uploads are best-effort from the caller's point of view: the run results
// already live in the primary store before archival starts.
type Archiver struct {
	writer domain.BlobWriter
}

// NewArchiver creates an Archiver backed by the given blob writer.
func NewArchiver(writer domain.BlobWriter) *Archiver {
	return &Archiver{writer: writer}
}

// ArchiveValues uploads the per-tick portfolio value series as CSV.
func (a *Archiver) ArchiveValues(ctx context.Context, runID string, values []float64) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"tick", "value"}); err != nil {
		return fmt.Errorf("s3blob: archive values encode: %w", err)
	}
	for i, v := range values {
		row := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(v, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("s3blob: archive values encode: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("s3blob: archive values encode: %w", err)
	}

	path := artifactPath(runID, "values.csv")
	if err := a.writer.Put(ctx, path, &buf, "text/csv"); err != nil {
		return fmt.Errorf("s3blob: archive values upload: %w", err)
	}
	return nil
}

// ArchiveTrades uploads the executed trade log as CSV.
func (a *Archiver) ArchiveTrades(ctx context.Context, runID string, history []domain.TradeRecord) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"seq", "action", "price", "amount", "realized_pnl"}); err != nil {
		return fmt.Errorf("s3blob: archive trades encode: %w", err)
	}
	for i, rec := range history {
		row := []string{
			strconv.Itoa(i),
			string(rec.Action),
			strconv.FormatFloat(rec.Lot.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(rec.Lot.Amount, 'f', -1, 64),
			strconv.FormatFloat(rec.RealizedPnL, 'f', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("s3blob: archive trades encode: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("s3blob: archive trades encode: %w", err)
	}

	path := artifactPath(runID, "trades.csv")
	if err := a.writer.Put(ctx, path, &buf, "text/csv"); err != nil {
		return fmt.Errorf("s3blob: archive trades upload: %w", err)
	}
	return nil
}

// ArchiveMetrics uploads the computed metric figures as a JSON document.
func (a *Archiver) ArchiveMetrics(ctx context.Context, runID string, metrics map[string]float64) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metrics); err != nil {
		return fmt.Errorf("s3blob: archive metrics marshal: %w", err)
	}

	path := artifactPath(runID, "metrics.json")
	if err := a.writer.Put(ctx, path, &buf, "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive metrics upload: %w", err)
	}
	return nil
}

// artifactPath builds the object key for one artifact of a run.
func artifactPath(runID, name string) string {
	return fmt.Sprintf("runs/%s/%s", runID, name)
}
