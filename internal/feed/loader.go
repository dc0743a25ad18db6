package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// Dataset is one fully loaded backtest input: the snapshot sequence plus the
// optional historical trades.
type Dataset struct {
	Snapshots []domain.Snapshot
	Trades    []domain.TradeEvent
}

// Loader resolves data paths and parses them. Paths with an s3:// prefix are
// fetched through the blob reader; everything else is opened from the local
// filesystem.
type Loader struct {
	parser *Parser
	blobs  domain.BlobReader
	logger *slog.Logger
}

// NewLoader creates a loader. blobs may be nil when object storage is not
// configured; s3:// paths then fail with a clear error.
func NewLoader(depth int, blobs domain.BlobReader, logger *slog.Logger) *Loader {
	return &Loader{
		parser: NewParser(depth, logger),
		blobs:  blobs,
		logger: logger.With(slog.String("component", "feed")),
	}
}

// Load reads the snapshot file and, when tradesPath is non-empty, the trade
// file. The two files are fetched and parsed concurrently.
func (l *Loader) Load(ctx context.Context, lobPath, tradesPath string) (*Dataset, error) {
	ds := &Dataset{}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rc, err := l.open(ctx, lobPath)
		if err != nil {
			return err
		}
		defer rc.Close()

		ds.Snapshots, err = l.parser.ParseLOB(rc)
		return err
	})

	if tradesPath != "" {
		g.Go(func() error {
			rc, err := l.open(ctx, tradesPath)
			if err != nil {
				return err
			}
			defer rc.Close()

			ds.Trades, err = l.parser.ParseTrades(rc)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}

func (l *Loader) open(ctx context.Context, path string) (io.ReadCloser, error) {
	if key, ok := strings.CutPrefix(path, "s3://"); ok {
		if l.blobs == nil {
			return nil, fmt.Errorf("feed: open %s: object storage not configured", path)
		}
		rc, err := l.blobs.Get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("feed: open %s: %w", path, err)
		}
		return rc, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("feed: open %s: %w", path, err)
	}
	return f, nil
}
