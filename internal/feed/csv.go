// Package feed loads historical market data: order-book snapshot CSVs and
// trade CSVs, from local files or S3-compatible object storage. Rows with
// non-positive prices or amounts are filtered here so the matching engine can
// trust its input.
package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alanyoungcy/lobtest/internal/domain"
)

// DefaultDepth is the number of book levels read per snapshot row when the
// configuration does not say otherwise. Matches the depth of the exported
// datasets this format comes from.
const DefaultDepth = 25

// progressEvery controls how often the parsers log row-count progress.
const progressEvery = 100_000

// Parser reads LOB snapshot and trade CSVs.
//
// Snapshot rows are laid out as: two leading columns (exchange, symbol) of
// which the second holds the local timestamp, followed by depth repetitions
// of ask_price, ask_amount, bid_price, bid_amount. Trade rows are: skipped
// column, timestamp, side, price, amount. Both files carry a header row.
type Parser struct {
	depth  int
	logger *slog.Logger
}

// NewParser creates a parser reading up to depth levels per snapshot row.
func NewParser(depth int, logger *slog.Logger) *Parser {
	if depth <= 0 {
		depth = DefaultDepth
	}
	return &Parser{
		depth:  depth,
		logger: logger.With(slog.String("component", "feed")),
	}
}

// ParseLOB reads snapshot rows from r. Malformed rows are skipped with a
// debug log rather than failing the whole load; levels with non-positive
// price or amount are dropped.
func (p *Parser) ParseLOB(r io.Reader) ([]domain.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	// Header row.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("feed: read lob header: %w", err)
	}

	var snapshots []domain.Snapshot
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed: read lob line %d: %w", line+2, err)
		}
		line++
		if line%progressEvery == 0 {
			p.logger.Debug("parsing lob rows", slog.Int("rows", line))
		}

		if len(record) < 2 {
			p.logger.Debug("skipping short lob row", slog.Int("line", line))
			continue
		}
		ts, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			p.logger.Debug("skipping lob row with bad timestamp",
				slog.Int("line", line), slog.String("value", record[1]))
			continue
		}

		snap := domain.Snapshot{Timestamp: ts}
		for i := 0; i < p.depth; i++ {
			base := 2 + i*4
			if base+3 >= len(record) {
				break
			}
			askPrice, err1 := strconv.ParseFloat(record[base], 64)
			askAmount, err2 := strconv.ParseFloat(record[base+1], 64)
			bidPrice, err3 := strconv.ParseFloat(record[base+2], 64)
			bidAmount, err4 := strconv.ParseFloat(record[base+3], 64)
			if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
				p.logger.Debug("skipping malformed lob level",
					slog.Int("line", line), slog.Int("level", i))
				break
			}

			if askPrice > 0 && askAmount > 0 {
				snap.Asks = append(snap.Asks, domain.PriceLevel{Price: askPrice, Amount: askAmount})
			}
			if bidPrice > 0 && bidAmount > 0 {
				snap.Bids = append(snap.Bids, domain.PriceLevel{Price: bidPrice, Amount: bidAmount})
			}
		}

		snapshots = append(snapshots, snap)
	}

	p.logger.Info("lob data loaded", slog.Int("snapshots", len(snapshots)))
	return snapshots, nil
}

// ParseTrades reads trade rows from r. Rows with an unknown side or
// unparseable numbers are skipped with a debug log.
func (p *Parser) ParseTrades(r io.Reader) ([]domain.TradeEvent, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("feed: read trades header: %w", err)
	}

	var trades []domain.TradeEvent
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("feed: read trades line %d: %w", line+2, err)
		}
		line++
		if line%progressEvery == 0 {
			p.logger.Debug("parsing trade rows", slog.Int("rows", line))
		}

		if len(record) < 5 {
			p.logger.Debug("skipping short trade row", slog.Int("line", line))
			continue
		}

		ts, err := strconv.ParseInt(record[1], 10, 64)
		if err != nil {
			p.logger.Debug("skipping trade row with bad timestamp",
				slog.Int("line", line), slog.String("value", record[1]))
			continue
		}

		var side domain.Side
		switch strings.ToLower(record[2]) {
		case "buy":
			side = domain.SideBuy
		case "sell":
			side = domain.SideSell
		default:
			p.logger.Debug("skipping trade row with unknown side",
				slog.Int("line", line), slog.String("value", record[2]))
			continue
		}

		price, err := strconv.ParseFloat(record[3], 64)
		if err != nil {
			p.logger.Debug("skipping trade row with bad price",
				slog.Int("line", line), slog.String("value", record[3]))
			continue
		}
		amount, err := strconv.ParseFloat(record[4], 64)
		if err != nil {
			p.logger.Debug("skipping trade row with bad amount",
				slog.Int("line", line), slog.String("value", record[4]))
			continue
		}

		trades = append(trades, domain.TradeEvent{
			Timestamp: ts,
			Side:      side,
			Price:     price,
			Amount:    amount,
		})
	}

	p.logger.Info("trade data loaded", slog.Int("trades", len(trades)))
	return trades, nil
}
