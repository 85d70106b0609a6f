// Package loader reads historical OHLCV candles from a line-oriented CSV
// archive dump. Parsing is the only collaborator this system owns for
// candle ingestion; exchange archive downloads themselves are out of
// scope.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/shopspring/decimal"
)

// minFields is the number of required leading columns: open_time_ms, open,
// high, low, close, volume. Extra trailing columns (close_time_ms,
// quote_volume, n_trades, taker_buy_base, taker_buy_quote, ignore) are
// tolerated but ignored.
const minFields = 6

// LoadCandles reads path as a headerless CSV of OHLCV rows and constructs a
// Candle per line, tagged with tf and complete=true. Returns
// models.ErrDataMissing if the file is absent or contains no data rows,
// wrapping a *models.ConstructionError (via models.ErrConstruction) with
// the offending 1-indexed line number on an invariant violation.
func LoadCandles(path string, tf models.Timeframe) ([]models.Candle, error) {
	if !tf.Valid() {
		return nil, fmt.Errorf("unsupported timeframe %q", tf)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDataMissing, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // tolerate a variable trailing column count

	candles := make([]models.Candle, 0)
	lineNo := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		lineNo++

		candle, err := parseRow(record, tf)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		candles = append(candles, candle)
	}

	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", models.ErrDataMissing, path)
	}

	return candles, nil
}

func parseRow(record []string, tf models.Timeframe) (models.Candle, error) {
	if len(record) < minFields {
		return models.Candle{}, fmt.Errorf("expected at least %d fields, got %d", minFields, len(record))
	}

	timestampMs, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return models.Candle{}, fmt.Errorf("open_time_ms: %w", err)
	}

	open, err := decimal.NewFromString(record[1])
	if err != nil {
		return models.Candle{}, fmt.Errorf("open: %w", err)
	}
	high, err := decimal.NewFromString(record[2])
	if err != nil {
		return models.Candle{}, fmt.Errorf("high: %w", err)
	}
	low, err := decimal.NewFromString(record[3])
	if err != nil {
		return models.Candle{}, fmt.Errorf("low: %w", err)
	}
	closeP, err := decimal.NewFromString(record[4])
	if err != nil {
		return models.Candle{}, fmt.Errorf("close: %w", err)
	}
	volume, err := decimal.NewFromString(record[5])
	if err != nil {
		return models.Candle{}, fmt.Errorf("volume: %w", err)
	}

	return models.NewCandle(timestampMs, open, high, low, closeP, volume, tf, true)
}

// WriteCandles re-emits candles in the same six-column layout LoadCandles
// reads, for round-trip testing and export tooling. No trailing columns
// are written.
func WriteCandles(w io.Writer, candles []models.Candle) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	for _, c := range candles {
		record := []string{
			strconv.FormatInt(c.TimestampMs, 10),
			c.Open.String(),
			c.High.String(),
			c.Low.String(),
			c.Close.String(),
			c.Volume.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	return writer.Error()
}
