// Package sink persists closed-trade records outside the backtest hot
// loop, writing to a single trade_records table over a pooled Postgres
// connection.
package sink

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/ridopark/jonbu-wfo/internal/models"
)

// Config carries the Postgres connection parameters.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime int // seconds
}

// PostgresSink writes TradeRecords to a Postgres table. Once a write fails
// it marks itself disabled and silently no-ops
// on every subsequent call rather than blocking the run on database health.
type PostgresSink struct {
	conn     *sql.DB
	logger   zerolog.Logger
	disabled bool
}

// NewPostgresSink opens a pooled connection and verifies it with a ping.
func NewPostgresSink(cfg Config, logger zerolog.Logger) (*PostgresSink, error) {
	connStr := buildConnectionString(cfg)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", models.ErrPersistence, err)
	}

	conn.SetMaxOpenConns(cfg.MaxConnections)
	conn.SetMaxIdleConns(cfg.MaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("%w: ping: %v", models.ErrPersistence, err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Msg("trade sink connection established")

	return &PostgresSink{conn: conn, logger: logger}, nil
}

// Record inserts one trade record. On the first failure the sink disables
// itself for the remainder of the run and logs once; it never returns a
// second error for the same root cause.
func (s *PostgresSink) Record(record models.TradeRecord) error {
	if s.disabled {
		return nil
	}

	featuresJSON := encodeFeatures(record.Features)

	_, err := s.conn.Exec(
		insertTradeRecordSQL,
		record.ID, record.RunID, record.Symbol, string(record.Timeframe),
		record.StrategyID, record.EntryPrice.String(), record.ExitPrice.String(),
		record.Quantity.String(), string(record.Side), record.NetPnL.String(),
		record.EntryTime, record.ExitTime, record.Regime, record.Agent, featuresJSON,
	)
	if err != nil {
		s.disabled = true
		s.logger.Error().Err(err).Msg("trade sink write failed, disabling sink for remainder of run")
		return fmt.Errorf("%w: %v", models.ErrPersistence, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *PostgresSink) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

const insertTradeRecordSQL = `
INSERT INTO trade_records (
	id, run_id, symbol, timeframe, strategy_id,
	entry_price, exit_price, quantity, side, net_pnl,
	entry_time, exit_time, regime, agent, features
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (id) DO NOTHING`

func encodeFeatures(features map[string]float64) string {
	if len(features) == 0 {
		return "{}"
	}
	buf := "{"
	first := true
	for k, v := range features {
		if !first {
			buf += ","
		}
		first = false
		buf += fmt.Sprintf("%q:%v", k, v)
	}
	return buf + "}"
}

func buildConnectionString(cfg Config) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)
}

// IsConnectionError reports whether err looks like a transient Postgres
// connection failure.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "08000", "08003", "08006", "08001", "08004":
			return true
		}
	}
	return err == context.DeadlineExceeded || err == context.Canceled
}

// NoopSink discards every record. Used during GA fitness evaluation and
// whenever no database is configured.
type NoopSink struct{}

// Record always succeeds without doing anything.
func (NoopSink) Record(models.TradeRecord) error { return nil }
