package repository

import (
	"context"

	"TradePulse/internal/domain/models"
)

// MarketData fetches OHLCV history for a batch of instruments. Per-symbol
// failures are reported in the error map; only a total outage returns err.
type MarketData interface {
	FetchBatch(ctx context.Context, symbols []string, tf Timeframe) (map[string]models.Series, map[string]error, error)
}

// SignalSink receives every published cycle. Implementations must tolerate
// being handed the same cycle sequence at most once.
type SignalSink interface {
	Publish(ctx context.Context, cycle *models.CycleResult) error
	Close() error
}

// Notifier delivers strong-signal alerts. De-duplication is the caller's
// concern; Notify fires unconditionally.
type Notifier interface {
	Notify(ctx context.Context, sig models.Signal) error
}

// BarStore persists and reads back OHLCV candles, used by the ClickHouse
// market-data implementation.
type BarStore interface {
	Init(ctx context.Context) error
	StoreBatch(ctx context.Context, symbol string, tf Timeframe, bars models.Series) error
	Query(ctx context.Context, symbol string, tf Timeframe, limit int) (models.Series, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records engine observability counters.
type Metrics interface {
	RecordSignal(symbol string, action string, strength int)
	RecordRejection(symbol, reason string)
	RecordCycle(seconds float64, signals, rejected int)
	RecordFetchLatency(provider string, seconds float64)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
}
