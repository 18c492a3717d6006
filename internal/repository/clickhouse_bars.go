package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	pkgch "TradePulse/pkg/clickhouse"
	applogger "TradePulse/pkg/logger"
)

// CHBarStore persists OHLCV bars in ClickHouse, one table per timeframe.
// It backs the clickhouse market-data provider for deployments that mirror
// history locally instead of hitting the chart API every cycle.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

var _ domrepo.BarStore = (*CHBarStore)(nil)

// Schema returns the idempotent DDL for every timeframe table.
func Schema() []string {
	stmts := []string{"CREATE DATABASE IF NOT EXISTS tradepulse"}
	for _, tf := range []domrepo.Timeframe{domrepo.TF15m, domrepo.TF1h, domrepo.TF4h, domrepo.TF1d} {
		table, _ := tableForTF(tf)
		stmts = append(stmts, fmt.Sprintf(`
            CREATE TABLE IF NOT EXISTS %s (
                ts     DateTime,
                symbol LowCardinality(String),
                open   Float64,
                high   Float64,
                low    Float64,
                close  Float64,
                vol    Float64
            ) ENGINE = ReplacingMergeTree
            ORDER BY (symbol, ts)
        `, table))
	}
	return stmts
}

func (s *CHBarStore) Init(ctx context.Context) error {
	for _, stmt := range Schema() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}

func (s *CHBarStore) StoreBatch(ctx context.Context, symbol string, tf domrepo.Timeframe, bars models.Series) error {
	if len(bars) == 0 {
		return nil
	}
	table, err := tableForTF(tf)
	if err != nil {
		return err
	}

	const chunkSize = 2000
	for start := 0; start < len(bars); start += chunkSize {
		end := start + chunkSize
		if end > len(bars) {
			end = len(bars)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*7)
		for _, b := range bars[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
			args = append(args, b.Timestamp, symbol, b.Open, b.High, b.Low, b.Close, b.Volume)
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, open, high, low, close, vol) VALUES %s", table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse store_batch error",
					applogger.String("table", table),
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return fmt.Errorf("store bars: %w", err)
		}
	}
	return nil
}

func (s *CHBarStore) Query(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) (models.Series, error) {
	start := time.Now()
	table, err := tableForTF(tf)
	if err != nil {
		return nil, err
	}
	const qtpl = `
        SELECT ts, open, high, low, close, vol
        FROM %s
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	tmp := make(models.Series, 0, limit)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	if s.l != nil {
		s.l.Debug("clickhouse query ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(tmp)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return tmp, nil
}

func (s *CHBarStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *CHBarStore) Close() error {
	return nil // Managed by pkg
}

func tableForTF(tf domrepo.Timeframe) (string, error) {
	switch tf {
	case domrepo.TF15m:
		return "tradepulse.bars_15m", nil
	case domrepo.TF1h:
		return "tradepulse.bars_1h", nil
	case domrepo.TF4h:
		return "tradepulse.bars_4h", nil
	case domrepo.TF1d:
		return "tradepulse.bars_1d", nil
	default:
		return "", fmt.Errorf("unsupported timeframe: %s", tf)
	}
}

// CHMarketData adapts the bar store to the MarketData interface. Symbols
// with no rows surface as per-symbol errors, matching the HTTP provider.
type CHMarketData struct {
	store *CHBarStore
	limit int
}

func NewCHMarketData(store *CHBarStore, limit int) *CHMarketData {
	if limit <= 0 {
		limit = 400
	}
	return &CHMarketData{store: store, limit: limit}
}

var _ domrepo.MarketData = (*CHMarketData)(nil)

func (m *CHMarketData) FetchBatch(ctx context.Context, symbols []string, tf domrepo.Timeframe) (map[string]models.Series, map[string]error, error) {
	if err := m.store.Health(ctx); err != nil {
		return nil, nil, fmt.Errorf("clickhouse unreachable: %w", err)
	}

	batch := make(map[string]models.Series, len(symbols))
	errs := make(map[string]error)
	for _, symbol := range symbols {
		series, err := m.store.Query(ctx, symbol, tf, m.limit)
		if err != nil {
			errs[symbol] = &models.ProviderError{Symbol: symbol, Err: err}
			continue
		}
		if len(series) == 0 {
			errs[symbol] = &models.ProviderError{Symbol: symbol, Err: fmt.Errorf("no stored bars")}
			continue
		}
		batch[symbol] = series
	}
	return batch, errs, nil
}
