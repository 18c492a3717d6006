package repository

import (
	"context"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	applogger "TradePulse/pkg/logger"
)

const mirrorTimeout = 30 * time.Second

// MirroringMarketData passes fetches through to the inner provider and
// writes every successful series to the bar store in the background, so a
// local history mirror builds up while the live provider stays the source
// of truth. Store failures never affect the fetch result.
type MirroringMarketData struct {
	inner domrepo.MarketData
	store domrepo.BarStore
	log   *applogger.Logger
}

func NewMirroringMarketData(inner domrepo.MarketData, store domrepo.BarStore, log *applogger.Logger) *MirroringMarketData {
	return &MirroringMarketData{inner: inner, store: store, log: log}
}

var _ domrepo.MarketData = (*MirroringMarketData)(nil)

func (m *MirroringMarketData) FetchBatch(ctx context.Context, symbols []string, tf domrepo.Timeframe) (map[string]models.Series, map[string]error, error) {
	batch, errs, err := m.inner.FetchBatch(ctx, symbols, tf)
	if err != nil {
		return batch, errs, err
	}

	go m.mirror(batch, tf)

	return batch, errs, nil
}

func (m *MirroringMarketData) mirror(batch map[string]models.Series, tf domrepo.Timeframe) {
	ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
	defer cancel()

	for symbol, series := range batch {
		if err := m.store.StoreBatch(ctx, symbol, tf, series); err != nil {
			if m.log != nil {
				m.log.Warn("bar mirror write failed",
					applogger.String("symbol", symbol),
					applogger.Error(err),
				)
			}
			return
		}
	}
}
