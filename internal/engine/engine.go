// Package engine turns an OHLCV series into a directional signal: indicator
// snapshot, confluence score, and ATR-based risk levels.
package engine

import (
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/indicator"
)

// Evaluate runs the full pipeline for one instrument. Any indicator failure
// rejects the instrument for this cycle rather than degrading the signal.
func Evaluate(asset models.AssetProfile, series models.Series, timeframe string, cycleSeq uint64, at time.Time) (models.Signal, error) {
	if err := series.Validate(); err != nil {
		return models.Signal{}, err
	}

	snap, err := indicator.Snapshot(series)
	if err != nil {
		return models.Signal{}, err
	}

	action, strength, reasons := Score(snap)

	sig := models.Signal{
		Symbol:     asset.Symbol,
		Name:       asset.Name,
		Category:   string(asset.Category),
		Currency:   asset.Currency,
		Timeframe:  timeframe,
		Timestamp:  at,
		CycleSeq:   cycleSeq,
		Action:     action,
		Strength:   strength,
		Band:       models.Band(strength),
		Trend:      models.TrendLabel(snap.ADX),
		ExitHint:   ExitHint(action, snap.MFI),
		Reasons:    reasons,
		Indicators: snap,
	}

	levels := ComputeRisk(action, snap.Close, snap.ATR, asset.Risk())
	sig.StopLoss = levels.StopLoss
	sig.TakeProfit = levels.TakeProfit
	sig.RiskReward = levels.RiskReward

	// Structural levels are informational and travel on every verdict,
	// WAIT included; only the risk levels above are action-gated.
	support, resistance := OrderBlocks(series)
	sig.SupportBlock = &support
	sig.ResistanceBlock = &resistance

	return sig, nil
}
