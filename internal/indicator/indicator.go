// Package indicator computes the technical indicators the confluence scorer
// consumes. Standard studies come from go-talib; supertrend, vwap, z-score
// and choppiness are computed locally.
package indicator

import (
	"fmt"
	"math"

	talib "github.com/markcheno/go-talib"

	"TradePulse/internal/domain/models"
)

// Periods used across the engine.
const (
	EMAFast   = 20
	EMAMid    = 50
	EMASlow   = 200
	RSIPeriod = 14
	ADXPeriod = 14
	ATRPeriod = 14
	MFIPeriod = 14

	SupertrendPeriod = 10
	SupertrendMult   = 3.0

	ZScorePeriod     = 20
	ChoppinessPeriod = 14

	// MinBars is the shortest series the engine will evaluate. EMA200 needs
	// the full window to stabilise.
	MinBars = 200
)

// Snapshot computes every indicator on the series and returns last-bar values.
// A series shorter than MinBars or lacking volume is not evaluable.
func Snapshot(s models.Series) (models.IndicatorSnapshot, error) {
	var snap models.IndicatorSnapshot

	if len(s) < MinBars {
		return snap, fmt.Errorf("%w: have %d bars, need %d", models.ErrInsufficientHistory, len(s), MinBars)
	}
	if !s.HasVolume() {
		return snap, models.ErrMissingVolume
	}

	closes := s.Closes()
	highs := s.Highs()
	lows := s.Lows()
	volumes := s.Volumes()
	n := len(s)

	ema20 := talib.Ema(closes, EMAFast)
	ema50 := talib.Ema(closes, EMAMid)
	ema200 := talib.Ema(closes, EMASlow)
	rsi := talib.Rsi(closes, RSIPeriod)
	adx := talib.Adx(highs, lows, closes, ADXPeriod)
	atr := talib.Atr(highs, lows, closes, ATRPeriod)
	mfi := talib.Mfi(highs, lows, closes, volumes, MFIPeriod)

	st, err := SupertrendDirection(s, SupertrendPeriod, SupertrendMult)
	if err != nil {
		return snap, err
	}

	vwap, err := VWAP(s)
	if err != nil {
		return snap, err
	}

	last := s.Last()
	prev := s[n-2]

	snap = models.IndicatorSnapshot{
		Close:     last.Close,
		PrevClose: prev.Close,

		EMA20:  ema20[n-1],
		EMA50:  ema50[n-1],
		EMA200: ema200[n-1],

		RSI: rsi[n-1],
		ADX: adx[n-1],
		ATR: atr[n-1],
		MFI: mfi[n-1],

		Supertrend: st,
		VWAP:       vwap,
		ZScore:     ZScore(closes, ZScorePeriod),
		Choppiness: Choppiness(s, ChoppinessPeriod),
	}

	if prev.Close != 0 {
		snap.ChangePct = (last.Close - prev.Close) / prev.Close * 100
	}

	for _, v := range []float64{snap.EMA200, snap.RSI, snap.ADX, snap.ATR, snap.MFI} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return models.IndicatorSnapshot{}, fmt.Errorf("%w: indicator produced non-finite value", models.ErrInsufficientHistory)
		}
	}

	return snap, nil
}
