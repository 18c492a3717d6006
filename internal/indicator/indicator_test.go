package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func syntheticSeries(n int, start, step float64) models.Series {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := 0; i < n; i++ {
		c := start + step*float64(i)
		s[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c - step/2,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i%7)*50,
		}
	}
	return s
}

func TestSnapshotRejectsShortSeries(t *testing.T) {
	s := syntheticSeries(MinBars-1, 100, 0.5)
	_, err := Snapshot(s)
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestSnapshotRejectsMissingVolume(t *testing.T) {
	s := syntheticSeries(MinBars+50, 100, 0.5)
	for i := range s {
		s[i].Volume = 0
	}
	_, err := Snapshot(s)
	if !errors.Is(err, models.ErrMissingVolume) {
		t.Fatalf("expected ErrMissingVolume, got %v", err)
	}
}

func TestSnapshotUptrend(t *testing.T) {
	s := syntheticSeries(MinBars+100, 100, 0.5)
	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if snap.Close != s.Last().Close {
		t.Fatalf("close mismatch: got %f want %f", snap.Close, s.Last().Close)
	}
	// A monotone uptrend stacks the EMAs fast > mid > slow.
	if !(snap.EMA20 > snap.EMA50 && snap.EMA50 > snap.EMA200) {
		t.Fatalf("expected ema20 > ema50 > ema200, got %f %f %f", snap.EMA20, snap.EMA50, snap.EMA200)
	}
	if snap.Close <= snap.EMA200 {
		t.Fatalf("expected close above ema200 in uptrend")
	}
	if snap.Supertrend != 1 {
		t.Fatalf("expected supertrend +1 in uptrend, got %d", snap.Supertrend)
	}
	if snap.ZScore <= 0 {
		t.Fatalf("expected positive z-score in uptrend, got %f", snap.ZScore)
	}
	if snap.ChangePct <= 0 {
		t.Fatalf("expected positive last-bar change, got %f", snap.ChangePct)
	}
}

func TestSnapshotDowntrend(t *testing.T) {
	s := syntheticSeries(MinBars+100, 500, -0.5)
	snap, err := Snapshot(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !(snap.EMA20 < snap.EMA50 && snap.EMA50 < snap.EMA200) {
		t.Fatalf("expected ema20 < ema50 < ema200, got %f %f %f", snap.EMA20, snap.EMA50, snap.EMA200)
	}
	if snap.Supertrend != -1 {
		t.Fatalf("expected supertrend -1 in downtrend, got %d", snap.Supertrend)
	}
	if snap.ZScore >= 0 {
		t.Fatalf("expected negative z-score in downtrend, got %f", snap.ZScore)
	}
}

func TestVWAPZeroVolumeIsAnError(t *testing.T) {
	s := syntheticSeries(10, 100, 1)
	for i := range s {
		s[i].Volume = 0
	}
	if _, err := VWAP(s); !errors.Is(err, models.ErrMissingVolume) {
		t.Fatalf("expected ErrMissingVolume, got %v", err)
	}
}

func TestVWAPSitsInsidePriceRange(t *testing.T) {
	s := syntheticSeries(50, 100, 1)
	v, err := VWAP(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lo, hi := s[0].Low, s.Last().High
	if v < lo || v > hi {
		t.Fatalf("vwap %f outside traded range [%f, %f]", v, lo, hi)
	}
}

func TestZScoreFlatWindowIsZero(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 250
	}
	if z := ZScore(closes, 20); z != 0 {
		t.Fatalf("expected 0 z-score on flat window, got %f", z)
	}
}

func TestChoppinessBounds(t *testing.T) {
	trend := syntheticSeries(60, 100, 2)
	chop := Choppiness(trend, ChoppinessPeriod)
	if math.IsNaN(chop) || chop < 0 || chop > 100 {
		t.Fatalf("choppiness out of range: %f", chop)
	}

	// Alternating closes churn inside a narrow range.
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	side := make(models.Series, 60)
	for i := range side {
		c := 100.0
		if i%2 == 0 {
			c = 101
		}
		side[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c, Volume: 100,
		}
	}
	sideChop := Choppiness(side, ChoppinessPeriod)
	if sideChop <= chop {
		t.Fatalf("sideways market should be choppier: trend=%f sideways=%f", chop, sideChop)
	}
}

func TestSupertrendFlipsOnReversal(t *testing.T) {
	up := syntheticSeries(120, 100, 1)
	// Crash the last 30 bars hard enough to cross the carried band.
	for i := 90; i < 120; i++ {
		c := up[89].Close - 5*float64(i-89)
		up[i].Open = c + 2
		up[i].High = c + 3
		up[i].Low = c - 3
		up[i].Close = c
	}
	dir, err := SupertrendDirection(up, SupertrendPeriod, SupertrendMult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != -1 {
		t.Fatalf("expected direction flip to -1 after crash, got %d", dir)
	}
}
