package indicator

import (
	"math"

	"TradePulse/internal/domain/models"
)

// VWAP computes the volume-weighted average price over the whole series.
// A zero-volume series has no VWAP and is reported as an error, never a
// substitute price.
func VWAP(s models.Series) (float64, error) {
	var pv, vol float64
	for _, b := range s {
		typical := (b.High + b.Low + b.Close) / 3
		pv += typical * b.Volume
		vol += b.Volume
	}
	if vol == 0 {
		return 0, models.ErrMissingVolume
	}
	return pv / vol, nil
}

// ZScore measures how many standard deviations the last close sits from the
// rolling mean. Zero when the window is flat.
func ZScore(closes []float64, period int) float64 {
	if len(closes) < period {
		return 0
	}
	window := closes[len(closes)-period:]

	var sum float64
	for _, c := range window {
		sum += c
	}
	mean := sum / float64(period)

	var variance float64
	for _, c := range window {
		d := c - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))
	if std == 0 {
		return 0
	}
	return (closes[len(closes)-1] - mean) / std
}

// Choppiness returns the choppiness index over the trailing period.
// Values near 100 mean sideways churn, near 0 a clean directional move.
func Choppiness(s models.Series, period int) float64 {
	if len(s) < period+1 {
		return 0
	}
	tail := s[len(s)-period:]

	var trSum, hi, lo float64
	hi = math.Inf(-1)
	lo = math.Inf(1)
	for i, b := range tail {
		prevClose := s[len(s)-period+i-1].Close
		tr := math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
		trSum += tr
		hi = math.Max(hi, b.High)
		lo = math.Min(lo, b.Low)
	}

	rng := hi - lo
	if rng <= 0 || trSum <= 0 {
		return 0
	}
	return 100 * math.Log10(trSum/rng) / math.Log10(float64(period))
}
