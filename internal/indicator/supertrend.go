package indicator

import (
	"fmt"

	talib "github.com/markcheno/go-talib"

	"TradePulse/internal/domain/models"
)

// SupertrendDirection returns the supertrend direction at the last bar:
// +1 when price rides above the lower band, -1 below the upper band.
//
// Bands are carried forward bar to bar: the final upper band only moves down
// while price stays below it, the final lower band only moves up while price
// stays above it. Direction flips when close crosses the carried band.
func SupertrendDirection(s models.Series, period int, mult float64) (int, error) {
	if len(s) <= period {
		return 0, fmt.Errorf("%w: supertrend needs more than %d bars", models.ErrInsufficientHistory, period)
	}

	highs := s.Highs()
	lows := s.Lows()
	closes := s.Closes()
	atr := talib.Atr(highs, lows, closes, period)

	n := len(s)
	upper := make([]float64, n)
	lower := make([]float64, n)
	dir := make([]int, n)

	for i := period; i < n; i++ {
		hl2 := (highs[i] + lows[i]) / 2
		basicUpper := hl2 + mult*atr[i]
		basicLower := hl2 - mult*atr[i]

		if i == period {
			upper[i] = basicUpper
			lower[i] = basicLower
			dir[i] = 1
			continue
		}

		if basicUpper < upper[i-1] || closes[i-1] > upper[i-1] {
			upper[i] = basicUpper
		} else {
			upper[i] = upper[i-1]
		}

		if basicLower > lower[i-1] || closes[i-1] < lower[i-1] {
			lower[i] = basicLower
		} else {
			lower[i] = lower[i-1]
		}

		switch {
		case dir[i-1] == 1 && closes[i] < lower[i]:
			dir[i] = -1
		case dir[i-1] == -1 && closes[i] > upper[i]:
			dir[i] = 1
		default:
			dir[i] = dir[i-1]
		}
	}

	return dir[n-1], nil
}
