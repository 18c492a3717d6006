package models

import (
	"fmt"
	"time"
)

// Bar represents a single OHLCV record for one instrument and timeframe.
// Bars are immutable once produced by the data provider.
type Bar struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Series is an ordered sequence of bars for one (instrument, timeframe) pair.
// Invariant: strictly increasing timestamps.
type Series []Bar

// Validate checks the ordering invariant.
func (s Series) Validate() error {
	for i := 1; i < len(s); i++ {
		if !s[i].Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("series not strictly ascending at index %d (%s >= %s)",
				i, s[i-1].Timestamp.Format(time.RFC3339), s[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Last returns the most recent bar. Callers must check Len first.
func (s Series) Last() Bar { return s[len(s)-1] }

// Closes extracts the close column.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column.
func (s Series) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}
	return out
}

// HasVolume reports whether any bar carries non-zero volume. Volume-weighted
// indicators (MFI, VWAP) are meaningless on zero-filled volume columns.
func (s Series) HasVolume() bool {
	for _, b := range s {
		if b.Volume > 0 {
			return true
		}
	}
	return false
}

// Tail returns the trailing n bars (or the whole series if shorter).
func (s Series) Tail(n int) Series {
	if n >= len(s) {
		return s
	}
	return s[len(s)-n:]
}
