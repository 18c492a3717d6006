package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientHistory is returned when a series has fewer bars than
	// the longest lookback requires.
	ErrInsufficientHistory = errors.New("insufficient history")

	// ErrMissingVolume is returned when a volume-weighted indicator is
	// requested on a series with no volume data.
	ErrMissingVolume = errors.New("missing volume data")

	// ErrCycleFailed marks a scan cycle that produced no results at all,
	// typically a whole-batch provider outage.
	ErrCycleFailed = errors.New("cycle failed")

	// ErrUnknownSymbol is returned for lookups outside the catalog.
	ErrUnknownSymbol = errors.New("unknown symbol")

	// ErrNoCycle is returned before the first cycle has completed.
	ErrNoCycle = errors.New("no completed cycle yet")
)

// ProviderError wraps a per-symbol upstream failure so one bad instrument
// never sinks the batch.
type ProviderError struct {
	Symbol string
	Err    error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider: %s: %v", e.Symbol, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
