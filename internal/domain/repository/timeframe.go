package repository

// Timeframe is the bar interval the engine scans on.
type Timeframe string

const (
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

// IsValidTimeframe returns true if tf is a supported timeframe.
func IsValidTimeframe(tf Timeframe) bool {
	switch tf {
	case TF15m, TF1h, TF4h, TF1d:
		return true
	default:
		return false
	}
}

// DefaultTimeframe returns the default timeframe.
func DefaultTimeframe() Timeframe { return TF1h }

// NormalizeTimeframe converts raw string to a valid timeframe (or default).
func NormalizeTimeframe(s string) Timeframe {
	if s == "" {
		return DefaultTimeframe()
	}
	tf := Timeframe(s)
	if IsValidTimeframe(tf) {
		return tf
	}
	return DefaultTimeframe()
}

// PeriodFor maps a timeframe to the history window requested from the
// provider, sized to comfortably exceed the 200-bar minimum.
func PeriodFor(tf Timeframe) string {
	switch tf {
	case TF15m:
		return "5d"
	case TF1h:
		return "1mo"
	case TF4h:
		return "2mo"
	case TF1d:
		return "1y"
	default:
		return "1mo"
	}
}
