package models

import "time"

// CycleResult is the consolidated output of one scan cycle across all
// instruments. Only COMPLETE evaluations appear in Signals; rejected
// instruments are listed with their reason and carry no payload.
type CycleResult struct {
	Seq       uint64      `json:"seq"`
	Timeframe string      `json:"timeframe"`
	StartedAt time.Time   `json:"started_at"`
	Duration  string      `json:"duration"`
	Signals   []Signal    `json:"signals"`
	Rejected  []Rejection `json:"rejected,omitempty"`
}

// StrongSignals filters the cycle down to alert-worthy entries.
func (c *CycleResult) StrongSignals() []Signal {
	var out []Signal
	for _, s := range c.Signals {
		if s.Action != ActionWait && s.Strength >= StrengthStrong {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the signal for a symbol, if present in this cycle.
func (c *CycleResult) Find(symbol string) (Signal, bool) {
	for _, s := range c.Signals {
		if s.Symbol == symbol {
			return s, true
		}
	}
	return Signal{}, false
}
