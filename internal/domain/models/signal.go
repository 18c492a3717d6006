package models

import "time"

// Action is the directional verdict for one instrument in one cycle.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionWait Action = "WAIT"
)

// Strength bands.
const (
	StrengthStrong   = 70
	StrengthModerate = 50
)

// Band labels a strength score.
func Band(strength int) string {
	switch {
	case strength >= StrengthStrong:
		return "STRONG"
	case strength >= StrengthModerate:
		return "MODERATE"
	default:
		return "WEAK"
	}
}

// TrendLabel maps ADX into the conventional trend-strength buckets.
func TrendLabel(adx float64) string {
	switch {
	case adx > 60:
		return "Explosive Trend"
	case adx > 40:
		return "Very Strong Trend"
	case adx > 25:
		return "Strong Trend"
	default:
		return "Weak Trend"
	}
}

// IndicatorSnapshot holds the last-bar value of every indicator the scorer
// consumes, plus price context.
type IndicatorSnapshot struct {
	Close     float64 `json:"close"`
	PrevClose float64 `json:"prev_close"`
	ChangePct float64 `json:"change_pct"`

	EMA20  float64 `json:"ema20"`
	EMA50  float64 `json:"ema50"`
	EMA200 float64 `json:"ema200"`

	RSI float64 `json:"rsi"`
	ADX float64 `json:"adx"`
	ATR float64 `json:"atr"`
	MFI float64 `json:"mfi"`

	// Supertrend direction: +1 bullish, -1 bearish.
	Supertrend int     `json:"supertrend"`
	VWAP       float64 `json:"vwap"`
	ZScore     float64 `json:"zscore"`
	Choppiness float64 `json:"choppiness"`
}

// Signal is the completed evaluation of one instrument for one cycle.
// Risk fields are pointers: a WAIT verdict carries no levels at all.
type Signal struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Currency  string    `json:"currency"`
	Timeframe string    `json:"timeframe"`
	Timestamp time.Time `json:"timestamp"`
	CycleSeq  uint64    `json:"cycle_seq"`

	Action   Action   `json:"action"`
	Strength int      `json:"strength"`
	Band     string   `json:"band"`
	Trend    string   `json:"trend"`
	ExitHint string   `json:"exit_hint,omitempty"`
	Reasons  []string `json:"reasons"`

	StopLoss        *float64 `json:"stop_loss,omitempty"`
	TakeProfit      *float64 `json:"take_profit,omitempty"`
	RiskReward      *float64 `json:"risk_reward,omitempty"`
	SupportBlock    *float64 `json:"support_block,omitempty"`
	ResistanceBlock *float64 `json:"resistance_block,omitempty"`

	Indicators IndicatorSnapshot `json:"indicators"`
}

// Rejection records why an instrument produced no signal this cycle.
type Rejection struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}
