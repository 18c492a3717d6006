package engine

import "TradePulse/internal/domain/models"

// rrEpsilon guards the risk/reward division when ATR collapses to ~0.
const rrEpsilon = 1e-9

// orderBlockWindow is the trailing window scanned for support/resistance.
const orderBlockWindow = 50

// RiskLevels carries computed stop/target/ratio. Nil fields mean "not
// applicable", never zero.
type RiskLevels struct {
	StopLoss   *float64
	TakeProfit *float64
	RiskReward *float64
}

// ComputeRisk derives ATR-based levels for an actionable signal. WAIT gets
// no levels at all.
func ComputeRisk(action models.Action, close, atr float64, profile models.RiskProfile) RiskLevels {
	if action == models.ActionWait {
		return RiskLevels{}
	}

	var sl, tp float64
	switch action {
	case models.ActionBuy:
		sl = close - atr*profile.StopMult
		tp = close + atr*profile.TargetMult
	case models.ActionSell:
		sl = close + atr*profile.StopMult
		tp = close - atr*profile.TargetMult
	}

	levels := RiskLevels{StopLoss: &sl, TakeProfit: &tp}

	risk := close - sl
	reward := tp - close
	if action == models.ActionSell {
		risk = sl - close
		reward = close - tp
	}
	if risk > rrEpsilon {
		rr := reward / risk
		levels.RiskReward = &rr
	}

	return levels
}

// OrderBlocks returns the trailing support (lowest low) and resistance
// (highest high) over the last orderBlockWindow bars.
func OrderBlocks(s models.Series) (support, resistance float64) {
	tail := s.Tail(orderBlockWindow)
	support = tail[0].Low
	resistance = tail[0].High
	for _, b := range tail[1:] {
		if b.Low < support {
			support = b.Low
		}
		if b.High > resistance {
			resistance = b.High
		}
	}
	return support, resistance
}
