package engine

import "TradePulse/internal/domain/models"

// Confirmation weights. Points are additive and capped at 100.
const (
	ptsEMAStack    = 25
	ptsMFIHealthy  = 20
	ptsMFIBuilding = 10
	ptsADXTrending = 20
	ptsADXSurging  = 10
	ptsVWAPSide    = 15
	ptsMomentum    = 10

	maxStrength = 100
)

const exitHintText = "overbought/oversold, consider partial close"

// Score applies the trend gate and, when it passes, sums the weighted
// confirmations. WAIT always scores zero.
func Score(snap models.IndicatorSnapshot) (models.Action, int, []string) {
	switch {
	case snap.Close > snap.EMA200 && snap.Supertrend == 1 && snap.MFI < 80:
		strength, reasons := scoreBuy(snap)
		return models.ActionBuy, strength, reasons
	case snap.Close < snap.EMA200 && snap.Supertrend == -1 && snap.MFI > 20:
		strength, reasons := scoreSell(snap)
		return models.ActionSell, strength, reasons
	default:
		return models.ActionWait, 0, nil
	}
}

func scoreBuy(snap models.IndicatorSnapshot) (int, []string) {
	var strength int
	var reasons []string

	if snap.EMA20 > snap.EMA50 && snap.EMA50 > snap.EMA200 {
		strength += ptsEMAStack
		reasons = append(reasons, "EMA stack aligned bullish")
	}
	// Band bounds are strict: exactly 50 or 70 earns nothing.
	switch {
	case snap.MFI > 50 && snap.MFI < 70:
		strength += ptsMFIHealthy
		reasons = append(reasons, "money flow healthy")
	case snap.MFI > 40 && snap.MFI < 50:
		strength += ptsMFIBuilding
		reasons = append(reasons, "money flow building")
	}
	strength += scoreADX(snap.ADX, &reasons)
	if snap.Close > snap.VWAP {
		strength += ptsVWAPSide
		reasons = append(reasons, "price above VWAP")
	}
	if snap.ChangePct > 0 {
		strength += ptsMomentum
		reasons = append(reasons, "last bar momentum up")
	}

	return cap100(strength), reasons
}

func scoreSell(snap models.IndicatorSnapshot) (int, []string) {
	var strength int
	var reasons []string

	if snap.EMA20 < snap.EMA50 && snap.EMA50 < snap.EMA200 {
		strength += ptsEMAStack
		reasons = append(reasons, "EMA stack aligned bearish")
	}
	// Sell-side money flow bands sit lower and are intentionally asymmetric
	// to the buy side: distribution shows up as MFI draining through 30-50.
	switch {
	case snap.MFI > 30 && snap.MFI < 50:
		strength += ptsMFIHealthy
		reasons = append(reasons, "money flow draining")
	case snap.MFI > 50 && snap.MFI < 60:
		strength += ptsMFIBuilding
		reasons = append(reasons, "money flow weakening")
	}
	strength += scoreADX(snap.ADX, &reasons)
	if snap.Close < snap.VWAP {
		strength += ptsVWAPSide
		reasons = append(reasons, "price below VWAP")
	}
	if snap.ChangePct < 0 {
		strength += ptsMomentum
		reasons = append(reasons, "last bar momentum down")
	}

	return cap100(strength), reasons
}

func scoreADX(adx float64, reasons *[]string) int {
	var pts int
	if adx > 25 {
		pts += ptsADXTrending
		*reasons = append(*reasons, "ADX trending")
	}
	if adx > 40 {
		pts += ptsADXSurging
		*reasons = append(*reasons, "ADX surging")
	}
	return pts
}

// ExitHint returns the advisory annotation for stretched conditions. It never
// changes the action.
func ExitHint(action models.Action, mfi float64) string {
	if (action == models.ActionBuy && mfi > 80) || (action == models.ActionSell && mfi < 20) {
		return exitHintText
	}
	return ""
}

func cap100(v int) int {
	if v > maxStrength {
		return maxStrength
	}
	return v
}
