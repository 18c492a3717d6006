package engine

import (
	"math/rand"
	"testing"

	"TradePulse/internal/domain/models"
)

func TestGateCorrectness(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []int{1, -1}

	for i := 0; i < 5000; i++ {
		snap := models.IndicatorSnapshot{
			Close:      50 + rng.Float64()*100,
			EMA200:     50 + rng.Float64()*100,
			EMA50:      50 + rng.Float64()*100,
			EMA20:      50 + rng.Float64()*100,
			MFI:        rng.Float64() * 100,
			ADX:        rng.Float64() * 80,
			VWAP:       50 + rng.Float64()*100,
			ChangePct:  rng.Float64()*4 - 2,
			Supertrend: dirs[rng.Intn(2)],
		}

		action, strength, _ := Score(snap)

		switch action {
		case models.ActionBuy:
			if !(snap.Close > snap.EMA200 && snap.Supertrend == 1 && snap.MFI < 80) {
				t.Fatalf("BUY emitted without gate: %+v", snap)
			}
		case models.ActionSell:
			if !(snap.Close < snap.EMA200 && snap.Supertrend == -1 && snap.MFI > 20) {
				t.Fatalf("SELL emitted without gate: %+v", snap)
			}
		case models.ActionWait:
			if strength != 0 {
				t.Fatalf("WAIT must score 0, got %d", strength)
			}
		}

		if strength < 0 || strength > 100 {
			t.Fatalf("strength out of range: %d", strength)
		}
	}
}

func TestTrendingBuyScenario(t *testing.T) {
	snap := models.IndicatorSnapshot{
		Close:      110,
		EMA200:     100,
		EMA50:      104,
		EMA20:      107,
		MFI:        60,
		ADX:        30,
		VWAP:       105,
		ChangePct:  0.8,
		Supertrend: 1,
	}

	action, strength, reasons := Score(snap)
	if action != models.ActionBuy {
		t.Fatalf("expected BUY, got %s", action)
	}
	// 25 stack + 20 mfi + 20 adx + 15 vwap + 10 momentum
	if strength != 90 {
		t.Fatalf("expected strength 90, got %d", strength)
	}
	if models.Band(strength) != "STRONG" {
		t.Fatalf("expected STRONG band, got %s", models.Band(strength))
	}
	if len(reasons) != 5 {
		t.Fatalf("expected 5 reasons, got %v", reasons)
	}
}

func TestSellMoneyFlowBands(t *testing.T) {
	base := models.IndicatorSnapshot{
		Close:      90,
		EMA200:     100,
		EMA50:      96,
		EMA20:      93,
		ADX:        10,
		VWAP:       80, // close above vwap, no points
		ChangePct:  0.1,
		Supertrend: -1,
	}

	cases := []struct {
		mfi  float64
		want int
	}{
		{40, 25 + 20}, // draining band
		{55, 25 + 10}, // weakening band
		{70, 25},      // no money-flow points
	}
	for _, tc := range cases {
		snap := base
		snap.MFI = tc.mfi
		action, strength, _ := Score(snap)
		if action != models.ActionSell {
			t.Fatalf("mfi=%f: expected SELL, got %s", tc.mfi, action)
		}
		if strength != tc.want {
			t.Fatalf("mfi=%f: expected strength %d, got %d", tc.mfi, tc.want, strength)
		}
	}
}

func TestMoneyFlowBandBoundsAreStrict(t *testing.T) {
	buy := models.IndicatorSnapshot{
		Close: 110, EMA200: 100, EMA50: 104, EMA20: 107,
		ADX: 10, VWAP: 120, ChangePct: -0.1, Supertrend: 1,
	}
	// Only the EMA stack scores; mfi sitting exactly on a band edge earns nothing.
	for _, mfi := range []float64{40, 50, 70} {
		snap := buy
		snap.MFI = mfi
		if _, strength, _ := Score(snap); strength != 25 {
			t.Fatalf("buy mfi=%v: band edge must score no money-flow points, got %d", mfi, strength)
		}
	}

	sell := models.IndicatorSnapshot{
		Close: 90, EMA200: 100, EMA50: 96, EMA20: 93,
		ADX: 10, VWAP: 80, ChangePct: 0.1, Supertrend: -1,
	}
	for _, mfi := range []float64{30, 50, 60} {
		snap := sell
		snap.MFI = mfi
		if _, strength, _ := Score(snap); strength != 25 {
			t.Fatalf("sell mfi=%v: band edge must score no money-flow points, got %d", mfi, strength)
		}
	}
}

func TestStrengthCap(t *testing.T) {
	snap := models.IndicatorSnapshot{
		Close:      120,
		EMA200:     100,
		EMA50:      105,
		EMA20:      110,
		MFI:        60,
		ADX:        50,
		VWAP:       100,
		ChangePct:  1.5,
		Supertrend: 1,
	}
	_, strength, _ := Score(snap)
	// 25+20+20+10+15+10 = 100, right at the cap.
	if strength != 100 {
		t.Fatalf("expected capped strength 100, got %d", strength)
	}
}

func TestExitHint(t *testing.T) {
	if hint := ExitHint(models.ActionBuy, 85); hint == "" {
		t.Fatalf("expected exit hint for overbought BUY")
	}
	if hint := ExitHint(models.ActionSell, 15); hint == "" {
		t.Fatalf("expected exit hint for oversold SELL")
	}
	if hint := ExitHint(models.ActionBuy, 60); hint != "" {
		t.Fatalf("unexpected hint: %s", hint)
	}
	if hint := ExitHint(models.ActionWait, 95); hint != "" {
		t.Fatalf("WAIT must never carry a hint")
	}
}

func TestTrendLabels(t *testing.T) {
	cases := []struct {
		adx  float64
		want string
	}{
		{10, "Weak Trend"},
		{30, "Strong Trend"},
		{50, "Very Strong Trend"},
		{70, "Explosive Trend"},
	}
	for _, tc := range cases {
		if got := models.TrendLabel(tc.adx); got != tc.want {
			t.Fatalf("adx=%f: got %q want %q", tc.adx, got, tc.want)
		}
	}
}
