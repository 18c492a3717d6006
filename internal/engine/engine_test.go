package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

// trendingSeries builds an uptrend with a pullback every third bar, so
// money flow stays in a realistic band instead of pinning at 100.
func trendingSeries(n int, start, step float64) models.Series {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	c := start
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			c -= step
		} else {
			c += step
		}
		s[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c - step/2,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000 + float64(i%5)*20,
		}
	}
	return s
}

var testAsset = models.AssetProfile{
	Symbol: "BTC-USD", Name: "Bitcoin", Category: models.CategoryCrypto, Currency: "$",
}

func TestEvaluateTrendingBuy(t *testing.T) {
	s := trendingSeries(300, 100, 0.5)
	sig, err := Evaluate(testAsset, s, "1h", 7, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sig.Action != models.ActionBuy {
		t.Fatalf("expected BUY on clean uptrend, got %s", sig.Action)
	}
	if sig.CycleSeq != 7 {
		t.Fatalf("cycle sequence not stamped")
	}
	if sig.StopLoss == nil || sig.TakeProfit == nil {
		t.Fatalf("actionable signal must carry risk levels")
	}
	if *sig.StopLoss >= sig.Indicators.Close || *sig.TakeProfit <= sig.Indicators.Close {
		t.Fatalf("BUY levels on wrong side of close: sl=%f tp=%f close=%f",
			*sig.StopLoss, *sig.TakeProfit, sig.Indicators.Close)
	}
	if sig.SupportBlock == nil || sig.ResistanceBlock == nil {
		t.Fatalf("actionable signal must carry order blocks")
	}
	if *sig.SupportBlock >= *sig.ResistanceBlock {
		t.Fatalf("support must sit below resistance")
	}
}

func TestEvaluateInsufficientHistory(t *testing.T) {
	s := trendingSeries(150, 100, 0.5)
	_, err := Evaluate(testAsset, s, "1h", 1, time.Now())
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("expected ErrInsufficientHistory, got %v", err)
	}
}

func TestEvaluateRejectsUnorderedSeries(t *testing.T) {
	s := trendingSeries(300, 100, 0.5)
	s[100].Timestamp = s[99].Timestamp
	if _, err := Evaluate(testAsset, s, "1h", 1, time.Now()); err == nil {
		t.Fatalf("expected ordering violation to reject the series")
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	s := trendingSeries(300, 100, 0.5)
	at := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	a, err := Evaluate(testAsset, s, "1h", 3, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Evaluate(testAsset, s, "1h", 3, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same input must produce identical signals")
	}
}

func TestEvaluateProfileIsolation(t *testing.T) {
	s := trendingSeries(300, 100, 0.5)
	gold := models.AssetProfile{Symbol: "GC=F", Name: "Gold", Category: models.CategoryCommodity}
	silver := models.AssetProfile{Symbol: "SI=F", Name: "Silver", Category: models.CategoryCommodity, HighVolatility: true}

	g, err := Evaluate(gold, s, "1h", 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sv, err := Evaluate(silver, s, "1h", 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Action != models.ActionBuy || sv.Action != models.ActionBuy {
		t.Fatalf("expected BUY on both, got %s/%s", g.Action, sv.Action)
	}

	goldDist := g.Indicators.Close - *g.StopLoss
	silverDist := sv.Indicators.Close - *sv.StopLoss
	// Same series, wider stops on the high-volatility profile (2.5x vs 2.0x).
	if math.Abs(silverDist/goldDist-1.25) > 1e-9 {
		t.Fatalf("expected 1.25x wider silver stop, got ratio %f", silverDist/goldDist)
	}
}

func TestEvaluateWaitCarriesNoLevels(t *testing.T) {
	// Downtrend with MFI forced out of the sell gate by zeroing volume flow
	// is awkward to build; instead use a choppy flat series that fails the
	// supertrend alignment half the time and assert the WAIT contract.
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, 300)
	for i := range s {
		c := 100 + 3*math.Sin(float64(i)/3)
		s[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 2, Low: c - 2, Close: c, Volume: 500,
		}
	}
	sig, err := Evaluate(testAsset, s, "1h", 1, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Action == models.ActionWait {
		if sig.StopLoss != nil || sig.TakeProfit != nil || sig.RiskReward != nil {
			t.Fatalf("WAIT must carry nil risk fields")
		}
		if sig.Strength != 0 {
			t.Fatalf("WAIT must score 0, got %d", sig.Strength)
		}
	}
	// Structural levels are present regardless of verdict.
	if sig.SupportBlock == nil || sig.ResistanceBlock == nil {
		t.Fatalf("order blocks must be present on every signal")
	}
	if *sig.SupportBlock >= *sig.ResistanceBlock {
		t.Fatalf("support must sit below resistance")
	}
}
