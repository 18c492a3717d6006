package engine

import (
	"math"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
)

func TestRiskWaitHasNoLevels(t *testing.T) {
	levels := ComputeRisk(models.ActionWait, 100, 2, models.DefaultRisk)
	if levels.StopLoss != nil || levels.TakeProfit != nil || levels.RiskReward != nil {
		t.Fatalf("WAIT must carry nil levels, got %+v", levels)
	}
}

func TestRiskBuyLevels(t *testing.T) {
	levels := ComputeRisk(models.ActionBuy, 100, 2, models.DefaultRisk)
	if levels.StopLoss == nil || *levels.StopLoss != 96 {
		t.Fatalf("expected stop 96, got %v", levels.StopLoss)
	}
	if levels.TakeProfit == nil || *levels.TakeProfit != 108 {
		t.Fatalf("expected target 108, got %v", levels.TakeProfit)
	}
	if levels.RiskReward == nil || math.Abs(*levels.RiskReward-2) > 1e-12 {
		t.Fatalf("expected 1:2 risk reward, got %v", levels.RiskReward)
	}
}

func TestRiskSellMirrored(t *testing.T) {
	levels := ComputeRisk(models.ActionSell, 100, 2, models.DefaultRisk)
	if *levels.StopLoss != 104 || *levels.TakeProfit != 92 {
		t.Fatalf("sell levels wrong: sl=%v tp=%v", *levels.StopLoss, *levels.TakeProfit)
	}
	if math.Abs(*levels.RiskReward-2) > 1e-12 {
		t.Fatalf("expected 1:2 on sell, got %v", *levels.RiskReward)
	}
}

func TestRiskHighVolatilityProfile(t *testing.T) {
	levels := ComputeRisk(models.ActionBuy, 100, 2, models.HighVolatilityRisk)
	if *levels.StopLoss != 95 || *levels.TakeProfit != 110 {
		t.Fatalf("high-vol levels wrong: sl=%v tp=%v", *levels.StopLoss, *levels.TakeProfit)
	}
	// Wider levels, same 1:2 ratio.
	if math.Abs(*levels.RiskReward-2) > 1e-12 {
		t.Fatalf("expected preserved 1:2 ratio, got %v", *levels.RiskReward)
	}
}

func TestRiskZeroATRGuardsDivision(t *testing.T) {
	levels := ComputeRisk(models.ActionBuy, 100, 0, models.DefaultRisk)
	if levels.RiskReward != nil {
		t.Fatalf("expected nil risk reward on zero ATR, got %v", *levels.RiskReward)
	}
	if levels.StopLoss == nil || levels.TakeProfit == nil {
		t.Fatalf("stop/target should still be present")
	}
}

func TestOrderBlocks(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, 120)
	for i := range s {
		s[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			High:      200 + float64(i%10),
			Low:       100 - float64(i%10),
			Close:     150,
			Volume:    1,
		}
	}
	// Extremes outside the trailing 50-bar window must not count.
	s[10].Low = 1
	s[10].High = 999

	support, resistance := OrderBlocks(s)
	if support != 91 {
		t.Fatalf("expected support 91, got %f", support)
	}
	if resistance != 209 {
		t.Fatalf("expected resistance 209, got %f", resistance)
	}
}
