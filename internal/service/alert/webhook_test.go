package alert

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/pkg/logger"
)

func TestNotifyPostsPayload(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	wh := NewWebhook(srv.URL, log)
	sig := models.Signal{
		Symbol:    "BTC-USD",
		Name:      "Bitcoin",
		Currency:  "$",
		Action:    models.ActionBuy,
		Strength:  85,
		Band:      "STRONG",
		Timestamp: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Indicators: models.IndicatorSnapshot{
			Close: 65000,
		},
	}
	if err := wh.Notify(context.Background(), sig); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Symbol != "BTC-USD" || got.Action != "BUY" || got.Strength != 85 {
		t.Fatalf("payload mismatch: %+v", got)
	}
	if got.Price != 65000 {
		t.Fatalf("expected price 65000, got %f", got.Price)
	}
}

func TestNotifyFailureSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	wh := NewWebhook(srv.URL, log)
	if err := wh.Notify(context.Background(), models.Signal{Symbol: "X"}); err == nil {
		t.Fatalf("expected error on 503")
	}
}
