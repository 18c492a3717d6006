package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	models "TradePulse/internal/domain/models"
	xlogger "TradePulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestWSHubStreamsCyclesAndCleansUpOnDisconnect(t *testing.T) {
	hub := NewWSHub(testLogger(t))
	e := echo.New()
	hub.RegisterRoutes(e)
	srv := httptest.NewServer(e)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp != nil {
		defer resp.Body.Close()
	}

	waitFor(t, func() bool { return hub.count() == 1 }, "client never registered")

	cycle := &models.CycleResult{Seq: 42, Timeframe: "1h"}
	if err := hub.Publish(context.Background(), cycle); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var got models.CycleResult
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Seq != 42 {
		t.Fatalf("expected cycle 42, got %d", got.Seq)
	}

	// Tear the client down; subsequent publishes hit the dead conn and the
	// hub must drop it fully.
	_ = conn.Close()
	for i := 0; i < 3; i++ {
		_ = hub.Publish(context.Background(), cycle)
		time.Sleep(20 * time.Millisecond)
	}
	waitFor(t, func() bool { return hub.count() == 0 }, "disconnected client never removed")
}
