package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/pkg/cache"
	"TradePulse/pkg/logger"
)

type fakeProvider struct {
	calls  atomic.Int64
	series map[string]models.Series
	errs   map[string]error
	outage error
}

func (f *fakeProvider) FetchBatch(_ context.Context, _ []string, _ domrepo.Timeframe) (map[string]models.Series, map[string]error, error) {
	f.calls.Add(1)
	if f.outage != nil {
		return nil, nil, f.outage
	}
	return f.series, f.errs, nil
}

type fakeSink struct {
	cycles []uint64
}

func (f *fakeSink) Publish(_ context.Context, c *models.CycleResult) error {
	f.cycles = append(f.cycles, c.Seq)
	return nil
}
func (f *fakeSink) Close() error { return nil }

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Notify(_ context.Context, sig models.Signal) error {
	f.sent = append(f.sent, sig.Symbol)
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordSignal(string, string, int)   {}
func (noopMetrics) RecordRejection(string, string)     {}
func (noopMetrics) RecordCycle(float64, int, int)      {}
func (noopMetrics) RecordFetchLatency(string, float64) {}
func (noopMetrics) RecordLastPrice(string, float64)    {}
func (noopMetrics) RecordError(string)                 {}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// uptrend climbs with a pullback every third bar, keeping money flow inside
// the buy gate.
func uptrend(n int) models.Series {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	c := 100.0
	for i := 0; i < n; i++ {
		if i%3 == 0 {
			c -= 0.5
		} else {
			c += 0.5
		}
		s[i] = models.Bar{
			Timestamp: t0.Add(time.Duration(i) * time.Hour),
			Open:      c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		}
	}
	return s
}

var testCatalog = []models.AssetProfile{
	{Symbol: "BTC-USD", Name: "Bitcoin", Category: models.CategoryCrypto, Currency: "$"},
	{Symbol: "ETH-USD", Name: "Ethereum", Category: models.CategoryCrypto, Currency: "$"},
	{Symbol: "AAPL", Name: "Apple", Category: models.CategoryEquity, Currency: "$"},
}

func newTestScanner(t *testing.T, provider *fakeProvider, opts ...Option) *Scanner {
	t.Helper()
	return NewScanner(provider, noopMetrics{}, cache.NewMemoryCache(), testLogger(t), testCatalog, opts...)
}

func TestScanCompletesAndRejects(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]models.Series{
			"BTC-USD": uptrend(300),
			"ETH-USD": uptrend(100), // too short
		},
		errs: map[string]error{
			"AAPL": errors.New("upstream 500"),
		},
	}
	sink := &fakeSink{}
	s := newTestScanner(t, provider, WithSink(sink))

	cycle, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(cycle.Signals) != 1 || cycle.Signals[0].Symbol != "BTC-USD" {
		t.Fatalf("expected only BTC-USD signal, got %+v", cycle.Signals)
	}
	if len(cycle.Rejected) != 2 {
		t.Fatalf("expected 2 rejections, got %+v", cycle.Rejected)
	}
	for _, r := range cycle.Rejected {
		if _, found := cycle.Find(r.Symbol); found {
			t.Fatalf("rejected symbol %s must not appear in signals", r.Symbol)
		}
	}
	if len(sink.cycles) != 1 || sink.cycles[0] != cycle.Seq {
		t.Fatalf("sink should receive the published cycle once, got %v", sink.cycles)
	}
}

func TestScanWholeBatchOutage(t *testing.T) {
	provider := &fakeProvider{outage: errors.New("provider down")}
	s := newTestScanner(t, provider)

	_, err := s.Scan(context.Background())
	if !errors.Is(err, models.ErrCycleFailed) {
		t.Fatalf("expected ErrCycleFailed, got %v", err)
	}
	if _, err := s.Latest(); !errors.Is(err, models.ErrNoCycle) {
		t.Fatalf("failed cycle must not be published")
	}
}

func TestScanUsesCacheWithinInterval(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"BTC-USD": uptrend(300)}}
	s := newTestScanner(t, provider, WithInterval(time.Minute))

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := provider.calls.Load(); n != 1 {
		t.Fatalf("expected one provider call within TTL, got %d", n)
	}
}

func TestForceRefreshBustsCache(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"BTC-USD": uptrend(300)}}
	s := newTestScanner(t, provider, WithInterval(time.Minute))

	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.ForceRefresh(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := provider.calls.Load(); n != 2 {
		t.Fatalf("force refresh must bypass the cache, got %d calls", n)
	}
}

func TestScanSequenceMonotonic(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"BTC-USD": uptrend(300)}}
	s := newTestScanner(t, provider)

	c1, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c2, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c2.Seq <= c1.Seq {
		t.Fatalf("sequence must increase: %d then %d", c1.Seq, c2.Seq)
	}

	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if latest.Seq != c2.Seq {
		t.Fatalf("latest must be the newest cycle, got seq %d", latest.Seq)
	}
}

func TestStrongSignalAlertDedup(t *testing.T) {
	provider := &fakeProvider{series: map[string]models.Series{"BTC-USD": uptrend(300)}}
	notifier := &fakeNotifier{}
	s := newTestScanner(t, provider, WithNotifier(notifier), WithInterval(0))

	c, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	strong := c.StrongSignals()
	if len(strong) == 0 {
		t.Fatalf("uptrend should yield a strong signal, got %+v", c.Signals)
	}

	// Second cycle inside the same hour: no repeat alert.
	if _, err := s.Scan(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.sent) != len(strong) {
		t.Fatalf("expected %d alerts total, got %d", len(strong), len(notifier.sent))
	}
}

func TestLookup(t *testing.T) {
	s := newTestScanner(t, &fakeProvider{})
	if _, err := s.Lookup("BTC-USD"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Lookup("DOGE-USD"); !errors.Is(err, models.ErrUnknownSymbol) {
		t.Fatalf("expected ErrUnknownSymbol, got %v", err)
	}
}
