package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
)

type fakeInner struct {
	batch map[string]models.Series
	errs  map[string]error
	err   error
}

func (f *fakeInner) FetchBatch(_ context.Context, _ []string, _ domrepo.Timeframe) (map[string]models.Series, map[string]error, error) {
	return f.batch, f.errs, f.err
}

type fakeStore struct {
	stored chan string
	fail   bool
}

func (f *fakeStore) Init(context.Context) error { return nil }
func (f *fakeStore) StoreBatch(_ context.Context, symbol string, _ domrepo.Timeframe, _ models.Series) error {
	if f.fail {
		return errors.New("store down")
	}
	f.stored <- symbol
	return nil
}
func (f *fakeStore) Query(context.Context, string, domrepo.Timeframe, int) (models.Series, error) {
	return nil, nil
}
func (f *fakeStore) Health(context.Context) error { return nil }
func (f *fakeStore) Close() error                 { return nil }

func someSeries(n int) models.Series {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(models.Series, n)
	for i := 0; i < n; i++ {
		c := 100.0 + float64(i)
		s[i] = models.Bar{Timestamp: t0.Add(time.Duration(i) * time.Hour), Open: c, High: c + 1, Low: c - 1, Close: c, Volume: 10}
	}
	return s
}

func TestMirrorWritesFetchedBars(t *testing.T) {
	inner := &fakeInner{batch: map[string]models.Series{"BTC-USD": someSeries(5)}}
	store := &fakeStore{stored: make(chan string, 1)}
	m := NewMirroringMarketData(inner, store, nil)

	batch, _, err := m.FetchBatch(context.Background(), []string{"BTC-USD"}, domrepo.TF1h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(batch) != 1 {
		t.Fatalf("fetch result must pass through, got %d entries", len(batch))
	}

	select {
	case symbol := <-store.stored:
		if symbol != "BTC-USD" {
			t.Fatalf("stored wrong symbol: %s", symbol)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("mirror write never happened")
	}
}

func TestMirrorStoreFailureDoesNotAffectFetch(t *testing.T) {
	inner := &fakeInner{batch: map[string]models.Series{"BTC-USD": someSeries(5)}}
	store := &fakeStore{stored: make(chan string, 1), fail: true}
	m := NewMirroringMarketData(inner, store, nil)

	batch, _, err := m.FetchBatch(context.Background(), []string{"BTC-USD"}, domrepo.TF1h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := batch["BTC-USD"]; !ok {
		t.Fatal("fetch result lost on store failure")
	}
}

func TestMirrorPropagatesOutage(t *testing.T) {
	inner := &fakeInner{err: errors.New("provider down")}
	store := &fakeStore{stored: make(chan string, 1)}
	m := NewMirroringMarketData(inner, store, nil)

	if _, _, err := m.FetchBatch(context.Background(), []string{"BTC-USD"}, domrepo.TF1h); err == nil {
		t.Fatal("expected outage error")
	}
}
