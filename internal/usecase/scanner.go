package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"TradePulse/internal/domain/models"
	domrepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/engine"
	localcache "TradePulse/internal/service/cache"
	"TradePulse/pkg/cache"
	"TradePulse/pkg/logger"
	"TradePulse/pkg/util"
)

// alertDedupTTL keeps one strong-signal alert per instrument per hour.
const alertDedupTTL = time.Hour

// Scanner orchestrates scan cycles: one batched fetch per cycle, parallel
// per-instrument evaluation, and publication of the newest completed cycle.
type Scanner struct {
	provider domrepo.MarketData
	sink     domrepo.SignalSink
	notifier domrepo.Notifier
	metrics  domrepo.Metrics
	series   *localcache.TTLCache
	dedup    cache.Service
	log      *logger.Logger

	catalog  []models.AssetProfile
	index    map[string]models.AssetProfile
	tf       domrepo.Timeframe
	interval time.Duration

	seq atomic.Uint64

	mu     sync.RWMutex
	latest *models.CycleResult
}

// Option configures Scanner.
type Option func(*Scanner)

// WithSink sets the cycle sink.
func WithSink(s domrepo.SignalSink) Option {
	return func(sc *Scanner) { sc.sink = s }
}

// WithNotifier sets the strong-signal notifier.
func WithNotifier(n domrepo.Notifier) Option {
	return func(sc *Scanner) { sc.notifier = n }
}

// WithInterval sets the cycle interval, which also bounds the series cache TTL.
func WithInterval(d time.Duration) Option {
	return func(sc *Scanner) { sc.interval = d }
}

// WithTimeframe sets the scan timeframe.
func WithTimeframe(tf domrepo.Timeframe) Option {
	return func(sc *Scanner) { sc.tf = tf }
}

func NewScanner(
	provider domrepo.MarketData,
	metrics domrepo.Metrics,
	dedup cache.Service,
	log *logger.Logger,
	catalog []models.AssetProfile,
	opts ...Option,
) *Scanner {
	s := &Scanner{
		provider: provider,
		metrics:  metrics,
		series:   localcache.NewTTLCache(),
		dedup:    dedup,
		log:      log,
		catalog:  catalog,
		index:    models.CatalogIndex(catalog),
		tf:       domrepo.DefaultTimeframe(),
		interval: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Interval returns the cycle interval the scan loop should tick at.
func (s *Scanner) Interval() time.Duration { return s.interval }

// Catalog returns the configured instrument set.
func (s *Scanner) Catalog() []models.AssetProfile { return s.catalog }

// Scan runs one full cycle and publishes it if it is still the newest.
func (s *Scanner) Scan(ctx context.Context) (*models.CycleResult, error) {
	seq := s.seq.Add(1)
	started := time.Now()

	batch, perSymbol, err := s.fetchBatch(ctx)
	if err != nil {
		s.metrics.RecordError("cycle_failed")
		return nil, fmt.Errorf("%w: %v", models.ErrCycleFailed, err)
	}

	cycle := s.evaluate(seq, started, batch, perSymbol)
	cycle.Duration = time.Since(started).Round(time.Millisecond).String()

	if !s.publish(cycle) {
		// A newer cycle finished while this one ran; drop it silently.
		s.log.Debug("stale cycle discarded", logger.Uint64("seq", seq))
		return cycle, nil
	}

	s.metrics.RecordCycle(time.Since(started).Seconds(), len(cycle.Signals), len(cycle.Rejected))

	if s.sink != nil {
		if err := s.sink.Publish(ctx, cycle); err != nil {
			s.metrics.RecordError("sink_publish")
			s.log.Error("cycle publish failed", logger.Error(err), logger.Uint64("seq", seq))
		}
	}
	s.alertStrong(ctx, cycle)

	s.log.Info("cycle complete",
		logger.Uint64("seq", seq),
		logger.Int("signals", len(cycle.Signals)),
		logger.Int("rejected", len(cycle.Rejected)),
		logger.Duration("took", time.Since(started)))

	return cycle, nil
}

// Latest returns the newest published cycle.
func (s *Scanner) Latest() (*models.CycleResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, models.ErrNoCycle
	}
	return s.latest, nil
}

// ForceRefresh drops cached series and runs an immediate cycle.
func (s *Scanner) ForceRefresh(ctx context.Context) (*models.CycleResult, error) {
	s.series.Set(s.batchKey(), nil, -time.Second)
	return s.Scan(ctx)
}

// Lookup resolves a catalog symbol.
func (s *Scanner) Lookup(symbol string) (models.AssetProfile, error) {
	asset, ok := s.index[symbol]
	if !ok {
		return models.AssetProfile{}, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
	}
	return asset, nil
}

func (s *Scanner) batchKey() string {
	return cache.GenerateKey("series", string(s.tf))
}

type fetchResult struct {
	series map[string]models.Series
	errs   map[string]error
}

// fetchBatch serves from the TTL cache when the previous fetch is still
// fresh, otherwise hits the provider once for the whole catalog.
func (s *Scanner) fetchBatch(ctx context.Context) (map[string]models.Series, map[string]error, error) {
	if v, ok := s.series.Get(s.batchKey()); ok {
		if cached, ok := v.(fetchResult); ok {
			return cached.series, cached.errs, nil
		}
	}

	symbols := make([]string, len(s.catalog))
	for i, a := range s.catalog {
		symbols[i] = a.Symbol
	}

	fetchStart := time.Now()
	batch, perSymbol, err := s.provider.FetchBatch(ctx, symbols, s.tf)
	s.metrics.RecordFetchLatency("batch", time.Since(fetchStart).Seconds())
	if err != nil {
		return nil, nil, err
	}

	s.series.Set(s.batchKey(), fetchResult{series: batch, errs: perSymbol}, s.interval)
	return batch, perSymbol, nil
}

// evaluate fans the batch out across goroutines. Each instrument works on its
// own series slice, so no shared mutable state crosses goroutines.
func (s *Scanner) evaluate(seq uint64, at time.Time, batch map[string]models.Series, perSymbol map[string]error) *models.CycleResult {
	type outcome struct {
		symbol string
		signal models.Signal
		err    error
	}

	results := make(chan outcome, len(s.catalog))
	var wg sync.WaitGroup

	for _, asset := range s.catalog {
		if err, bad := perSymbol[asset.Symbol]; bad {
			results <- outcome{symbol: asset.Symbol, err: err}
			continue
		}
		series, ok := batch[asset.Symbol]
		if !ok {
			results <- outcome{symbol: asset.Symbol, err: &models.ProviderError{Symbol: asset.Symbol, Err: fmt.Errorf("no data returned")}}
			continue
		}

		wg.Add(1)
		go func(asset models.AssetProfile, series models.Series) {
			defer wg.Done()
			sig, err := engine.Evaluate(asset, series, string(s.tf), seq, at)
			results <- outcome{symbol: asset.Symbol, signal: sig, err: err}
		}(asset, series)
	}

	wg.Wait()
	close(results)

	cycle := &models.CycleResult{Seq: seq, Timeframe: string(s.tf), StartedAt: at}
	for out := range results {
		if out.err != nil {
			cycle.Rejected = append(cycle.Rejected, models.Rejection{Symbol: out.symbol, Reason: out.err.Error()})
			s.metrics.RecordRejection(out.symbol, rejectionKind(out.err))
			continue
		}
		cycle.Signals = append(cycle.Signals, out.signal)
		s.metrics.RecordSignal(out.signal.Symbol, string(out.signal.Action), out.signal.Strength)
		s.metrics.RecordLastPrice(out.signal.Symbol, out.signal.Indicators.Close)
	}

	return cycle
}

// rejectionKind buckets rejection causes so the metric label stays bounded.
func rejectionKind(err error) string {
	var pe *models.ProviderError
	switch {
	case errors.Is(err, models.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, models.ErrMissingVolume):
		return "missing_volume"
	case errors.As(err, &pe):
		return "provider"
	default:
		return "other"
	}
}

// publish installs the cycle as latest unless a newer one already landed.
func (s *Scanner) publish(cycle *models.CycleResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest != nil && s.latest.Seq >= cycle.Seq {
		return false
	}
	s.latest = cycle
	return true
}

// alertStrong notifies on strong signals, at most once per instrument per
// hour. The dedup lock key buckets by wall-clock hour.
func (s *Scanner) alertStrong(ctx context.Context, cycle *models.CycleResult) {
	if s.notifier == nil {
		return
	}
	for _, sig := range cycle.StrongSignals() {
		key := cache.GenerateKeyWithParams("alert", sig.Symbol, util.HourBucket(sig.Timestamp))
		ok, err := s.dedup.TryLock(ctx, key, alertDedupTTL)
		if err != nil {
			s.log.Warn("alert dedup unavailable", logger.Error(err))
			continue
		}
		if !ok {
			continue
		}
		if err := s.notifier.Notify(ctx, sig); err != nil {
			s.metrics.RecordError("notify")
			s.log.Error("alert delivery failed", logger.Error(err), logger.String("symbol", sig.Symbol))
		}
	}
}
