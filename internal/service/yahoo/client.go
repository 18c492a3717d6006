// Package yahoo implements the MarketData provider against the public
// finance chart API.
package yahoo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"TradePulse/internal/domain/models"
	drepo "TradePulse/internal/domain/repository"
	"TradePulse/internal/service/ratelimit"
	xhttp "TradePulse/pkg/http"
	"TradePulse/pkg/logger"
)

const (
	defaultBaseURL     = "https://query1.finance.yahoo.com"
	defaultConcurrency = 4

	// Outbound request budget against the provider.
	rateCapacity  = 8
	rateRefillSec = 2
)

// Client fetches OHLCV chart history. Safe for concurrent use.
type Client struct {
	baseURL     string
	concurrency int
	http        *xhttp.Client
	limiter     *ratelimit.Limiter
	log         *logger.Logger
}

// Option configures Client.
type Option func(*Client)

// WithBaseURL overrides the chart API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithConcurrency bounds parallel symbol fetches.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = xhttp.NewClient(xhttp.WithTimeout(d)) }
}

func New(log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		concurrency: defaultConcurrency,
		http:        xhttp.NewClient(xhttp.WithTimeout(15 * time.Second)),
		limiter:     ratelimit.New(),
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ drepo.MarketData = (*Client)(nil)

// FetchBatch pulls history for every symbol with bounded parallelism.
// Per-symbol failures land in the error map; only when every symbol fails
// is the batch itself reported as an outage.
func (c *Client) FetchBatch(ctx context.Context, symbols []string, tf drepo.Timeframe) (map[string]models.Series, map[string]error, error) {
	type result struct {
		symbol string
		series models.Series
		err    error
	}

	results := make(chan result, len(symbols))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for _, symbol := range symbols {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			series, err := c.fetchOne(ctx, symbol, tf)
			results <- result{symbol: symbol, series: series, err: err}
		}(symbol)
	}

	wg.Wait()
	close(results)

	batch := make(map[string]models.Series, len(symbols))
	errs := make(map[string]error)
	for r := range results {
		if r.err != nil {
			errs[r.symbol] = &models.ProviderError{Symbol: r.symbol, Err: r.err}
			c.log.Warn("symbol fetch failed", logger.String("symbol", r.symbol), logger.Error(r.err))
			continue
		}
		batch[r.symbol] = r.series
	}

	if len(symbols) > 0 && len(batch) == 0 {
		return nil, nil, fmt.Errorf("all %d symbols failed, provider unreachable", len(symbols))
	}
	return batch, errs, nil
}

// chartResponse mirrors the chart API envelope.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *Client) fetchOne(ctx context.Context, symbol string, tf drepo.Timeframe) (models.Series, error) {
	for !c.limiter.Allow("chart", rateCapacity, rateRefillSec) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(100 * time.Millisecond):
		}
	}

	var resp chartResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, symbol),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0 (compatible; tradepulse/1.0)",
		},
		QueryParams: map[string][]string{
			"interval": {string(tf)},
			"range":    {drepo.PeriodFor(tf)},
		},
	}, &resp)
	if err != nil {
		return nil, err
	}

	if resp.Chart.Error != nil {
		return nil, fmt.Errorf("chart error %s: %s", resp.Chart.Error.Code, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("empty chart result")
	}

	res := resp.Chart.Result[0]
	quote := res.Indicators.Quote[0]
	if len(res.Timestamp) == 0 {
		return nil, fmt.Errorf("no timestamps in chart result")
	}

	series := make(models.Series, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(quote.Close) {
			break
		}
		// Sparse rows (market halts) come through as zero closes; skip them.
		if quote.Close[i] == 0 {
			continue
		}
		series = append(series, models.Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(quote.Open, i),
			High:      at(quote.High, i),
			Low:       at(quote.Low, i),
			Close:     quote.Close[i],
			Volume:    at(quote.Volume, i),
		})
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

func at(xs []float64, i int) float64 {
	if i < len(xs) {
		return xs[i]
	}
	return 0
}
