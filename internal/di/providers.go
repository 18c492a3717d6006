package di

import (
	"context"
	"fmt"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
	"TradePulse/internal/handler/api"
	internalrepo "TradePulse/internal/repository"
	"TradePulse/internal/service/alert"
	"TradePulse/internal/service/yahoo"
	"TradePulse/internal/usecase"
	"TradePulse/pkg/cache"
	pkgch "TradePulse/pkg/clickhouse"
	"TradePulse/pkg/config"
	pkgkafka "TradePulse/pkg/kafka"
	applogger "TradePulse/pkg/logger"
	"TradePulse/pkg/metrics"
	"TradePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client when the clickhouse
// provider is selected or bar mirroring is on; otherwise the app runs
// without one.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.Provider.Type != "clickhouse" && !cfg.ClickHouse.MirrorBars {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideMarketData selects the bar provider.
func ProvideMarketData(cfg *config.Config, chClient *pkgch.Client, log *applogger.Logger) (repository.MarketData, error) {
	switch cfg.Provider.Type {
	case "clickhouse":
		store := internalrepo.NewCHBarStore(chClient)
		store.SetLogger(log)
		return internalrepo.NewCHMarketData(store, cfg.ClickHouse.QueryLimit), nil
	case "yahoo":
		opts := []yahoo.Option{yahoo.WithTimeout(cfg.Provider.Timeout)}
		if cfg.Provider.BaseURL != "" {
			opts = append(opts, yahoo.WithBaseURL(cfg.Provider.BaseURL))
		}
		if cfg.Provider.Concurrency > 0 {
			opts = append(opts, yahoo.WithConcurrency(cfg.Provider.Concurrency))
		}
		provider := yahoo.New(log, opts...)
		if cfg.ClickHouse.MirrorBars && chClient != nil {
			store := internalrepo.NewCHBarStore(chClient)
			store.SetLogger(log)
			return internalrepo.NewMirroringMarketData(provider, store, log), nil
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cfg.Provider.Type)
	}
}

// ProvideKafkaProducer creates a Kafka producer when enabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideWSHub creates the websocket broadcast hub.
func ProvideWSHub(log *applogger.Logger) *api.WSHub {
	return api.NewWSHub(log)
}

// ProvideSink fans cycles out to the websocket hub and, when configured,
// the Kafka topic.
func ProvideSink(hub *api.WSHub, producer *pkgkafka.Producer, cfg *config.Config) repository.SignalSink {
	sinks := []repository.SignalSink{hub}
	if producer != nil {
		sinks = append(sinks, internalrepo.NewKafkaSink(producer, cfg.Kafka.Topic))
	}
	return internalrepo.NewFanoutSink(sinks...)
}

// ProvideNotifier creates the webhook notifier, or nil when alerts are off.
func ProvideNotifier(cfg *config.Config, log *applogger.Logger) repository.Notifier {
	if !cfg.Alert.Enabled {
		return nil
	}
	return alert.NewWebhook(cfg.Alert.WebhookURL, log)
}

// ProvideDedupCache backs alert de-duplication: redis when configured so
// replicas share state, in-process memory otherwise.
func ProvideDedupCache(cfg *config.Config) (cache.Service, error) {
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Redis.Host),
			cache.WithRedisPort(cfg.Redis.Port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix("tradepulse"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return cache.NewLayeredCache(rc), nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideCatalog builds the instrument set from config, falling back to the
// built-in catalog.
func ProvideCatalog(cfg *config.Config) []models.AssetProfile {
	if len(cfg.Scan.Assets) == 0 {
		return models.DefaultCatalog()
	}
	catalog := make([]models.AssetProfile, 0, len(cfg.Scan.Assets))
	for _, a := range cfg.Scan.Assets {
		name := a.Name
		if name == "" {
			name = a.Symbol
		}
		catalog = append(catalog, models.AssetProfile{
			Symbol:         a.Symbol,
			Name:           name,
			Category:       models.Category(a.Category),
			Currency:       a.Currency,
			HighVolatility: a.HighVolatility,
		})
	}
	return catalog
}

// ProvideScanner creates the scan orchestrator.
func ProvideScanner(
	provider repository.MarketData,
	m repository.Metrics,
	dedup cache.Service,
	log *applogger.Logger,
	catalog []models.AssetProfile,
	sink repository.SignalSink,
	notifier repository.Notifier,
	cfg *config.Config,
) *usecase.Scanner {
	opts := []usecase.Option{
		usecase.WithSink(sink),
		usecase.WithInterval(cfg.Scan.Interval),
		usecase.WithTimeframe(repository.NormalizeTimeframe(cfg.Scan.Timeframe)),
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
	}
	return usecase.NewScanner(provider, m, dedup, log, catalog, opts...)
}

// ProvideSignalsHandler creates the HTTP handler.
func ProvideSignalsHandler(log *applogger.Logger, scanner *usecase.Scanner) *api.SignalsHandler {
	return api.NewSignalsHandler(log, scanner)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	scanner *usecase.Scanner,
	signals *api.SignalsHandler,
	hub *api.WSHub,
	sink repository.SignalSink,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, scanner, signals, hub, sink, chClient)
}
