package di

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MatheusMartinho/gambit-sub001/internal/domain/models"
	"github.com/MatheusMartinho/gambit-sub001/internal/domain/repository"
	domsvc "github.com/MatheusMartinho/gambit-sub001/internal/domain/service"
	"github.com/MatheusMartinho/gambit-sub001/internal/handler/api"
	internalrepo "github.com/MatheusMartinho/gambit-sub001/internal/repository"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/brapi"
	svccache "github.com/MatheusMartinho/gambit-sub001/internal/service/cache"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/provider"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/ratelimit"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/statusinvest"
	"github.com/MatheusMartinho/gambit-sub001/internal/service/yahoo"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/analytics"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/fixture"
	"github.com/MatheusMartinho/gambit-sub001/internal/services/peers"
	"github.com/MatheusMartinho/gambit-sub001/internal/usecase"
	pkgcache "github.com/MatheusMartinho/gambit-sub001/pkg/cache"
	pkgch "github.com/MatheusMartinho/gambit-sub001/pkg/clickhouse"
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	xhttp "github.com/MatheusMartinho/gambit-sub001/pkg/http"
	pkgkafka "github.com/MatheusMartinho/gambit-sub001/pkg/kafka"
	applogger "github.com/MatheusMartinho/gambit-sub001/pkg/logger"
	"github.com/MatheusMartinho/gambit-sub001/pkg/metrics"
	"github.com/MatheusMartinho/gambit-sub001/pkg/server"
)

// Origin identifies this process in invalidation broadcasts.
type Origin string

// Stores groups the typed cache stores built for the configured backend.
type Stores struct {
	Snapshots  pkgcache.Store[*models.Snapshot]
	Peers      pkgcache.Store[*models.PeerReport]
	Historical pkgcache.Store[*models.HistoricalSeries]
	Records    pkgcache.Store[*models.ProviderRecord]
	Bars       pkgcache.Store[[]models.HistoricalBar]

	memories []interface{ Close() error }
}

// ProvideLogger creates the process logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideOrigin generates the instance id.
func ProvideOrigin() Origin {
	return Origin(uuid.NewString())
}

// ProvideRedisClient connects to Redis when the cache backend needs it.
func ProvideRedisClient(cfg *config.Config, log *applogger.Logger) (*redis.Client, func(), error) {
	if cfg.Cache.Backend == "memory" {
		return nil, func() {}, nil
	}
	client, err := pkgcache.NewRedisClient(
		pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("redis client: %w", err)
	}
	cleanup := func() {
		if err := client.Close(); err != nil {
			log.Warn("redis close error", applogger.Error(err))
		}
	}
	return client, cleanup, nil
}

// ProvideStores builds one typed store per cached value kind.
func ProvideStores(cfg *config.Config, rdb *redis.Client) (*Stores, func()) {
	s := &Stores{}
	s.Snapshots = newStore[*models.Snapshot](cfg, rdb, "snapshot", s)
	s.Peers = newStore[*models.PeerReport](cfg, rdb, "peers", s)
	s.Historical = newStore[*models.HistoricalSeries](cfg, rdb, "historical", s)
	s.Records = newStore[*models.ProviderRecord](cfg, rdb, "raw", s)
	s.Bars = newStore[[]models.HistoricalBar](cfg, rdb, "rawbars", s)

	cleanup := func() {
		for _, m := range s.memories {
			_ = m.Close()
		}
	}
	return s, cleanup
}

func newStore[V any](cfg *config.Config, rdb *redis.Client, prefix string, s *Stores) pkgcache.Store[V] {
	memory := func() pkgcache.Store[V] {
		m := pkgcache.NewMemoryStore[V](
			pkgcache.WithMemoryMaxSize(cfg.Cache.MaxEntries),
			pkgcache.WithMemoryCleanup(cfg.Cache.CleanupInterval),
			pkgcache.WithMemoryStaleRetention(cfg.Cache.StaleRetention),
		)
		s.memories = append(s.memories, m)
		return m
	}
	remote := func() pkgcache.Store[V] {
		return pkgcache.NewRedisStore[V](rdb,
			pkgcache.WithRedisPrefix(cfg.Cache.Redis.Prefix+":"+prefix),
			pkgcache.WithRedisStaleRetention(cfg.Cache.StaleRetention),
		)
	}

	switch cfg.Cache.Backend {
	case "redis":
		return remote()
	case "layered":
		return pkgcache.NewLayeredStore[V](memory(), remote())
	default:
		return memory()
	}
}

// ProvideCachePolicy builds the snapshot cache policy. Raw provider stores
// are registered so ticker invalidation reaches them too.
func ProvideCachePolicy(cfg *config.Config, s *Stores) *svccache.Policy {
	return svccache.NewPolicy(s.Snapshots, s.Peers, s.Historical,
		svccache.TTLs{
			Snapshot:   cfg.Cache.SnapshotTTL,
			Peers:      cfg.Cache.PeersTTL,
			Historical: cfg.Cache.HistoricalTTL,
		},
		s.Records, s.Bars,
	)
}

// ProvideProviders builds the enabled provider adapters in precedence order,
// each behind the raw response cache.
func ProvideProviders(cfg *config.Config, s *Stores, metrics repository.Metrics, log *applogger.Logger) []repository.ProviderClient {
	ttl := provider.TTLs{
		Quote:        cfg.Cache.QuoteTTL,
		Fundamentals: cfg.Cache.FundamentalsTTL,
		Historical:   cfg.Cache.HistoricalTTL,
	}

	var clients []repository.ProviderClient
	add := func(c repository.ProviderClient) {
		clients = append(clients, provider.NewCachedClient(c, s.Records, s.Bars, ttl, log))
	}

	add(yahoo.NewClient(cfg.Providers.Yahoo, log, metrics))
	if cfg.Providers.Brapi.Enabled {
		add(brapi.NewClient(cfg.Providers.Brapi, log, metrics))
	}
	if cfg.Providers.StatusInvest.Enabled {
		add(statusinvest.NewClient(cfg.Providers.StatusInvest, log, metrics))
	}
	return clients
}

// ProvideFixtures returns the synthetic generator, or nil in live mode.
func ProvideFixtures(cfg *config.Config) domsvc.FixtureGenerator {
	if cfg.LiveDataRequired() {
		return nil
	}
	return fixture.NewGenerator()
}

// ProvideKafkaProducer creates a Kafka producer when Kafka is enabled.
func ProvideKafkaProducer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	cleanup := func() {
		if err := producer.Close(); err != nil {
			log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	return producer, cleanup, nil
}

// ProvideEvents wraps the producer in the snapshot/invalidation publisher.
func ProvideEvents(cfg *config.Config, producer *pkgkafka.Producer, origin Origin) *internalrepo.KafkaEvents {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaEvents(producer, cfg.Kafka.EventsTopic, cfg.Kafka.InvalidationTopic, string(origin))
}

// ProvideSnapshotArchive connects to ClickHouse and prepares the archive
// table when the archive is enabled.
func ProvideSnapshotArchive(cfg *config.Config, log *applogger.Logger) (*internalrepo.CHSnapshotArchive, func(), error) {
	if !cfg.ClickHouse.Enabled {
		return nil, func() {}, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, 30*time.Second),
		pkgch.WithAsyncInsert(true, false),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	archive, err := internalrepo.NewCHSnapshotArchive(client.DB(), cfg.ClickHouse.Table, log)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	cleanup := func() {
		if err := archive.Close(); err != nil {
			log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	return archive, cleanup, nil
}

// ProvideAggregator creates the snapshot facade.
func ProvideAggregator(
	cfg *config.Config,
	providers []repository.ProviderClient,
	policy *svccache.Policy,
	metrics repository.Metrics,
	fixtures domsvc.FixtureGenerator,
	events *internalrepo.KafkaEvents,
	archive *internalrepo.CHSnapshotArchive,
	log *applogger.Logger,
) *usecase.Aggregator {
	var opts []usecase.AggregatorOption
	if fixtures != nil {
		opts = append(opts, usecase.WithFixtures(fixtures))
	}
	if events != nil {
		opts = append(opts, usecase.WithPublisher(events))
	}
	if archive != nil {
		opts = append(opts, usecase.WithArchive(archive))
	}
	return usecase.NewAggregator(providers, policy, analytics.Scorer{}, analytics.BookValuator{}, metrics,
		usecase.AggregatorConfig{
			RequireLive:   cfg.LiveDataRequired(),
			FanoutTimeout: cfg.Aggregation.FanoutTimeout,
		},
		log, opts...)
}

// ProvidePeersUseCase creates the peer comparison use case.
func ProvidePeersUseCase(cfg *config.Config, agg *usecase.Aggregator, policy *svccache.Policy, metrics repository.Metrics, log *applogger.Logger) *usecase.PeersUseCase {
	resolver := peers.NewResolver(agg, peers.Config{
		MaxPeers:      cfg.Peers.MaxPeers,
		Concurrency:   cfg.Peers.Concurrency,
		DefaultSector: cfg.Peers.DefaultSector,
	}, log)
	return usecase.NewPeersUseCase(agg, resolver, analytics.PeerValuator{}, policy, metrics, log)
}

// ProvideHistoricalUseCase creates the price history use case.
func ProvideHistoricalUseCase(cfg *config.Config, providers []repository.ProviderClient, policy *svccache.Policy, metrics repository.Metrics, fixtures domsvc.FixtureGenerator, log *applogger.Logger) *usecase.HistoricalUseCase {
	return usecase.NewHistoricalUseCase(providers, policy, metrics, log, cfg.LiveDataRequired(), fixtures)
}

// ProvideCacheAdmin creates the cache admin use case.
func ProvideCacheAdmin(policy *svccache.Policy, events *internalrepo.KafkaEvents, log *applogger.Logger) *usecase.CacheAdmin {
	if events == nil {
		return usecase.NewCacheAdmin(policy, nil, log)
	}
	return usecase.NewCacheAdmin(policy, events, log)
}

// ProvideKafkaConsumer subscribes to cache invalidations from other
// instances when Kafka is enabled.
func ProvideKafkaConsumer(cfg *config.Config, policy *svccache.Policy, metrics repository.Metrics, origin Origin, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(log,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID+"-"+string(origin)),
		pkgkafka.WithConsumerRetry(3, 100*time.Millisecond, 2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.RegisterHandler(usecase.NewInvalidationHandler(cfg.Kafka.InvalidationTopic, string(origin), policy, metrics, log))
	return consumer, nil
}

// ProvideWarmer creates the cron cache warmer when enabled.
func ProvideWarmer(cfg *config.Config, agg *usecase.Aggregator, log *applogger.Logger) *usecase.Warmer {
	if !cfg.Warmup.Enabled {
		return nil
	}
	return usecase.NewWarmer(agg, cfg.Warmup.Schedule, cfg.Warmup.Tickers, log)
}

// ProvideHTTPHandler creates the fundamentals API handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	agg *usecase.Aggregator,
	peersUC *usecase.PeersUseCase,
	historical *usecase.HistoricalUseCase,
	admin *usecase.CacheAdmin,
	log *applogger.Logger,
) *api.FundamentalsEchoHandler {
	limiter := ratelimit.New(cfg.RateLimit.Capacity, cfg.RateLimit.RefillPerSec)
	return api.NewFundamentalsEchoHandler(log, agg, peersUC, historical, admin, limiter, api.Status{
		Mode:         cfg.Mode,
		CacheBackend: cfg.Cache.Backend,
		Kafka:        cfg.Kafka.Enabled,
		Archive:      cfg.ClickHouse.Enabled,
	})
}

// ProvideHTTPServer creates the echo server.
func ProvideHTTPServer(cfg *config.Config, handler *api.FundamentalsEchoHandler, log *applogger.Logger) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handler, log,
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	httpServer *xhttp.Server,
	consumer *pkgkafka.Consumer,
	warmer *usecase.Warmer,
) *server.App {
	return server.New(cfg, log, httpServer, consumer, warmer)
}
