package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"BetForge/internal/domain/models"
	"BetForge/internal/domain/repository"
	"BetForge/internal/handler/ws"
	internalrepo "BetForge/internal/repository"
	"BetForge/internal/service/ledger"
	"BetForge/internal/service/risk"
	"BetForge/internal/usecase"
	"BetForge/pkg/cache"
	pkgch "BetForge/pkg/clickhouse"
	"BetForge/pkg/config"
	"BetForge/pkg/journal"
	pkgkafka "BetForge/pkg/kafka"
	applogger "BetForge/pkg/logger"
	"BetForge/pkg/metrics"
	"BetForge/pkg/server"

	"github.com/shopspring/decimal"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	if cfg.Environment == "development" {
		level = "debug"
	}
	return applogger.New(&applogger.Config{Level: level, Format: "json", Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideRiskManager builds the risk manager from a named profile or custom
// thresholds.
func ProvideRiskManager(cfg *config.Config, log *applogger.Logger) (*risk.Manager, error) {
	var thresholds risk.Thresholds
	if cfg.Engine.Profile == "custom" {
		thresholds = risk.Thresholds{
			Low:  cfg.Engine.Thresholds.Low,
			Med:  cfg.Engine.Thresholds.Medium,
			High: cfg.Engine.Thresholds.High,
		}
	} else {
		var err error
		thresholds, err = risk.Preset(cfg.Engine.Profile)
		if err != nil {
			return nil, err
		}
	}
	return risk.NewManager(thresholds, cfg.Engine.MaxRisk, log)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
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
	return client, nil
}

// ProvideArchive creates the wager archive over ClickHouse, or nil when
// ClickHouse is disabled.
func ProvideArchive(chClient *pkgch.Client, cfg *config.Config) (repository.Archive, error) {
	if chClient == nil {
		return nil, nil
	}
	archive := internalrepo.NewClickHouseArchive(chClient.DB(),
		cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := archive.Init(ctx); err != nil {
		return nil, fmt.Errorf("archive schema: %w", err)
	}
	return archive, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
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

// ProvideFeed creates the websocket wager feed, or nil when disabled.
func ProvideFeed(cfg *config.Config, log *applogger.Logger) *ws.Feed {
	if !cfg.Feed.Enabled {
		return nil
	}
	return ws.NewFeed(log)
}

// ProvidePublisher fans recorded wagers out to every enabled sink.
func ProvidePublisher(producer *pkgkafka.Producer, feed *ws.Feed, cfg *config.Config) repository.Publisher {
	var targets []repository.Publisher
	if producer != nil {
		targets = append(targets, internalrepo.NewKafkaPublisher(producer, cfg.Kafka.WagerTopic))
	}
	if feed != nil {
		targets = append(targets, feed)
	}
	if len(targets) == 0 {
		return nil
	}
	return internalrepo.NewMultiPublisher(targets...)
}

// ProvideSnapshotStore persists engine state in Redis, falling back to the
// in-process cache when Redis is disabled.
func ProvideSnapshotStore(cfg *config.Config) (repository.SnapshotStore, error) {
	var svc cache.Service
	if cfg.Redis.Enabled {
		host, port := cfg.Redis.Addr, 6379
		if h, p, err := net.SplitHostPort(cfg.Redis.Addr); err == nil {
			host = h
			if n, err := strconv.Atoi(p); err == nil {
				port = n
			}
		}
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(host),
			cache.WithRedisPort(port),
			cache.WithRedisPassword(cfg.Redis.Password),
			cache.WithRedisDB(cfg.Redis.DB),
			cache.WithRedisPrefix("betforge"),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		svc = rc
	} else {
		svc = cache.NewMemoryCache()
	}
	return internalrepo.NewCacheSnapshotStore(svc), nil
}

// ProvideJournal creates the durable wager journal.
func ProvideJournal(cfg *config.Config, log *applogger.Logger, rec *metrics.Recorder) *journal.Writer {
	return journal.NewWriter(cfg.Engine.JournalPath, log,
		journal.WithDepthGauge(rec.RecordJournalDepth),
		journal.WithFailureHook(func() { rec.RecordError("journal") }),
	)
}

// ProvideHistory creates the in-memory ledger. Flushed batches go to the
// archive; the journal owns the on-disk file.
func ProvideHistory(cfg *config.Config, log *applogger.Logger, rec *metrics.Recorder, archive repository.Archive) *ledger.History {
	opts := []ledger.Option{
		ledger.WithFlushHook(rec.RecordFlush),
	}
	if cfg.Engine.HistoryCapacity > 0 {
		opts = append(opts, ledger.WithCapacity(cfg.Engine.HistoryCapacity))
	}
	if archive != nil {
		opts = append(opts, ledger.WithForwarder(func(batch []models.Wager) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := archive.StoreBatch(ctx, batch); err != nil {
				log.Error("archive store failed", applogger.Error(err))
				rec.RecordError("archive")
			}
		}))
	}
	return ledger.NewHistory("", log, opts...)
}

// ProvideEngine creates the staking engine.
func ProvideEngine(
	cfg *config.Config,
	log *applogger.Logger,
	riskMgr *risk.Manager,
	history *ledger.History,
	writer *journal.Writer,
	rec *metrics.Recorder,
	publisher repository.Publisher,
	snapshots repository.SnapshotStore,
) (*usecase.Engine, error) {
	bankroll, err := decimal.NewFromString(cfg.Engine.Bankroll)
	if err != nil {
		return nil, fmt.Errorf("engine.bankroll: %w", err)
	}
	minBank, err := decimal.NewFromString(cfg.Engine.MinBankroll)
	if err != nil {
		return nil, fmt.Errorf("engine.min_bankroll: %w", err)
	}

	opts := []usecase.EngineOption{usecase.WithMetrics(rec)}
	if publisher != nil {
		opts = append(opts, usecase.WithPublisher(publisher))
	}
	if snapshots != nil {
		opts = append(opts, usecase.WithSnapshots(snapshots))
	}
	return usecase.NewEngine(bankroll, minBank, riskMgr, history, writer, log, opts...), nil
}

// ProvideSettlementConsumer subscribes to the settlements topic, or returns
// nil when Kafka is disabled.
func ProvideSettlementConsumer(cfg *config.Config, engine *usecase.Engine, log *applogger.Logger) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.Settlements.Topic == "" {
		return nil, nil
	}
	handler := usecase.NewSettlementHandler(cfg.Kafka.Settlements.Topic, engine, log)
	consumer, err := pkgkafka.NewConsumer(handler,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Settlements.GroupID),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Settlements.RetryMax, cfg.Kafka.Settlements.BackoffMin, cfg.Kafka.Settlements.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Settlements.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Settlements.MinBytes, cfg.Kafka.Settlements.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	engine *usecase.Engine,
	writer *journal.Writer,
	feed *ws.Feed,
	consumer *pkgkafka.Consumer,
	publisher repository.Publisher,
	archive repository.Archive,
	snapshots repository.SnapshotStore,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, engine, writer, feed, consumer, publisher, archive, snapshots, chClient)
}
