package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"BetForge/internal/domain/repository"
	"BetForge/internal/handler/api"
	"BetForge/internal/handler/ws"
	"BetForge/internal/service/ratelimit"
	"BetForge/internal/usecase"
	pkgch "BetForge/pkg/clickhouse"
	"BetForge/pkg/config"
	xhttp "BetForge/pkg/http"
	"BetForge/pkg/journal"
	pkgkafka "BetForge/pkg/kafka"
	applogger "BetForge/pkg/logger"
)

// App encapsulates the staking service lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	engine     *usecase.Engine
	writer     *journal.Writer
	feed       *ws.Feed
	consumer   *pkgkafka.Consumer
	publisher  repository.Publisher
	archive    repository.Archive
	snapshots  repository.SnapshotStore
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates an App with all dependencies.
func New(
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
) *App {
	return &App{
		cfg:       cfg,
		logger:    log,
		engine:    engine,
		writer:    writer,
		feed:      feed,
		consumer:  consumer,
		publisher: publisher,
		archive:   archive,
		snapshots: snapshots,
		chClient:  chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.writer.Start()

	if err := a.engine.Restore(ctx); err != nil {
		a.logger.Warn("snapshot restore failed, starting fresh", applogger.Error(err))
	}

	serverOpts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	}
	if a.cfg.Metrics.Enabled {
		serverOpts = append(serverOpts,
			xhttp.WithRequestMetrics(a.logger, a.cfg.Metrics.SlowThreshold))
	}
	if a.feed != nil {
		a.feed.Start()
		serverOpts = append(serverOpts, xhttp.WithHandler(a.feed))
	}

	bets := api.NewBetsHandler(a.logger, a.engine)
	if a.cfg.Server.RateLimit.Enabled {
		bets.WithRateLimit(ratelimit.New(),
			a.cfg.Server.RateLimit.Burst, a.cfg.Server.RateLimit.RefillPerSec)
	}
	a.httpServer = xhttp.NewServer(bets, serverOpts...)

	if a.consumer != nil {
		a.consumer.Start()
		a.logger.Info("settlement consumer started",
			applogger.String("topic", a.cfg.Kafka.Settlements.Topic))
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("staking service up", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops intake first, then drains durable writes, then closes
// infrastructure clients.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("settlement consumer stop error", applogger.Error(err))
		}
	}

	a.engine.Shutdown(shutdownCtx)

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.archive != nil {
		if err := a.archive.Close(); err != nil {
			a.logger.Warn("archive close error", applogger.Error(err))
		}
	}
	if a.snapshots != nil {
		if err := a.snapshots.Close(); err != nil {
			a.logger.Warn("snapshot store close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
