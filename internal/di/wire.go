//go:build wireinject
// +build wireinject

package di

import (
	"BetForge/pkg/config"
	"BetForge/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideRiskManager,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideSnapshotStore,

		// Sinks
		ProvideArchive,
		ProvideFeed,
		ProvidePublisher,

		// Engine
		ProvideJournal,
		ProvideHistory,
		ProvideEngine,
		ProvideSettlementConsumer,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
