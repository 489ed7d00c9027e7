//go:build wireinject
// +build wireinject

package di

import (
	"github.com/MatheusMartinho/gambit-sub001/pkg/config"
	"github.com/MatheusMartinho/gambit-sub001/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideMetrics,
		ProvideOrigin,

		// Cache
		ProvideRedisClient,
		ProvideStores,
		ProvideCachePolicy,

		// Providers and fixtures
		ProvideProviders,
		ProvideFixtures,

		// Outbound sinks
		ProvideKafkaProducer,
		ProvideEvents,
		ProvideSnapshotArchive,

		// Use cases
		ProvideAggregator,
		ProvidePeersUseCase,
		ProvideHistoricalUseCase,
		ProvideCacheAdmin,
		ProvideKafkaConsumer,
		ProvideWarmer,

		// Transport and application server
		ProvideHTTPHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
