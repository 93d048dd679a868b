//go:build wireinject
// +build wireinject

package di

import (
	"BizPulse/pkg/config"
	"BizPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Observability
		ProvideLogger,
		ProvideMetrics,

		// Data layer
		ProvideDataset,
		ProvideFilter,
		ProvideDeriver,
		ProvideSummarizer,
		ProvideViewCache,
		ProvideViewProvider,

		// Use cases
		ProvideDashboardUsecase,
		ProvideSessionStore,
		ProvideBroadcaster,
		ProvideSessionUsecase,
		ProvideInputPipeline,

		// HTTP surface
		ProvideRouter,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
