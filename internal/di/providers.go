package di

import (
	"fmt"

	"BizPulse/internal/domain/repository"
	"BizPulse/internal/domain/service"
	"BizPulse/internal/handler/api"
	mid "BizPulse/internal/middleware"
	internalrepo "BizPulse/internal/repository"
	"BizPulse/internal/service/ratelimit"
	"BizPulse/internal/service/stream"
	"BizPulse/internal/service/viewcache"
	"BizPulse/internal/services/analytics"
	"BizPulse/internal/usecase"
	"BizPulse/pkg/config"
	xhttp "BizPulse/pkg/http"
	applogger "BizPulse/pkg/logger"
	"BizPulse/pkg/metrics"
	"BizPulse/pkg/server"
	"BizPulse/pkg/util"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideDataset generates the seeded in-memory dataset.
func ProvideDataset(cfg *config.Config) (repository.DatasetSource, error) {
	start, ok := util.ParseDate(cfg.Dataset.StartDate)
	if !ok {
		return nil, fmt.Errorf("dataset.start_date %q: want YYYY-MM-DD", cfg.Dataset.StartDate)
	}
	return internalrepo.NewMemoryDataset(internalrepo.DatasetConfig{
		Seed:          cfg.Dataset.Seed,
		Days:          cfg.Dataset.Days,
		StartDate:     start,
		SalesMean:     cfg.Dataset.SalesMean,
		SalesStd:      cfg.Dataset.SalesStd,
		UsersLambda:   cfg.Dataset.UsersLambda,
		ConversionMin: cfg.Dataset.ConversionMin,
		ConversionMax: cfg.Dataset.ConversionMax,
	}), nil
}

// ProvideFilter creates the date-range filter.
func ProvideFilter() service.Filter {
	return analytics.NewRangeFilter()
}

// ProvideDeriver creates the derived-metrics calculator.
func ProvideDeriver() service.Deriver {
	return analytics.NewMetricDeriver()
}

// ProvideSummarizer creates the summary-statistics calculator.
func ProvideSummarizer() service.Summarizer {
	return analytics.NewTableSummarizer()
}

// ProvideViewCache creates the memoized filtered-view provider.
func ProvideViewCache(
	ds repository.DatasetSource,
	filter service.Filter,
	m repository.Metrics,
	cfg *config.Config,
) *viewcache.Provider {
	return viewcache.New(ds, filter, m, viewcache.Config{
		TTL:        cfg.Cache.ViewTTL,
		MaxEntries: cfg.Cache.MaxEntries,
	})
}

// ProvideViewProvider exposes the view cache through its domain interface.
func ProvideViewProvider(p *viewcache.Provider) repository.ViewProvider {
	return p
}

// ProvideDashboardUsecase creates the dashboard read use case.
func ProvideDashboardUsecase(
	ds repository.DatasetSource,
	views repository.ViewProvider,
	deriver service.Deriver,
	summarizer service.Summarizer,
	m repository.Metrics,
) *usecase.DashboardUsecase {
	return usecase.NewDashboardUsecase(ds, views, deriver, summarizer, m)
}

// ProvideSessionStore creates the in-memory session store seeded with the
// dashboard defaults.
func ProvideSessionStore(cfg *config.Config, dash *usecase.DashboardUsecase) repository.SessionStore {
	return internalrepo.NewMemorySessions(internalrepo.SessionConfig{
		TTL:             cfg.Sessions.TTL,
		CleanupInterval: cfg.Sessions.CleanupInterval,
		MaxSessions:     cfg.Sessions.Max,
	}, dash.DefaultInputs())
}

// ProvideBroadcaster creates the snapshot fan-out bus.
func ProvideBroadcaster(m repository.Metrics) *stream.Broadcaster {
	return stream.NewBroadcaster(m)
}

// ProvideSessionUsecase creates the session use case.
func ProvideSessionUsecase(
	store repository.SessionStore,
	dash *usecase.DashboardUsecase,
	bus *stream.Broadcaster,
	m repository.Metrics,
	logger *applogger.Logger,
) *usecase.SessionUsecase {
	return usecase.NewSessionUsecase(store, dash, bus, m, logger)
}

// ProvideInputPipeline builds the throttle/coalesce pipeline between the
// stream handlers and the session use case.
func ProvideInputPipeline(
	sessions *usecase.SessionUsecase,
	m repository.Metrics,
	cfg *config.Config,
) *mid.InputPipeline {
	return mid.NewInputPipeline(sessions, ratelimit.New(), m,
		mid.WithCoalesceWindow(cfg.Stream.CoalesceWindow),
		mid.WithMaxEventsPerSec(cfg.Stream.MaxEventsPerSec),
	)
}

// ProvideRouter bundles every handler group into one route registrar.
func ProvideRouter(
	logger *applogger.Logger,
	dash *usecase.DashboardUsecase,
	sessions *usecase.SessionUsecase,
	bus *stream.Broadcaster,
	pipeline *mid.InputPipeline,
	cfg *config.Config,
) xhttp.Handler {
	return api.NewRouter(
		api.NewDashboardEchoHandler(logger, dash),
		api.NewSessionsEchoHandler(logger, sessions, pipeline),
		api.NewStreamEchoHandler(logger, sessions, bus, pipeline, cfg.Stream.PingInterval),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	logger *applogger.Logger,
	handler xhttp.Handler,
	pipeline *mid.InputPipeline,
	store repository.SessionStore,
	views *viewcache.Provider,
) *server.App {
	return server.New(cfg, logger, handler, pipeline, store, views)
}
