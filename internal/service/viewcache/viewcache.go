package viewcache

import (
	"context"
	"time"

	"BizPulse/internal/domain/models"
	"BizPulse/internal/domain/repository"
	"BizPulse/internal/domain/service"
	"BizPulse/pkg/cache"

	"golang.org/x/sync/singleflight"
)

// Provider memoizes filtered views per distinct date range, so the derived,
// summary and grid stages of one recomputation cycle share a single dataset
// scan. Concurrent requests for the same uncached range collapse into one
// filter run.
type Provider struct {
	source  repository.DatasetSource
	filter  service.Filter
	store   cache.Service
	metrics repository.Metrics
	ttl     time.Duration
	group   singleflight.Group
}

var _ repository.ViewProvider = (*Provider)(nil)

// Config controls memoization.
type Config struct {
	TTL        time.Duration
	MaxEntries int
}

func New(source repository.DatasetSource, filter service.Filter, metrics repository.Metrics, cfg Config) *Provider {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 256
	}
	return &Provider{
		source: source,
		filter: filter,
		store: cache.NewMemoryCache(
			cache.WithMaxSize(cfg.MaxEntries),
			cache.WithDefaultTTL(cfg.TTL),
		),
		metrics: metrics,
		ttl:     cfg.TTL,
	}
}

// View returns the memoized filtered view for r. The returned slice is
// shared between callers and must be treated as read-only.
func (p *Provider) View(ctx context.Context, r models.DateRange) []models.Row {
	key := cache.GenerateKey("view", r.Key())
	if rows, ok := cache.GetTyped[[]models.Row](ctx, p.store, key); ok {
		p.metrics.RecordViewCache(true)
		return rows
	}
	p.metrics.RecordViewCache(false)

	v, _, _ := p.group.Do(key, func() (interface{}, error) {
		rows := p.filter.Apply(ctx, p.source.Rows(), r)
		_ = p.store.Set(ctx, key, rows, p.ttl)
		return rows, nil
	})
	return v.([]models.Row)
}

// Invalidate drops every memoized view.
func (p *Provider) Invalidate() {
	_ = p.store.Flush(context.Background())
}

// Close releases the backing store.
func (p *Provider) Close() error { return p.store.Close() }
