package metricsplot

import (
	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

type config struct {
	logger      *zap.Logger
	clock       clock.WithTicker
	compression float64
	backlog     int
	// called by the scheduler goroutine after every scrape with the cycle count.
	onScrape func(cycle int)
}

// Option configures a Registry, its scheduler and report handle.
type Option func(*config)

func newConfig(opts []Option) *config {
	cfg := &config{
		logger:      zap.NewNop(),
		clock:       clock.RealClock{},
		compression: DefaultDigestCompression,
		backlog:     DefaultDigestBacklog,
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}

// WithLogger sets the logger used by the registry, the scheduler and the report handle.
func WithLogger(l *zap.Logger) Option {
	return func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	}
}

// WithClock replaces the clock driving the scrape ticker and elapsed timestamps.
// The scrape period itself stays ScrapeInterval.
func WithClock(c clock.WithTicker) Option {
	return func(cfg *config) {
		if c != nil {
			cfg.clock = c
		}
	}
}

// WithDigestCompression sets the compression factor of the per-cycle quantile digests.
func WithDigestCompression(c float64) Option {
	return func(cfg *config) {
		if c > 0 {
			cfg.compression = c
		}
	}
}

// WithDigestBacklog sets how many samples a digest buffers before merging them.
func WithDigestBacklog(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.backlog = n
		}
	}
}

func withScrapeHook(fn func(cycle int)) Option {
	return func(cfg *config) { cfg.onScrape = fn }
}
