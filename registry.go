package metricsplot

import (
	"sort"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// instrument pairs a cell with the key and metadata it was registered with.
type instrument[C any] struct {
	key  Key
	cfg  InstrumentConfig
	cell *C
}

// Registry is the in-memory Provider read by the scrape scheduler.
// Cells are created on first registration and never removed, so handles may be cached.
// A single mutex guards lookup-or-insert; updates through a handle never touch it.
type Registry struct {
	cfg    *config
	logger *zap.Logger

	mu         sync.Mutex
	counters   map[string]*instrument[CounterCell]
	gauges     map[string]*instrument[GaugeCell]
	histograms map[string]*instrument[HistogramCell]

	// set once a scheduler owns this registry; histogram drains are destructive.
	claimed atomic.Bool
}

var _ Provider = (*Registry)(nil)

// NewRegistry constructs an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	cfg := newConfig(opts)
	return &Registry{
		cfg:        cfg,
		logger:     cfg.logger,
		counters:   make(map[string]*instrument[CounterCell]),
		gauges:     make(map[string]*instrument[GaugeCell]),
		histograms: make(map[string]*instrument[HistogramCell]),
	}
}

// Counter returns the counter registered under key, creating it on first use.
func (r *Registry) Counter(key Key, opts ...InstrumentOption) Counter {
	return getOrCreate(r, r.counters, key, opts)
}

// Gauge returns the gauge registered under key, creating it on first use.
func (r *Registry) Gauge(key Key, opts ...InstrumentOption) Gauge {
	return getOrCreate(r, r.gauges, key, opts)
}

// Histogram returns the histogram registered under key, creating it on first use.
func (r *Registry) Histogram(key Key, opts ...InstrumentOption) Histogram {
	return getOrCreate(r, r.histograms, key, opts)
}

// getOrCreate returns the cell stored under key or inserts a zero-valued one.
// Options are applied before taking the lock and only kept by the first registration.
func getOrCreate[C any](r *Registry, m map[string]*instrument[C], key Key, opts []InstrumentOption) *C {
	cfg := applyOptions(opts)
	id := key.identity()

	r.mu.Lock()
	defer r.mu.Unlock()

	if inst, ok := m[id]; ok {
		return inst.cell
	}
	inst := &instrument[C]{key: key, cfg: cfg, cell: new(C)}
	m[id] = inst
	r.logger.Debug("instrument registered", zap.Stringer("key", key))
	return inst.cell
}

// registrySnapshot is the set of instruments present at one point in time.
type registrySnapshot struct {
	counters   []*instrument[CounterCell]
	gauges     []*instrument[GaugeCell]
	histograms []*instrument[HistogramCell]
}

// snapshot copies the instrument lists under the lock so values can be read
// and drained without holding it.
func (r *Registry) snapshot() registrySnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return registrySnapshot{
		counters:   values(r.counters),
		gauges:     values(r.gauges),
		histograms: values(r.histograms),
	}
}

// values returns the instruments of m ordered by key.
func values[C any](m map[string]*instrument[C]) []*instrument[C] {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*instrument[C], 0, len(m))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

// claim marks the registry as owned by a scheduler.
func (r *Registry) claim() error {
	if !r.claimed.CompareAndSwap(false, true) {
		return ErrRegistryClaimed
	}
	return nil
}
