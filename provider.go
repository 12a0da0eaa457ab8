package metricsplot

// Provider hands out live update handles for metric keys.
// Implementations must be safe for concurrent use: registering the same key
// from many goroutines yields handles to the same underlying cell.
type Provider interface {
	Counter(key Key, opts ...InstrumentOption) Counter
	Gauge(key Key, opts ...InstrumentOption) Gauge
	Histogram(key Key, opts ...InstrumentOption) Histogram
}

type InstrumentType string

const (
	InstrumentTypeCounter   InstrumentType = "counter"
	InstrumentTypeGauge     InstrumentType = "gauge"
	InstrumentTypeHistogram InstrumentType = "histogram"
)

func (t InstrumentType) String() string { return string(t) }

// Counter records a monotonically increasing count.
// Methods must be safe for concurrent use and never block.
type Counter interface {
	Increment(n uint64)
}

// Gauge records a last-write-wins value.
// Methods must be safe for concurrent use and never block.
type Gauge interface {
	Set(v uint64)
	Increment(n uint64)
	Decrement(n uint64)
}

// Histogram records samples that are summarized into quantiles once per scrape cycle.
// Methods must be safe for concurrent use and never block.
type Histogram interface {
	Record(v float64)
}

// InstrumentConfig carries optional instrument metadata. It's advisory only.
type InstrumentConfig struct {
	Description string
	Unit        string
}

// InstrumentOption mutates InstrumentConfig.
type InstrumentOption func(*InstrumentConfig)

// WithDescription sets an advisory description for the instrument.
func WithDescription(desc string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Description = desc }
}

// WithUnit sets an advisory unit for the instrument (e.g., "1", "seconds").
func WithUnit(unit string) InstrumentOption {
	return func(c *InstrumentConfig) { c.Unit = unit }
}

// applyOptions builds InstrumentConfig from options.
func applyOptions(opts []InstrumentOption) InstrumentConfig {
	var cfg InstrumentConfig
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}
	return cfg
}
