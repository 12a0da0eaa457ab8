package metricsplot

import "sync/atomic"

var global atomic.Pointer[Registry]

// Install starts a Registry and its scheduler and makes the registry the process-wide
// provider used by NewCounter, NewGauge and NewHistogram. It can succeed only once;
// later calls return ErrRecorderInstalled.
func Install(opts ...Option) (*ReportHandle, error) {
	r := NewRegistry(opts...)
	if !global.CompareAndSwap(nil, r) {
		return nil, ErrRecorderInstalled
	}
	return StartScheduler(r)
}

// Global returns the installed provider, or a no-op provider before Install.
func Global() Provider {
	if r := global.Load(); r != nil {
		return r
	}
	return NewNoopProvider()
}

// NewCounter registers a counter on the global provider.
func NewCounter(name string, labels ...Label) Counter {
	return Global().Counter(NewKey(name, labels...))
}

// NewGauge registers a gauge on the global provider.
func NewGauge(name string, labels ...Label) Gauge {
	return Global().Gauge(NewKey(name, labels...))
}

// NewHistogram registers a histogram on the global provider.
func NewHistogram(name string, labels ...Label) Histogram {
	return Global().Histogram(NewKey(name, labels...))
}
