package metricsplot

type noopProvider struct{}

// NewNoopProvider returns a Provider whose instruments discard every update.
func NewNoopProvider() Provider { return noopProvider{} }

func (noopProvider) Counter(Key, ...InstrumentOption) Counter     { return noopCounter{} }
func (noopProvider) Gauge(Key, ...InstrumentOption) Gauge         { return noopGauge{} }
func (noopProvider) Histogram(Key, ...InstrumentOption) Histogram { return noopHistogram{} }

type noopCounter struct{}

func (noopCounter) Increment(uint64) {}

type noopGauge struct{}

func (noopGauge) Set(uint64)       {}
func (noopGauge) Increment(uint64) {}
func (noopGauge) Decrement(uint64) {}

type noopHistogram struct{}

func (noopHistogram) Record(float64) {}
