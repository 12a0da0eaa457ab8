package metricsplot

import (
	"time"

	"go.uber.org/zap"
)

// Series is the recorded history of one metric. Counters and gauges fill Values,
// histograms fill Quantiles. Its length may be shorter than the history's timestamps
// when the metric was registered after scraping began; it then lines up with the
// last Len() timestamps.
type Series struct {
	Key       Key
	Type      InstrumentType
	Values    []uint64
	Quantiles []Quantiles
}

// Len returns the number of cycles the metric was observed in.
func (s *Series) Len() int {
	if s.Type == InstrumentTypeHistogram {
		return len(s.Quantiles)
	}
	return len(s.Values)
}

type seriesKey struct {
	typ InstrumentType
	id  string
}

// History accumulates one row per scrape cycle. It is owned by the scheduler
// goroutine until handed over on shutdown; it is not safe for concurrent use.
type History struct {
	logger     *zap.Logger
	timestamps []float64
	series     map[seriesKey]*Series
	names      []string             // display names in first-seen order
	byName     map[string][]*Series // every series sharing a display name, first-seen order
}

func newHistory(logger *zap.Logger) *History {
	return &History{
		logger: logger,
		series: make(map[seriesKey]*Series),
		byName: make(map[string][]*Series),
	}
}

// logTime opens a new cycle at the given elapsed time.
func (h *History) logTime(elapsed time.Duration) {
	h.timestamps = append(h.timestamps, elapsed.Seconds())
}

func (h *History) get(typ InstrumentType, key Key) *Series {
	sk := seriesKey{typ: typ, id: key.identity()}
	s, ok := h.series[sk]
	if !ok {
		s = &Series{Key: key, Type: typ}
		h.series[sk] = s
		name := key.String()
		if _, dup := h.byName[name]; !dup {
			h.names = append(h.names, name)
		}
		h.byName[name] = append(h.byName[name], s)
	}
	if s.Len() >= len(h.timestamps) {
		reportInvariantViolation(h.logger, "series_longer_than_timestamps", key)
	}
	return s
}

func (h *History) pushValue(typ InstrumentType, key Key, v uint64) {
	s := h.get(typ, key)
	s.Values = append(s.Values, v)
}

func (h *History) pushQuantiles(key Key, q Quantiles) {
	s := h.get(InstrumentTypeHistogram, key)
	s.Quantiles = append(s.Quantiles, q)
}

// Cycles returns the number of completed scrape cycles.
func (h *History) Cycles() int { return len(h.timestamps) }

// Timestamps returns a copy of the cycle timestamps in seconds since the scheduler started.
func (h *History) Timestamps() []float64 {
	out := make([]float64, len(h.timestamps))
	copy(out, h.timestamps)
	return out
}

// AlignedTimestamps returns the last n timestamps, the x axis of a series of length n.
func (h *History) AlignedTimestamps(n int) []float64 {
	if n > len(h.timestamps) {
		n = len(h.timestamps)
	}
	if n < 0 {
		n = 0
	}
	out := make([]float64, n)
	copy(out, h.timestamps[len(h.timestamps)-n:])
	return out
}

// Names returns the display names of every recorded metric in first-seen order.
func (h *History) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Series looks up a metric by display name. When several series share a name,
// the counter wins, then the gauge, then the first histogram seen; use SeriesNamed
// to get all of them.
func (h *History) Series(name string) (*Series, bool) {
	all := h.byName[name]
	for _, typ := range []InstrumentType{InstrumentTypeCounter, InstrumentTypeGauge, InstrumentTypeHistogram} {
		for _, s := range all {
			if s.Type == typ {
				return s, true
			}
		}
	}
	return nil, false
}

// SeriesNamed returns every series displayed under name in first-seen order.
func (h *History) SeriesNamed(name string) []*Series {
	all := h.byName[name]
	if len(all) == 0 {
		return nil
	}
	out := make([]*Series, len(all))
	copy(out, all)
	return out
}

// SeriesOf looks up a metric by type and key.
func (h *History) SeriesOf(typ InstrumentType, key Key) (*Series, bool) {
	s, ok := h.series[seriesKey{typ: typ, id: key.identity()}]
	return s, ok
}
