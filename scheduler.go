package metricsplot

import (
	"time"

	"go.uber.org/zap"
	"k8s.io/utils/clock"
)

// ScrapeInterval is the fixed period between scrape cycles.
const ScrapeInterval = time.Second

// scheduler periodically copies registry values into a History. It runs until the
// stop channel is closed, scrapes one final time and hands the History over on done.
type scheduler struct {
	registry *Registry
	history  *History
	clock    clock.WithTicker
	logger   *zap.Logger
	start    time.Time

	compression float64
	backlog     int
	onScrape    func(cycle int)

	stop <-chan struct{}
	done chan<- *History
}

func newScheduler(r *Registry, stop <-chan struct{}, done chan<- *History) *scheduler {
	cfg := r.cfg
	logger := cfg.logger.With(zap.String("component", "scheduler"))
	return &scheduler{
		registry:    r,
		history:     newHistory(logger),
		clock:       cfg.clock,
		logger:      logger,
		start:       cfg.clock.Now(),
		compression: cfg.compression,
		backlog:     cfg.backlog,
		onScrape:    cfg.onScrape,
		stop:        stop,
		done:        done,
	}
}

// run is the scheduler goroutine. If it panics, done is closed without a value.
func (s *scheduler) run() {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduler terminated abnormally", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	ticker := s.clock.NewTicker(ScrapeInterval)
	defer ticker.Stop()

	s.logger.Debug("scheduler started", zap.Duration("interval", ScrapeInterval))
	for {
		select {
		case <-ticker.C():
			s.scrape()
		case <-s.stop:
			s.scrape()
			s.logger.Debug("final scrape done", zap.Int("cycles", s.history.Cycles()))
			s.done <- s.history
			return
		}
	}
}

// scrape appends one row: counters and gauges are read, histograms are drained
// into a fresh digest and summarized.
func (s *scheduler) scrape() {
	s.history.logTime(s.clock.Since(s.start))
	snap := s.registry.snapshot()

	for _, c := range snap.counters {
		s.history.pushValue(InstrumentTypeCounter, c.key, c.cell.Snapshot())
	}
	for _, g := range snap.gauges {
		s.history.pushValue(InstrumentTypeGauge, g.key, g.cell.Snapshot())
	}
	for _, h := range snap.histograms {
		d := NewDigest(s.compression, s.backlog)
		dropped := 0
		for _, v := range h.cell.drain() {
			if !d.Insert(v) {
				dropped++
			}
		}
		if dropped > 0 {
			s.logger.Debug("dropped non-finite samples", zap.Stringer("key", h.key), zap.Int("count", dropped))
		}
		s.history.pushQuantiles(h.key, d.Quantiles())
	}

	if s.onScrape != nil {
		s.onScrape(s.history.Cycles())
	}
}
