package metricsplot

import (
	"context"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReportHandle is bound to one scheduler's eventual History. The shutdown signal
// can be sent once and the History consumed once.
type ReportHandle struct {
	logger *zap.Logger

	stop     chan struct{}
	done     <-chan *History
	stopped  atomic.Bool
	consumed atomic.Bool
}

// Start creates a Registry, spawns its scheduler and returns both.
func Start(opts ...Option) (*Registry, *ReportHandle) {
	r := NewRegistry(opts...)
	h, err := StartScheduler(r)
	if err != nil {
		// a fresh registry cannot already be claimed
		panic(err)
	}
	return r, h
}

// StartScheduler spawns the scrape scheduler for r. Only one scheduler may ever
// run against a registry; later calls return ErrRegistryClaimed.
func StartScheduler(r *Registry) (*ReportHandle, error) {
	if err := r.claim(); err != nil {
		return nil, err
	}
	stop := make(chan struct{})
	done := make(chan *History, 1)
	go newScheduler(r, stop, done).run()

	return &ReportHandle{
		logger: r.cfg.logger.With(zap.String("component", "report")),
		stop:   stop,
		done:   done,
	}, nil
}

// Stop sends the shutdown signal. The scheduler performs a final scrape that observes
// every update made before Stop was called. A second call returns ErrAlreadyStopped.
func (h *ReportHandle) Stop() error {
	if !h.stopped.CompareAndSwap(false, true) {
		return ErrAlreadyStopped
	}
	close(h.stop)
	return nil
}

// Wait blocks until the scheduler hands over its History. It consumes the handle:
// any later Wait or Finalize returns ErrAlreadyFinalized. Cancelling ctx abandons
// the History.
func (h *ReportHandle) Wait(ctx context.Context) (*History, error) {
	if !h.consumed.CompareAndSwap(false, true) {
		return nil, ErrAlreadyFinalized
	}
	select {
	case hist, ok := <-h.done:
		if !ok || hist == nil {
			h.logger.Error("scheduler did not deliver history")
			return nil, ErrSchedulerFailed
		}
		return hist, nil
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "metrics: waiting for history")
	}
}

// Finalize stops the scheduler if Stop was not called yet, waits for the completed
// History and correlates it with groups. With no groups every metric is reported
// on its own as a Line.
func (h *ReportHandle) Finalize(ctx context.Context, groups ...*PatternGroup) ([]GroupReport, error) {
	if h.consumed.Load() {
		return nil, ErrAlreadyFinalized
	}
	if err := h.Stop(); err != nil && !errors.Is(err, ErrAlreadyStopped) {
		return nil, err
	}
	hist, err := h.Wait(ctx)
	if err != nil {
		return nil, err
	}
	return correlate(hist, groups, h.logger), nil
}
