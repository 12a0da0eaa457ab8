package metricsplot

import (
	"sync/atomic"
)

// CounterCell is a thread-safe monotonic counter.
type CounterCell struct {
	val atomic.Uint64
}

// Increment adds n to the counter.
func (c *CounterCell) Increment(n uint64) { c.val.Add(n) }

// Snapshot returns the current value.
func (c *CounterCell) Snapshot() uint64 { return c.val.Load() }

// GaugeCell is a thread-safe unsigned gauge.
type GaugeCell struct {
	val atomic.Uint64
}

// Set replaces the current value.
func (g *GaugeCell) Set(v uint64) { g.val.Store(v) }

// Increment adds n to the current value.
func (g *GaugeCell) Increment(n uint64) { g.val.Add(n) }

// Decrement subtracts n from the current value, saturating at zero.
func (g *GaugeCell) Decrement(n uint64) {
	for {
		cur := g.val.Load()
		next := uint64(0)
		if cur > n {
			next = cur - n
		}
		if g.val.CompareAndSwap(cur, next) {
			return
		}
	}
}

// Snapshot returns the current value.
func (g *GaugeCell) Snapshot() uint64 { return g.val.Load() }

// HistogramCell buffers samples until the scheduler drains them.
// Recording is lock-free; the buffer is unbounded between drains.
type HistogramCell struct {
	samples sampleBucket
}

// Record appends a sample.
func (h *HistogramCell) Record(v float64) { h.samples.push(v) }

// drain empties the buffer and returns everything recorded since the previous drain,
// oldest first. Only the scheduler owning the registry calls it.
func (h *HistogramCell) drain() []float64 { return h.samples.drain() }
