package metricsplot

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testclock "k8s.io/utils/clock/testing"
)

// harness drives a scheduler with a fake clock and waits for each scrape.
type harness struct {
	t       *testing.T
	clock   *testclock.FakeClock
	reg     *Registry
	handle  *ReportHandle
	scraped chan int
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	fc := testclock.NewFakeClock(time.Unix(1700000000, 0))
	scraped := make(chan int, 64)
	opts = append(opts, WithClock(fc), withScrapeHook(func(cycle int) { scraped <- cycle }))
	reg, handle := Start(opts...)
	require.Eventually(t, fc.HasWaiters, 5*time.Second, time.Millisecond, "scheduler never created its ticker")
	return &harness{t: t, clock: fc, reg: reg, handle: handle, scraped: scraped}
}

// tick advances the clock by one period and waits for the resulting scrape.
func (h *harness) tick() int {
	h.t.Helper()
	h.clock.Step(ScrapeInterval)
	select {
	case cycle := <-h.scraped:
		return cycle
	case <-time.After(5 * time.Second):
		h.t.Fatal("no scrape after tick")
		return 0
	}
}

func (h *harness) finalize() *History {
	h.t.Helper()
	require.NoError(h.t, h.handle.Stop())
	hist, err := h.handle.Wait(context.Background())
	require.NoError(h.t, err)
	return hist
}

func TestScheduler_ScrapesEveryTick(t *testing.T) {
	h := newHarness(t)
	c := h.reg.Counter(NewKey("requests"))
	g := h.reg.Gauge(NewKey("inflight"))

	c.Increment(1)
	g.Set(4)
	require.Equal(t, 1, h.tick())

	c.Increment(2)
	g.Decrement(1)
	require.Equal(t, 2, h.tick())

	hist := h.finalize()
	assert.Equal(t, []float64{1, 2, 2}, hist.Timestamps())

	s, ok := hist.Series("requests")
	require.True(t, ok)
	assert.Equal(t, []uint64{1, 3, 3}, s.Values)

	s, ok = hist.Series("inflight")
	require.True(t, ok)
	assert.Equal(t, []uint64{4, 3, 3}, s.Values)
}

func TestScheduler_HistogramDrainedEveryCycle(t *testing.T) {
	h := newHarness(t)
	hg := h.reg.Histogram(NewKey("latency"))

	for i := 1; i <= 100; i++ {
		hg.Record(float64(i))
	}
	h.tick()
	h.tick() // nothing recorded in between
	hg.Record(7)

	hist := h.finalize()
	s, ok := hist.Series("latency")
	require.True(t, ok)
	require.Len(t, s.Quantiles, 3)

	assert.InDelta(t, 50, s.Quantiles[0].P50, 2)
	assert.InDelta(t, 99, s.Quantiles[0].P99, 2)
	assert.True(t, math.IsNaN(s.Quantiles[1].P50), "empty cycle reports NaN")
	assert.Equal(t, Quantiles{P50: 7, P90: 7, P95: 7, P99: 7}, s.Quantiles[2])
}

func TestScheduler_LateRegistrationIsSuffixAligned(t *testing.T) {
	h := newHarness(t)
	h.reg.Counter(NewKey("early")).Increment(1)
	for i := 0; i < 3; i++ {
		h.tick()
	}
	h.reg.Counter(NewKey("late")).Increment(1)
	h.tick()
	h.tick()

	hist := h.finalize()
	total := hist.Cycles()
	require.Equal(t, 6, total)

	early, ok := hist.Series("early")
	require.True(t, ok)
	assert.Equal(t, total, early.Len())

	late, ok := hist.Series("late")
	require.True(t, ok)
	assert.Equal(t, total-3, late.Len())
	assert.Equal(t, []float64{4, 5, 5}, hist.AlignedTimestamps(late.Len()))
}

func TestScheduler_FinalScrapeSeesUpdatesBeforeStop(t *testing.T) {
	h := newHarness(t)
	c := h.reg.Counter(NewKey("c"))
	hg := h.reg.Histogram(NewKey("h"))
	h.tick()

	c.Increment(41)
	c.Increment(1)
	hg.Record(3)

	hist := h.finalize()
	s, _ := hist.Series("c")
	assert.Equal(t, uint64(42), s.Values[len(s.Values)-1])
	hs, _ := hist.Series("h")
	assert.Equal(t, 3.0, hs.Quantiles[len(hs.Quantiles)-1].P50)

	// no scrape after the final one
	h.clock.Step(10 * ScrapeInterval)
	select {
	case cycle := <-h.scraped:
		if cycle > hist.Cycles() {
			t.Fatalf("scrape %d after shutdown", cycle)
		}
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, 2, hist.Cycles())
}

func TestScheduler_DigestOptions(t *testing.T) {
	h := newHarness(t, WithDigestCompression(20), WithDigestBacklog(3))
	require.Equal(t, 20.0, h.reg.cfg.compression)
	require.Equal(t, 3, h.reg.cfg.backlog)

	hg := h.reg.Histogram(NewKey("h"))
	for i := 0; i < 1000; i++ {
		hg.Record(float64(i))
	}
	hist := h.finalize()
	s, _ := hist.Series("h")
	assert.InDelta(t, 500, s.Quantiles[0].P50, 50)
}
