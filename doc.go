/*
Package metricsplot collects in-process metrics into a time-indexed history and,
on shutdown, groups correlated series for a downstream renderer.

# Overview

Instrumented code registers counters, gauges and histograms by Key (a name plus an
unordered label set) on a Registry, which implements Provider:

	type Provider interface {
	  Counter(key Key, opts ...InstrumentOption) Counter
	  Gauge(key Key, opts ...InstrumentOption) Gauge
	  Histogram(key Key, opts ...InstrumentOption) Histogram
	}

Registration is a lookup-or-insert under one mutex; the returned handle is a cell
updated with atomics, so the lock is never held across an update and handles can be
cached. A key registered once always maps to the same cell.

A scheduler goroutine wakes every ScrapeInterval and appends one row to a History:
counter and gauge values are read, histogram buffers are drained into a fresh t-digest
and summarized as p50/p90/p95/p99. Digests are not carried across cycles.

Stopping the scheduler through the ReportHandle triggers one last scrape, so updates
made before the stop are never lost, and hands the History over exactly once.

# Correlation

A PatternGroup holds regular expressions sharing a named capture group. Metrics whose
names yield the same captured text form one row:

	g := metricsplot.MustPatternGroup("transactions",
	    metricsplot.Pattern{Expr: `(?P<tx>.*)_success`, Kind: metricsplot.Rate},
	    metricsplot.Pattern{Expr: `(?P<tx>.*)_error`, Kind: metricsplot.Line},
	)

foo_success and foo_error end up in one row, bar_success and bar_error in another.
Rate shows first differences, Line raw values.

# Example

	reg, handle := metricsplot.Start(metricsplot.WithLogger(logger))
	requests := reg.Counter(metricsplot.NewKey("requests", metricsplot.Label{Key: "method", Value: "GET"}))
	requests.Increment(1)

	reports, err := handle.Finalize(ctx, g)
	if err != nil {
	    // metricsplot.ErrSchedulerFailed, metricsplot.ErrAlreadyFinalized, ...
	}
	_ = reports

# Notes

- Quantiles of a cycle without samples are NaN.
- Non-finite histogram samples are dropped.
- Gauge decrements saturate at zero.
- In debug and race builds (build tags) internal invariant violations panic;
otherwise they are logged.
*/
package metricsplot
