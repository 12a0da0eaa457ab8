package metricsplot

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// invariantReports limits how often a single kind of violation is logged.
var invariantReports sync.Map // map[string]*atomic.Int32

// reportInvariantViolation reports unexpected internal states such as
// "series longer than timestamps". In release builds it logs up to 10 times per kind;
// in debug builds (or under race detector) it panics to catch bugs early.
func reportInvariantViolation(logger *zap.Logger, kind string, key Key) {
	const maxReports = 10

	v, _ := invariantReports.LoadOrStore(kind, &atomic.Int32{})
	if v.(*atomic.Int32).Add(1) > maxReports {
		return
	}

	msg := "[metrics] invariant violation: " + kind + " for " + key.String()
	if isDebugBuild() {
		panic(msg)
	}
	logger.Warn("invariant violation", zap.String("kind", kind), zap.Stringer("key", key))
}

// isDebugBuild reports whether we're in a "debug" or "race" build.
func isDebugBuild() bool {
	return raceBuild || debugBuild
}
