package metricsplot

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrSchedulerFailed is returned by Finalize when the scheduler terminated
	// without handing over its history.
	ErrSchedulerFailed = errors.New("metrics: scheduler terminated without delivering history")

	// ErrAlreadyStopped is returned when the shutdown signal is sent twice.
	ErrAlreadyStopped = errors.New("metrics: shutdown already signaled")

	// ErrAlreadyFinalized is returned when a report handle is consumed twice.
	ErrAlreadyFinalized = errors.New("metrics: report already finalized")

	// ErrRegistryClaimed is returned when a second scheduler is started on a registry.
	ErrRegistryClaimed = errors.New("metrics: registry already has a scheduler")

	// ErrRecorderInstalled is returned by Install when a global registry is already set.
	ErrRecorderInstalled = errors.New("metrics: global recorder already installed")

	// ErrInvalidPattern indicates a pattern that failed to compile.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrUnknownPlotKind indicates an unrecognized display kind name.
	ErrUnknownPlotKind = errors.New("unknown plot kind")
)

// PatternError reports a pattern that could not be added to a PatternGroup.
// It matches ErrInvalidPattern and unwraps to the compile error.
type PatternError struct {
	Group string // group name
	Index int    // position of the pattern in the group
	Expr  string // offending expression
	Err   error  // compile error
}

func (e *PatternError) Error() string {
	if e.Group != "" {
		return fmt.Sprintf("metrics: group %q pattern #%d %q: %v: %v", e.Group, e.Index, e.Expr, ErrInvalidPattern, e.Err)
	}
	return fmt.Sprintf("metrics: pattern #%d %q: %v: %v", e.Index, e.Expr, ErrInvalidPattern, e.Err)
}

func (e *PatternError) Is(target error) bool { return target == ErrInvalidPattern }

func (e *PatternError) Unwrap() error { return e.Err }
