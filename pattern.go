package metricsplot

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// PlotKind selects how a series is transformed before display.
type PlotKind int

const (
	// Line plots raw values.
	Line PlotKind = iota
	// Rate plots first differences; the first point is the first raw value.
	Rate
)

func (k PlotKind) String() string {
	switch k {
	case Line:
		return "line"
	case Rate:
		return "rate"
	default:
		return "unknown"
	}
}

// ParsePlotKind parses "line" or "rate", case-insensitively.
func ParsePlotKind(s string) (PlotKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "line":
		return Line, nil
	case "rate":
		return Rate, nil
	}
	return Line, errors.Wrapf(ErrUnknownPlotKind, "%q", s)
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *PlotKind) UnmarshalYAML(value *yaml.Node) error {
	kind, err := ParsePlotKind(value.Value)
	if err != nil {
		return errors.Wrapf(err, "line %d", value.Line)
	}
	*k = kind
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (k PlotKind) MarshalYAML() (interface{}, error) { return k.String(), nil }

// Transform applies the kind to a value sequence. Line returns a copy; Rate returns
// the first value followed by the difference of each value from its predecessor.
func (k PlotKind) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	if k != Rate {
		copy(out, values)
		return out
	}
	for i, v := range values {
		if i == 0 {
			out[i] = v
			continue
		}
		out[i] = v - values[i-1]
	}
	return out
}

// Pattern is an uncompiled regular expression with the kind its matches are shown as.
// The expression must contain a named capture group; the text it captures is the
// correlation key.
type Pattern struct {
	Expr string
	Kind PlotKind
}

type compiledPattern struct {
	re      *regexp.Regexp
	kind    PlotKind
	capture int // subexpression index of the first named group, -1 if none
}

// PatternGroup correlates differently named metrics that share a captured identifier,
// e.g. foo_success and foo_error. It is immutable once built.
type PatternGroup struct {
	name     string
	patterns []compiledPattern
}

// Member is one metric assigned to a correlated group.
type Member struct {
	Name string
	Kind PlotKind
}

// NewPatternGroup compiles every pattern up front. The first invalid expression is
// returned as a *PatternError matching ErrInvalidPattern.
func NewPatternGroup(name string, patterns ...Pattern) (*PatternGroup, error) {
	g := &PatternGroup{name: name, patterns: make([]compiledPattern, 0, len(patterns))}
	for i, p := range patterns {
		re, err := regexp.Compile(p.Expr)
		if err != nil {
			return nil, &PatternError{Group: name, Index: i, Expr: p.Expr, Err: err}
		}
		g.patterns = append(g.patterns, compiledPattern{re: re, kind: p.Kind, capture: firstNamedGroup(re)})
	}
	return g, nil
}

// MustPatternGroup is like NewPatternGroup but panics on an invalid pattern.
func MustPatternGroup(name string, patterns ...Pattern) *PatternGroup {
	g, err := NewPatternGroup(name, patterns...)
	if err != nil {
		panic(err)
	}
	return g
}

func firstNamedGroup(re *regexp.Regexp) int {
	for i, n := range re.SubexpNames() {
		if i > 0 && n != "" {
			return i
		}
	}
	return -1
}

// Name returns the group name.
func (g *PatternGroup) Name() string { return g.name }

// Len returns the number of patterns.
func (g *PatternGroup) Len() int { return len(g.patterns) }

// uncaptured returns the expressions that have no named capture group and therefore
// never contribute members.
func (g *PatternGroup) uncaptured() []string {
	var out []string
	for _, p := range g.patterns {
		if p.capture < 0 {
			out = append(out, p.re.String())
		}
	}
	return out
}

// Apply groups names by the value captured by each matching pattern. Every name is
// tested against every pattern in order; a name matching several patterns joins
// several groups. Groups come back in the order their key was first captured and
// members in the order they were found. Only the first named capture is used.
func (g *PatternGroup) Apply(names []string) [][]Member {
	var (
		order  []string
		groups = make(map[string][]Member)
	)
	for _, name := range names {
		for _, p := range g.patterns {
			if p.capture < 0 {
				continue
			}
			loc := p.re.FindStringSubmatchIndex(name)
			if loc == nil || loc[2*p.capture] < 0 {
				continue
			}
			key := name[loc[2*p.capture]:loc[2*p.capture+1]]
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], Member{Name: name, Kind: p.kind})
		}
	}

	out := make([][]Member, 0, len(order))
	for _, key := range order {
		out = append(out, groups[key])
	}
	return out
}
