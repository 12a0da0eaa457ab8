package metricsplot

import (
	"regexp/syntax"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternGroup_Apply(t *testing.T) {
	g, err := NewPatternGroup("scenario",
		Pattern{Expr: `(?P<scenario>.*)_success`, Kind: Rate},
		Pattern{Expr: `(?P<scenario>.*)_error`, Kind: Line},
	)
	require.NoError(t, err)

	groups := g.Apply([]string{"foo_success", "bar_success", "foo_error", "bar_error", "baz_drror_"})

	assert.ElementsMatch(t, [][]Member{
		{{"foo_success", Rate}, {"foo_error", Line}},
		{{"bar_success", Rate}, {"bar_error", Line}},
	}, groups)
}

func TestPatternGroup_ApplyEdgeCases(t *testing.T) {
	cases := []struct {
		name     string
		patterns []Pattern
		metrics  []string
		want     [][]Member
	}{
		{
			name:     "no_metrics",
			patterns: []Pattern{{Expr: `(?P<t>.*)_x`, Kind: Line}},
			want:     [][]Member{},
		},
		{
			name:     "no_named_capture",
			patterns: []Pattern{{Expr: `(.*)_x`, Kind: Line}, {Expr: `a_x`, Kind: Line}},
			metrics:  []string{"a_x"},
			want:     [][]Member{},
		},
		{
			name: "multiple_matches_not_deduplicated",
			patterns: []Pattern{
				{Expr: `(?P<t>[a-z]+)_`, Kind: Line},
				{Expr: `(?P<t>[a-z]+)_total`, Kind: Rate},
			},
			metrics: []string{"req_total"},
			want:    [][]Member{{{"req_total", Line}, {"req_total", Rate}}},
		},
		{
			name:     "first_named_capture_is_the_key",
			patterns: []Pattern{{Expr: `(x)?(?P<a>[a-z]+)\.(?P<b>[a-z]+)`, Kind: Line}},
			metrics:  []string{"one.two", "one.three"},
			want:     [][]Member{{{"one.two", Line}, {"one.three", Line}}},
		},
		{
			name:     "non_participating_capture_skipped",
			patterns: []Pattern{{Expr: `^(?:(?P<t>a+)|b+)$`, Kind: Line}},
			metrics:  []string{"bbb", "aa"},
			want:     [][]Member{{{"aa", Line}}},
		},
		{
			name:     "unmatched_metric_excluded",
			patterns: []Pattern{{Expr: `(?P<t>.*)_ok`, Kind: Line}},
			metrics:  []string{"x_ok", "y_fail", "x_ok_again"},
			want:     [][]Member{{{"x_ok", Line}, {"x_ok_again", Line}}},
		},
		{
			name:     "go_style_named_group",
			patterns: []Pattern{{Expr: `(?<t>.*)_ok`, Kind: Rate}},
			metrics:  []string{"q_ok"},
			want:     [][]Member{{{"q_ok", Rate}}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := MustPatternGroup(tc.name, tc.patterns...)
			assert.Equal(t, tc.want, g.Apply(tc.metrics))
		})
	}
}

func TestPatternGroup_GroupOrderFollowsDiscovery(t *testing.T) {
	g := MustPatternGroup("g", Pattern{Expr: `(?P<id>[a-z]+)_\d`, Kind: Line})
	got := g.Apply([]string{"b_1", "a_1", "b_2", "a_2"})
	assert.Equal(t, [][]Member{
		{{"b_1", Line}, {"b_2", Line}},
		{{"a_1", Line}, {"a_2", Line}},
	}, got)
}

func TestNewPatternGroup_InvalidPattern(t *testing.T) {
	g, err := NewPatternGroup("broken",
		Pattern{Expr: `(?P<ok>.*)_a`, Kind: Line},
		Pattern{Expr: `(?P<bad>.*`, Kind: Line},
	)
	require.Nil(t, g)
	require.ErrorIs(t, err, ErrInvalidPattern)

	var perr *PatternError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken", perr.Group)
	assert.Equal(t, 1, perr.Index)
	assert.Equal(t, `(?P<bad>.*`, perr.Expr)

	var synErr *syntax.Error
	require.ErrorAs(t, err, &synErr)
	assert.Contains(t, err.Error(), `"(?P<bad>.*": invalid pattern: error parsing regexp`)

	assert.Panics(t, func() { MustPatternGroup("broken", Pattern{Expr: `[`}) })
}

func TestPatternGroup_Uncaptured(t *testing.T) {
	g := MustPatternGroup("g",
		Pattern{Expr: `(?P<t>.*)_a`},
		Pattern{Expr: `plain`},
	)
	assert.Equal(t, 2, g.Len())
	assert.Equal(t, "g", g.Name())
	assert.Equal(t, []string{"plain"}, g.uncaptured())
}

func TestPlotKind_Transform(t *testing.T) {
	cases := []struct {
		name string
		kind PlotKind
		in   []float64
		want []float64
	}{
		{name: "rate", kind: Rate, in: []float64{10, 12, 15}, want: []float64{10, 2, 3}},
		{name: "rate_decreasing", kind: Rate, in: []float64{5, 3}, want: []float64{5, -2}},
		{name: "rate_empty", kind: Rate, in: nil, want: []float64{}},
		{name: "line", kind: Line, in: []float64{10, 12, 15}, want: []float64{10, 12, 15}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Transform(tc.in))
		})
	}
}

func TestParsePlotKind(t *testing.T) {
	k, err := ParsePlotKind(" Rate ")
	require.NoError(t, err)
	assert.Equal(t, Rate, k)

	k, err = ParsePlotKind("line")
	require.NoError(t, err)
	assert.Equal(t, Line, k)

	_, err = ParsePlotKind("bar")
	require.ErrorIs(t, err, ErrUnknownPlotKind)

	assert.Equal(t, "unknown", PlotKind(9).String())
}
