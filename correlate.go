package metricsplot

import (
	"math"

	"go.uber.org/zap"
)

// QuantileSeries holds one value sequence per reported quantile.
type QuantileSeries struct {
	P50 []float64
	P90 []float64
	P95 []float64
	P99 []float64
}

// Trace is one displayable series: a metric, the kind it is shown as and its
// values aligned to Timestamps. Counters and gauges fill Values (already
// transformed by Kind); histograms fill Quantiles with raw values.
type Trace struct {
	Name       string
	Kind       PlotKind
	Type       InstrumentType
	Timestamps []float64
	Values     []float64
	Quantiles  *QuantileSeries
}

// GroupReport is the correlated output of one PatternGroup: one row per captured
// identifier, one trace per member.
type GroupReport struct {
	Name string
	Rows [][]Trace
}

// Columns is the member count of the first row, used as the grid width.
func (r GroupReport) Columns() int {
	if len(r.Rows) == 0 {
		return 0
	}
	return len(r.Rows[0])
}

// Correlate builds one GroupReport per group from a completed History.
// With no groups every metric is reported on its own as a Line. A matched name
// contributes one trace for every series displayed under it, so a counter and a
// histogram sharing a name both appear.
func Correlate(h *History, groups ...*PatternGroup) []GroupReport {
	return correlate(h, groups, zap.NewNop())
}

func correlate(h *History, groups []*PatternGroup, logger *zap.Logger) []GroupReport {
	names := h.Names()
	if len(groups) == 0 {
		rows := make([][]Trace, 0, len(names))
		for _, name := range names {
			for _, tr := range buildTraces(h, Member{Name: name, Kind: Line}) {
				rows = append(rows, []Trace{tr})
			}
		}
		return []GroupReport{{Rows: rows}}
	}

	out := make([]GroupReport, 0, len(groups))
	for _, g := range groups {
		if g == nil {
			continue
		}
		if exprs := g.uncaptured(); len(exprs) > 0 {
			logger.Warn("patterns without a named capture never match",
				zap.String("group", g.Name()), zap.Strings("patterns", exprs))
		}
		report := GroupReport{Name: g.Name()}
		for _, members := range g.Apply(names) {
			row := make([]Trace, 0, len(members))
			for _, m := range members {
				row = append(row, buildTraces(h, m)...)
			}
			report.Rows = append(report.Rows, row)
		}
		out = append(out, report)
	}
	return out
}

func buildTraces(h *History, m Member) []Trace {
	all := h.SeriesNamed(m.Name)
	out := make([]Trace, 0, len(all))
	for _, s := range all {
		out = append(out, buildTrace(h, s, m))
	}
	return out
}

func buildTrace(h *History, s *Series, m Member) Trace {
	tr := Trace{
		Name:       m.Name,
		Kind:       m.Kind,
		Type:       s.Type,
		Timestamps: h.AlignedTimestamps(s.Len()),
	}
	if s.Type == InstrumentTypeHistogram {
		qs := &QuantileSeries{
			P50: make([]float64, len(s.Quantiles)),
			P90: make([]float64, len(s.Quantiles)),
			P95: make([]float64, len(s.Quantiles)),
			P99: make([]float64, len(s.Quantiles)),
		}
		for i, q := range s.Quantiles {
			qs.P50[i], qs.P90[i], qs.P95[i], qs.P99[i] = q.P50, q.P90, q.P95, q.P99
		}
		tr.Quantiles = qs
		return tr
	}

	raw := make([]float64, len(s.Values))
	for i, v := range s.Values {
		raw[i] = float64(v)
	}
	tr.Values = m.Kind.Transform(raw)
	return tr
}

// Last returns the final value of a trace, or NaN when it is empty.
func (t Trace) Last() float64 {
	switch {
	case t.Quantiles != nil && len(t.Quantiles.P50) > 0:
		return t.Quantiles.P50[len(t.Quantiles.P50)-1]
	case len(t.Values) > 0:
		return t.Values[len(t.Values)-1]
	}
	return math.NaN()
}
