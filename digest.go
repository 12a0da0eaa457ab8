package metricsplot

import (
	"math"

	"github.com/influxdata/tdigest"
)

const (
	DefaultDigestCompression = 100.0
	DefaultDigestBacklog     = 10
)

// Quantiles holds the four fixed quantiles recorded for a histogram each cycle.
// A cycle without samples stores NaN in every field.
type Quantiles struct {
	P50 float64
	P90 float64
	P95 float64
	P99 float64
}

// Digest is a single-use streaming quantile sketch backed by a t-digest.
// Samples are buffered up to the backlog size and merged in batches.
// A Digest is not safe for concurrent use.
type Digest struct {
	td      *tdigest.TDigest
	backlog tdigest.CentroidList
	count   int
}

// NewDigest returns an empty digest with the given compression factor and backlog size.
func NewDigest(compression float64, backlog int) *Digest {
	if compression <= 0 {
		compression = DefaultDigestCompression
	}
	if backlog <= 0 {
		backlog = DefaultDigestBacklog
	}
	return &Digest{
		td:      tdigest.NewWithCompression(compression),
		backlog: make(tdigest.CentroidList, 0, backlog),
	}
}

// Insert adds a sample. Non-finite samples are dropped and reported as false.
func (d *Digest) Insert(v float64) bool {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false
	}
	d.backlog = append(d.backlog, tdigest.Centroid{Mean: v, Weight: 1})
	d.count++
	if len(d.backlog) == cap(d.backlog) {
		d.flush()
	}
	return true
}

func (d *Digest) flush() {
	if len(d.backlog) == 0 {
		return
	}
	// AddCentroidList in tdigest v0.0.1 drops input once its unprocessed buffer fills.
	for _, c := range d.backlog {
		d.td.AddCentroid(c)
	}
	d.backlog = d.backlog[:0]
}

// Count returns the number of samples inserted.
func (d *Digest) Count() int { return d.count }

// Quantile returns the approximate value at q. It returns NaN when nothing has
// been inserted or q is outside [0, 1].
func (d *Digest) Quantile(q float64) float64 {
	if d.count == 0 || q < 0 || q > 1 || math.IsNaN(q) {
		return math.NaN()
	}
	d.flush()
	return d.td.Quantile(q)
}

// Quantiles evaluates the digest at p50, p90, p95 and p99.
func (d *Digest) Quantiles() Quantiles {
	return Quantiles{
		P50: d.Quantile(0.5),
		P90: d.Quantile(0.9),
		P95: d.Quantile(0.95),
		P99: d.Quantile(0.99),
	}
}
