package metricsplot

import (
	"context"
	"io"
	"strconv"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Renderer turns a correlated group into a visualization. Implementations live
// outside this package; Render may be called concurrently for different groups.
type Renderer interface {
	Render(ctx context.Context, report GroupReport) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, report GroupReport) error

func (f RendererFunc) Render(ctx context.Context, report GroupReport) error { return f(ctx, report) }

// Plot finalizes the handle and renders every non-empty group report.
// Render errors from all groups are collected into a *multierror.Error.
func (h *ReportHandle) Plot(ctx context.Context, r Renderer, groups ...*PatternGroup) error {
	reports, err := h.Finalize(ctx, groups...)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		merr *multierror.Error
	)
	p := pool.New().WithContext(ctx)
	for _, report := range reports {
		if len(report.Rows) == 0 {
			h.logger.Debug("skipping empty group", zap.String("group", report.Name))
			continue
		}
		report := report
		p.Go(func(ctx context.Context) error {
			if err := r.Render(ctx, report); err != nil {
				mu.Lock()
				merr = multierror.Append(merr, errors.Wrapf(err, "render group %q", report.Name))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = p.Wait()
	return merr.ErrorOrNil()
}

// TableRenderer writes each group as a text table, one line per trace.
type TableRenderer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTableRenderer returns a Renderer writing to w.
func NewTableRenderer(w io.Writer) *TableRenderer {
	return &TableRenderer{w: w}
}

// Render implements Renderer.
func (t *TableRenderer) Render(_ context.Context, report GroupReport) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	table := tablewriter.NewWriter(t.w)
	table.SetHeader([]string{"row", "metric", "type", "kind", "points", "last"})
	table.SetAutoFormatHeaders(false)
	if report.Name != "" {
		table.SetCaption(true, report.Name)
	}
	for i, row := range report.Rows {
		for _, tr := range row {
			table.Append([]string{
				strconv.Itoa(i),
				tr.Name,
				tr.Type.String(),
				tr.Kind.String(),
				strconv.Itoa(len(tr.Timestamps)),
				strconv.FormatFloat(tr.Last(), 'g', 6, 64),
			})
		}
	}
	table.Render()
	return nil
}
