package report

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

const (
	// DefaultTitle is the plot and chart title.
	DefaultTitle = "Iterations vs Cost"
	// XLabel and YLabel name the axes.
	XLabel = "Number of iterations"
	YLabel = "J(theta)"
)

// PlotOptions controls the static cost plot.
type PlotOptions struct {
	Title  string
	Width  vg.Length
	Height vg.Length
	// LogScale draws the cost axis logarithmically. Non-positive costs are
	// then left out.
	LogScale bool
}

// DefaultPlotOptions returns a 6x4 inch plot with the default title.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Title: DefaultTitle, Width: 6 * vg.Inch, Height: 4 * vg.Inch}
}

func (o PlotOptions) withDefaults() PlotOptions {
	d := DefaultPlotOptions()
	if o.Title == "" {
		o.Title = d.Title
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

// costPoints converts history into (iteration, cost) points, 1-based, left
// out values that cannot be drawn.
func costPoints(history []float64, logScale bool) plotter.XYs {
	pts := make(plotter.XYs, 0, len(history))
	for i, c := range history {
		if !errors.IsFinite(c) || (logScale && c <= 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: float64(i + 1), Y: c})
	}
	return pts
}

// NewCostPlot builds the cost-vs-iteration line plot.
func NewCostPlot(history []float64, o PlotOptions) (*plot.Plot, error) {
	o = o.withDefaults()
	pts := costPoints(history, o.LogScale)
	if len(pts) == 0 {
		return nil, errors.NewValueError("report.NewCostPlot", "cost history has no drawable values")
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = XLabel
	p.Y.Label.Text = YLabel
	if o.LogScale {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "report.NewCostPlot")
	}
	p.Add(line)
	return p, nil
}

// PlotCostPNG writes the cost plot to w as PNG.
func PlotCostPNG(w io.Writer, history []float64, o PlotOptions) error {
	o = o.withDefaults()
	p, err := NewCostPlot(history, o)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(o.Width, o.Height, "png")
	if err != nil {
		return errors.Wrap(err, "report.PlotCostPNG")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "report.PlotCostPNG")
	}
	return nil
}

// SavePlot writes the cost plot to path; the format (png, svg, pdf, ...)
// follows the file extension.
func SavePlot(path string, history []float64, o PlotOptions) error {
	o = o.withDefaults()
	p, err := NewCostPlot(history, o)
	if err != nil {
		return err
	}
	if err := p.Save(o.Width, o.Height, path); err != nil {
		return errors.Wrapf(err, "report.SavePlot %s", path)
	}
	return nil
}
