package report

import (
	"io"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// CostChart builds an interactive echarts line chart of history. Non-finite
// costs are skipped together with their iteration label.
func CostChart(history []float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: DefaultTitle,
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Name: XLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: YLabel}),
	)

	iters := make([]int, 0, len(history))
	data := make([]opts.LineData, 0, len(history))
	for i, c := range history {
		if !errors.IsFinite(c) {
			continue
		}
		iters = append(iters, i+1)
		data = append(data, opts.LineData{Value: c})
	}

	line.SetXAxis(iters).
		AddSeries("J(theta)", data)
	return line
}

// RenderHTML writes a self-contained HTML page with the cost chart to w.
func RenderHTML(w io.Writer, history []float64) error {
	page := components.NewPage()
	page.PageTitle = "gradreg"
	page.AddCharts(CostChart(history))
	if err := page.Render(w); err != nil {
		return errors.Wrap(err, "report.RenderHTML")
	}
	return nil
}

// SaveHTML is RenderHTML into the file at path.
func SaveHTML(path string, history []float64) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "report.SaveHTML %s", path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "report.SaveHTML %s", path)
		}
	}()
	return RenderHTML(file, history)
}
