package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/YuminosukeSato/gradreg/linear"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
)

// Metric is an extra named value printed after the run summary.
type Metric struct {
	Name  string
	Value float64
}

// Summary writes a plain-text description of res: iteration count, learning
// rate, first and last cost, theta, and any extra metrics.
func Summary(w io.Writer, res *linear.Result, metrics ...Metric) error {
	if res == nil || res.Theta == nil {
		return errors.NewValueError("report.Summary", "result must not be nil")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "iterations\t%d\n", res.Iterations())
	fmt.Fprintf(tw, "alpha\t%g\n", res.Alpha)
	if n := res.Iterations(); n > 0 {
		fmt.Fprintf(tw, "initial cost\t%s\n", formatFloat(res.CostHistory[0]))
		fmt.Fprintf(tw, "final cost\t%s\n", formatFloat(res.FinalCost()))
	}
	for i := 0; i < res.Theta.Len(); i++ {
		fmt.Fprintf(tw, "theta[%d]\t%s\n", i, formatFloat(res.Theta.AtVec(i)))
	}
	for _, m := range metrics {
		fmt.Fprintf(tw, "%s\t%s\n", m.Name, formatFloat(m.Value))
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "report.Summary")
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 8, 64)
}
