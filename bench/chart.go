package bench

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/charts"
	"github.com/pingcap/errors"
)

// RenderChart writes an HTML line chart of the cumulative time of every series in res.
func RenderChart(w io.Writer, res *Result) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.TitleOpts{
			Title:    "B-Tree Operations Benchmark",
			Subtitle: fmt.Sprintf("degree %d, %d operations, seed %d", res.Degree, res.Operations, res.Seed),
		},
		charts.TooltipOpts{Show: true},
		charts.ToolboxOpts{Show: true},
		charts.XAxisOpts{Name: "Number of Operations"},
		charts.YAxisOpts{Name: "Cumulative Time (seconds)"},
	)

	xAxis := make([]int, res.Operations)
	for i := range xAxis {
		xAxis[i] = i + 1
	}
	line.AddXAxis(xAxis)
	for _, s := range res.Series {
		seconds := make([]float64, len(s.Cumulative))
		for i, d := range s.Cumulative {
			seconds[i] = d.Seconds()
		}
		line.AddYAxis(s.Name(), seconds)
	}
	return errors.WithStack(line.Render(w))
}
