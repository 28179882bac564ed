package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

var ErrNothingToPlot = errors.New("nothing to plot")

// CoverageChart draws covered objectives and coverage over the iterations of
// one run.
func CoverageChart(history []framework.SearchProgress) (*charts.Line, error) {
	if len(history) == 0 {
		return nil, ErrNothingToPlot
	}
	first := history[0]

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("%s coverage for %s", first.Algorithm, first.Subject),
			Subtitle: "run " + first.RunID,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "iteration",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "objectives",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	iterations := make([]string, len(history))
	covered := make([]opts.LineData, len(history))
	total := make([]opts.LineData, len(history))
	current := make([]opts.LineData, len(history))
	for i, p := range history {
		iterations[i] = strconv.Itoa(p.Iteration)
		covered[i] = opts.LineData{Value: p.CoveredObjectives}
		total[i] = opts.LineData{Value: p.TotalObjectives}
		current[i] = opts.LineData{Value: p.CurrentObjectives}
	}

	line.SetXAxis(iterations).
		AddSeries("Covered", covered).
		AddSeries("Current", current).
		AddSeries("Total", total).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{
				Show: opts.Bool(false),
			}),
		)
	return line, nil
}

// ObjectiveSpaceChart scatters a population over two objectives.
func ObjectiveSpaceChart(points []framework.ObjectiveSpacePoint, xName, yName, title string) (*charts.Scatter, error) {
	if len(points) == 0 {
		return nil, ErrNothingToPlot
	}
	if len(points[0]) != 2 {
		return nil, fmt.Errorf("can only plot 2D objective spaces, got %d objectives", len(points[0]))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: xName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: yName,
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	data := make([]opts.ScatterData, len(points))
	for i, p := range points {
		data[i] = opts.ScatterData{
			Value:      []float64{p[0], p[1]},
			Symbol:     "triangle",
			SymbolSize: 8,
		}
	}
	scatter.AddSeries("Population", data)
	return scatter, nil
}

// RenderPage writes the charts into one HTML page.
func RenderPage(w io.Writer, chartList ...components.Charter) error {
	page := components.NewPage()
	page.AddCharts(chartList...)
	return page.Render(w)
}

// PlotCoverage renders the coverage chart of history to outputPath.
func PlotCoverage(history []framework.SearchProgress, outputPath string) error {
	line, err := CoverageChart(history)
	if err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return line.Render(f)
}
