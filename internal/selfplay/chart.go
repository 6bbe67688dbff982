package selfplay

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samber/lo"
)

const chartTitle = "Engine self-play"

// RenderChart writes an HTML bar chart with the search time of every game in the report.
func RenderChart(w io.Writer, report *Report) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    chartTitle,
			Subtitle: fmt.Sprintf("draws: %d, wins: %d", report.Draws, report.Wins),
		}),
	)

	labels := lo.Map(report.Results, func(r Result, _ int) string {
		if r.Opening == EngineOpening {
			return "engine"
		}
		return strconv.Itoa(r.Opening + 1)
	})

	elapsed := lo.Map(report.Results, func(r Result, _ int) opts.BarData {
		return opts.BarData{Value: r.Elapsed.Microseconds()}
	})

	bar.SetXAxis(labels).AddSeries("elapsed, µs", elapsed)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}

	return nil
}
