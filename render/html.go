package render

import (
	"fmt"
	"image/color"
	"io"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func hexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B)
}

func panelChart(panel backend.PanelTraces, xLabel string) *charts.Line {
	yType := "value"
	if panel.LogY {
		yType = "log"
	}
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1000px", Height: "320px"}),
		charts.WithTitleOpts(opts.Title{Subtitle: panel.Title()}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel, Type: "log"}),
		charts.WithYAxisOpts(opts.YAxis{Name: panel.Title(), Type: yType}),
	)
	colors := Colors(len(panel.Traces))
	for i, t := range panel.Traces {
		xs, ys := drawable(t, panel.Metric, panel.LogY)
		data := make([]opts.LineData, len(xs))
		for j := range xs {
			data[j] = opts.LineData{Value: []interface{}{xs[j], ys[j]}}
		}
		line.AddSeries(t.Label, data,
			charts.WithLineStyleOpts(opts.LineStyle{Color: hexColor(colors[i]), Width: 2}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: hexColor(colors[i])}),
		)
	}
	return line
}

// HTML writes the panels as a standalone page holding one interactive line
// chart per panel.
func HTML(w io.Writer, title string, panels []backend.PanelTraces, o backend.Options) error {
	if len(panels) == 0 {
		return ErrNoPanels
	}
	page := components.NewPage()
	page.PageTitle = title
	for _, panel := range panels {
		page.AddCharts(panelChart(panel, o.XLabel))
	}
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed writing html page: %w", err)
	}
	return nil
}
