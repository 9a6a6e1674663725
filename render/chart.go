// Package render draws engine chart configs as go-echarts HTML snippets.
package render

import (
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/opendata-univ/barometre/engine"
)

// AssetsURL is the echarts script every page must load once.
const AssetsURL = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

const chartHeight = "380px"

func boolPtr(b bool) *bool { return &b }

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func renderSnippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

// Chart renders cfg under the DOM id "chart-<id>". A nil config renders
// nothing.
func Chart(id string, cfg *engine.ChartConfig) template.HTML {
	if cfg == nil || len(cfg.Series) == 0 {
		return ""
	}
	switch cfg.ChartType {
	case engine.ChartPie:
		return renderSnippet(pieChart(id, cfg))
	case engine.ChartLine:
		return renderSnippet(lineChart(id, cfg))
	case engine.ChartScatter:
		return renderSnippet(scatterChart(id, cfg))
	default:
		return renderSnippet(barChart(id, cfg))
	}
}

func globalOpts(id string, cfg *engine.ChartConfig) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  chartHeight,
			ChartID: chartID(id),
		}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(cfg.ShowLegend), Top: "bottom"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
	}
}

func axisOpts(cfg *engine.ChartConfig) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis, SplitLine: &opts.SplitLine{Show: boolPtr(cfg.ShowGrid)}}),
	}
}

func barChart(id string, cfg *engine.ChartConfig) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(append(globalOpts(id, cfg), axisOpts(cfg)...)...)
	bar.SetXAxis(cfg.Categories)

	for i, s := range cfg.Series {
		items := make([]opts.BarData, 0, len(s.Data))
		for _, p := range s.Data {
			items = append(items, opts.BarData{Name: p.Label, Value: pointValue(p)})
		}
		series := []charts.SeriesOpts{charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(cfg, i)})}
		if cfg.BarMode == "stack" {
			series = append(series, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
		}
		bar.AddSeries(s.Name, items, series...)
	}

	if cfg.Horizontal {
		bar.XYReversal()
	}
	return bar
}

func lineChart(id string, cfg *engine.ChartConfig) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOpts(id, cfg), axisOpts(cfg)...)...)
	line.SetXAxis(cfg.Categories)

	for i, s := range cfg.Series {
		items := make([]opts.LineData, 0, len(s.Data))
		for _, p := range s.Data {
			items = append(items, opts.LineData{Name: p.Label, Value: pointValue(p)})
		}
		line.AddSeries(s.Name, items,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(cfg, i)}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: boolPtr(true)}),
		)
	}
	return line
}

func pieChart(id string, cfg *engine.ChartConfig) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOpts(id, cfg)...)

	s := cfg.Series[0]
	items := make([]opts.PieData, 0, len(s.Data))
	for _, p := range s.Data {
		items = append(items, opts.PieData{Name: p.Label, Value: p.Value})
	}
	pie.AddSeries(s.Name, items,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"35%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: boolPtr(true), Formatter: "{b}: {d}%"}),
	)
	return pie
}

func scatterChart(id string, cfg *engine.ChartConfig) *charts.Scatter {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(append(globalOpts(id, cfg),
		charts.WithXAxisOpts(opts.XAxis{Name: cfg.XAxis, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: cfg.YAxis, Type: "value"}),
	)...)

	for i, s := range cfg.Series {
		items := make([]opts.ScatterData, 0, len(s.Data))
		for _, p := range s.Data {
			if p.Missing {
				continue
			}
			items = append(items, opts.ScatterData{Name: p.Label, Value: []interface{}{p.X, p.Value}, SymbolSize: 14})
		}
		scatter.AddSeries(s.Name, items, charts.WithItemStyleOpts(opts.ItemStyle{Color: seriesColor(cfg, i)}))
	}
	return scatter
}

// pointValue maps a missing category to echarts' gap marker.
func pointValue(p engine.ChartPoint) interface{} {
	if p.Missing {
		return "-"
	}
	return p.Value
}

func seriesColor(cfg *engine.ChartConfig, i int) string {
	if i < len(cfg.Series) && cfg.Series[i].Color != "" {
		return cfg.Series[i].Color
	}
	if i < len(cfg.Colors) {
		return cfg.Colors[i]
	}
	return ""
}

func chartID(id string) string {
	return "chart-" + strings.NewReplacer(" ", "-", "/", "-").Replace(id)
}
