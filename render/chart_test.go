package render

import (
	"strings"
	"testing"

	"github.com/opendata-univ/barometre/engine"
)

func sampleConfig(kind string) *engine.ChartConfig {
	return &engine.ChartConfig{
		ChartType:  kind,
		Title:      "Airtime per channel",
		XAxis:      "Channel",
		YAxis:      "Total duration (hours)",
		Categories: []string{"TF1", "Arte"},
		Series: []engine.ChartSeries{{
			Name: "Hours",
			Data: []engine.ChartPoint{
				{Label: "TF1", Value: 12.5, X: 40},
				{Label: "Arte", Value: 3.25, X: 9},
			},
		}},
		Colors:     []string{"#4F46E5"},
		ShowLegend: true,
		ShowGrid:   true,
	}
}

func TestChartRendersEveryKind(t *testing.T) {
	for _, kind := range []string{engine.ChartBar, engine.ChartLine, engine.ChartPie, engine.ChartScatter} {
		t.Run(kind, func(t *testing.T) {
			html := string(Chart("panel_"+kind, sampleConfig(kind)))
			if !strings.Contains(html, "chart-panel_"+kind) {
				t.Errorf("snippet lacks chart id:\n%s", html)
			}
			if !strings.Contains(html, "Hours") {
				t.Errorf("snippet lacks series name:\n%s", html)
			}
		})
	}
}

func TestChartVariants(t *testing.T) {
	cfg := sampleConfig(engine.ChartBar)
	cfg.BarMode = "stack"
	cfg.Horizontal = true
	if html := Chart("stacked", cfg); !strings.Contains(string(html), "total") {
		t.Errorf("stacked bar lacks stack group:\n%s", html)
	}

	cfg = sampleConfig(engine.ChartLine)
	cfg.Series[0].Data[1].Missing = true
	if html := Chart("gaps", cfg); html == "" {
		t.Error("expected a snippet for a line with gaps")
	}
}

func TestChartNil(t *testing.T) {
	if Chart("none", nil) != "" {
		t.Error("nil config should render nothing")
	}
	if Chart("empty", &engine.ChartConfig{ChartType: engine.ChartBar}) != "" {
		t.Error("config without series should render nothing")
	}
}

func TestChartID(t *testing.T) {
	if got := chartID("top channels/a"); got != "chart-top-channels-a" {
		t.Errorf("chartID = %q", got)
	}
}
