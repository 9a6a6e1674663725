package views

import (
	"fmt"

	"github.com/opendata-univ/barometre/engine"
)

var sciencesPage = pageDef{
	id:          "sciences",
	title:       "Sciences",
	description: "Evolution of science and technology coverage on TV news.",
	panels:      sciencesPanels,
}

func sciencesPanels(env *Env, _ Selection) []*Panel {
	topic := env.canonicalTopic(env.Settings.ScienceTopic)
	years := env.Settings.CompareYears
	first, last := yearKey(years[0]), yearKey(years[1])

	view := env.Data.View()
	only := engine.Filters{Dimensions: map[string][]string{engine.DimTopic: {topic}}}

	return []*Panel{
		env.runQuery(view, engine.QuerySpec{
			ID:          "sciences_mean_duration",
			Filters:     only,
			Title:       "Mean report duration: " + topic,
			Aggregation: engine.AggAvg,
			Measure:     engine.MeasureDurationSeconds,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "sciences_channel_years",
			Filters:     only,
			Title:       fmt.Sprintf("Airtime per channel, %s vs %s", first, last),
			Where:       engine.In(engine.DimYear, first, last),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimChannel, engine.DimYear},
			Visualize:   engine.ChartBar,
			BarMode:     "group",
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "sciences_channel_share",
			Filters:     only,
			Title:       "Share of airtime per channel",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimChannel},
			Visualize:   engine.ChartPie,
		}),
		withTrend(env.runQuery(view, engine.QuerySpec{
			ID:          "sciences_yearly_hours",
			Filters:     only,
			Title:       "Yearly airtime",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
			Trend:       true,
		}), topic),
		env.runQuery(view, engine.QuerySpec{
			ID:          "sciences_yearly_reports",
			Filters:     only,
			Title:       "Reports per year",
			Aggregation: engine.AggCount,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
		}),
	}
}
