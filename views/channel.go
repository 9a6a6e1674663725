package views

import "github.com/opendata-univ/barometre/engine"

// channelPage keeps the "tf1" id whatever channel the settings focus on.
var channelPage = pageDef{
	id:          "tf1",
	title:       "Channel focus",
	description: "What one channel's news covers, and how that changed over the years.",
	panels:      channelPanels,
}

func channelPanels(env *Env, _ Selection) []*Panel {
	channel := env.canonicalChannel(env.Settings.FocusChannel)
	view := env.Data.View()
	only := engine.Filters{Dimensions: map[string][]string{engine.DimChannel: {channel}}}

	return []*Panel{
		env.runQuery(view, engine.QuerySpec{
			ID:          "channel_hours_by_topic",
			Filters:     only,
			Title:       "Airtime per topic on " + channel,
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimTopic},
			SortBy:      "value_desc",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "channel_mean_duration",
			Filters:     only,
			Title:       "Mean report duration per year",
			Aggregation: engine.AggAvg,
			Measure:     engine.MeasureDurationSeconds,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "channel_yearly_reports",
			Filters:     only,
			Title:       "Reports per year",
			Aggregation: engine.AggCount,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "channel_topic_trends",
			Filters:     only,
			Title:       "Yearly airtime per topic",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimYear, engine.DimTopic},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
		}),
	}
}
