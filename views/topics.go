package views

import "github.com/opendata-univ/barometre/engine"

var topicsPage = pageDef{
	id:          "topics",
	title:       "Topic overview",
	description: "How often each topic is covered, its share in a given year, and its trend.",
	controls:    topicsControls,
	panels:      topicsPanels,
}

func topicsControls(env *Env) []Control {
	lo, hi := env.Data.YearRange()
	topics := env.Data.Topics()
	return []Control{
		{
			Field:   "year",
			Kind:    KindSlider,
			Label:   "Year",
			Min:     lo,
			Max:     hi,
			Default: yearKey(hi),
		},
		selectControl("channel_topic", "Topic (channels)", topics, 0),
		selectControl("trend_topic", "Topic (trend)", topics, 0),
	}
}

func topicsPanels(env *Env, sel Selection) []*Panel {
	view := env.Data.View()
	year := sel["year"]
	channelTopic := sel["channel_topic"]
	trendTopic := sel["trend_topic"]

	return []*Panel{
		env.runQuery(view, engine.QuerySpec{
			ID:          "topic_counts",
			Title:       "Reports per topic",
			Aggregation: engine.AggCount,
			GroupBy:     []string{engine.DimTopic},
			SortBy:      "value_desc",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "topic_share_year",
			Title:       "Topic share of subjects in " + year,
			Where:       engine.Eq(engine.DimYear, year),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureSubjectCount,
			GroupBy:     []string{engine.DimTopic},
			Visualize:   engine.ChartPie,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "topic_subjects_by_channel",
			Title:       "Subjects per channel: " + channelTopic,
			Where:       engine.Eq(engine.DimTopic, channelTopic),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureSubjectCount,
			GroupBy:     []string{engine.DimChannel},
			Visualize:   engine.ChartBar,
		}),
		withTrend(env.runQuery(view, engine.QuerySpec{
			ID:          "topic_hours_trend",
			Title:       "Yearly airtime: " + trendTopic,
			Where:       engine.Eq(engine.DimTopic, trendTopic),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
			Rolling:     env.Settings.RollingWindow,
			Trend:       true,
		}), trendTopic),
	}
}
