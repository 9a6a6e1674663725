package views

import (
	"fmt"

	"github.com/opendata-univ/barometre/engine"
)

var economyPage = pageDef{
	id:          "economy",
	title:       "Economy",
	description: "Which channels cover the economy, how much, and how that evolved.",
	panels:      economyPanels,
}

func economyPanels(env *Env, _ Selection) []*Panel {
	topic := env.canonicalTopic(env.Settings.EconomyTopic)
	onTopic := engine.Eq(engine.DimTopic, topic)
	view := engine.Where(env.Data.View(), onTopic)
	top := env.Settings.TopChannels

	return []*Panel{
		env.runQuery(view, engine.QuerySpec{
			ID:          "economy_subjects_vs_hours",
			Title:       "Subjects vs airtime per channel",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			XMeasure:    engine.MeasureSubjectCount,
			GroupBy:     []string{engine.DimChannel},
			Visualize:   engine.ChartScatter,
			XAxis:       "Subjects",
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "economy_mean_duration",
			Title:       "Mean report duration per year",
			Aggregation: engine.AggAvg,
			Measure:     engine.MeasureDurationSeconds,
			GroupBy:     []string{engine.DimYear},
			SortBy:      "chronological",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "economy_channel_share",
			Title:       "Share of airtime per channel",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimChannel},
			Visualize:   engine.ChartPie,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "economy_channel_ranking",
			Title:       "Total airtime per channel",
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimChannel},
			SortBy:      "value_asc",
			Visualize:   engine.ChartBar,
			Horizontal:  true,
		}),
		topChannelTrends(env, topic, top),
	}
}

// topChannelTrends ranks channels by total airtime on topic and charts the
// yearly airtime of the n largest.
func topChannelTrends(env *Env, topic string, n int) *Panel {
	view := env.Data.View()
	spec := engine.QuerySpec{
		ID:          "economy_top_channels",
		Title:       fmt.Sprintf("Yearly airtime of the top %d channels", n),
		Aggregation: engine.AggSum,
		Measure:     engine.MeasureDurationHours,
		GroupBy:     []string{engine.DimYear, engine.DimChannel},
		SortBy:      "chronological",
		Visualize:   engine.ChartLine,
	}
	return runPanel(spec, func() (*engine.Result, error) {
		ranking, err := engine.SumDurationBy(view, []string{engine.DimChannel}, engine.Eq(engine.DimTopic, topic))
		if err != nil {
			return nil, err
		}
		leaders := engine.TopNBy(ranking, n, false)
		if len(leaders) == 0 {
			return nil, &engine.EmptySelectionError{Query: spec.ID}
		}
		spec.Where = engine.And(
			engine.Eq(engine.DimTopic, topic),
			engine.In(engine.DimChannel, leaders.Keys()...),
		)
		return engine.Execute(spec, view, env.opts...)
	})
}
