package views

import (
	"fmt"

	"github.com/opendata-univ/barometre/engine"
)

var comparePage = pageDef{
	id:          "compare",
	title:       "Compare topics",
	description: "Two topics side by side: airtime, report counts, and leading channels.",
	controls:    compareControls,
	panels:      comparePanels,
}

func compareControls(env *Env) []Control {
	topics := env.Data.SortedTopics()
	return []Control{
		selectControl("topic_a", "First topic", topics, 0),
		selectControl("topic_b", "Second topic", topics, 1),
	}
}

func comparePanels(env *Env, sel Selection) []*Panel {
	a, b := sel["topic_a"], sel["topic_b"]
	view := env.Data.View()
	both := engine.In(engine.DimTopic, a, b)

	return []*Panel{
		env.runQuery(view, engine.QuerySpec{
			ID:          "compare_yearly_hours",
			Title:       "Yearly airtime",
			Where:       both,
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimYear, engine.DimTopic},
			SortBy:      "chronological",
			Visualize:   engine.ChartLine,
		}),
		env.runQuery(view, engine.QuerySpec{
			ID:          "compare_yearly_reports",
			Title:       "Reports per year",
			Where:       both,
			Aggregation: engine.AggCount,
			GroupBy:     []string{engine.DimYear, engine.DimTopic},
			SortBy:      "chronological",
			Visualize:   engine.ChartBar,
			BarMode:     "group",
		}),
		topChannels(env, view, "compare_top_channels_a", a, env.Settings.TopChannels),
		topChannels(env, view, "compare_top_channels_b", b, env.Settings.TopChannels),
	}
}

func topChannels(env *Env, view engine.RecordView, id, topic string, n int) *Panel {
	return env.runQuery(view, engine.QuerySpec{
		ID:          id,
		Title:       fmt.Sprintf("Top %d channels: %s", n, topic),
		Where:       engine.Eq(engine.DimTopic, topic),
		Aggregation: engine.AggSum,
		Measure:     engine.MeasureDurationHours,
		GroupBy:     []string{engine.DimChannel},
		SortBy:      "value_desc",
		Limit:       n,
		Visualize:   engine.ChartBar,
	})
}
