package views

import (
	"fmt"

	"github.com/opendata-univ/barometre/engine"
)

const isoDay = "2006-01-02"

var eventsPage = pageDef{
	id:          "events",
	title:       "Event impact",
	description: "Airtime per topic in the months around a major event.",
	controls:    eventsControls,
	panels:      eventsPanels,
}

func eventsControls(env *Env) []Control {
	return []Control{
		selectControl("event", "Event", env.Events.Labels(), 0),
		selectControl("channel", "Channel", env.Data.Channels(), 0),
	}
}

func eventsPanels(env *Env, sel Selection) []*Panel {
	ev, err := env.Events.Lookup(sel["event"])
	if err != nil {
		return []*Panel{{ID: "event", Title: "Event impact", Error: err.Error()}}
	}
	channel := sel["channel"]
	topic := env.canonicalTopic(ev.Topic)

	from, to := ev.Window(env.Settings.EventWindowMonths)
	inWindow := engine.Between(engine.DimDate, from.Format(isoDay), to.Format(isoDay))
	window := engine.NewPeriodView(engine.Where(env.Data.View(), inWindow), engine.DimDate, ev.Date.Format(isoDay))

	return []*Panel{
		env.runQuery(window, engine.QuerySpec{
			ID:          "event_topics_before_after",
			Title:       fmt.Sprintf("Coverage around %s on %s", ev.Label, channel),
			Where:       engine.Eq(engine.DimChannel, channel),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimPeriod, engine.DimTopic},
			SortBy:      "label_desc",
			Visualize:   engine.ChartBar,
			BarMode:     "stack",
		}),
		env.runQuery(window, engine.QuerySpec{
			ID:          "event_topic_by_channel",
			Title:       fmt.Sprintf("Airtime on %s around %s", topic, ev.Label),
			Where:       engine.Eq(engine.DimTopic, topic),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimChannel},
			SortBy:      "value_desc",
			Visualize:   engine.ChartBar,
		}),
		env.runQuery(window, engine.QuerySpec{
			ID:          "event_top_topics",
			Title:       fmt.Sprintf("Dominant topics around %s (all channels)", ev.Label),
			Aggregation: engine.AggSum,
			Measure:     engine.MeasureDurationHours,
			GroupBy:     []string{engine.DimTopic},
			SortBy:      "value_desc",
			Limit:       env.Settings.TopTopics,
			Visualize:   engine.ChartBar,
		}),
	}
}
