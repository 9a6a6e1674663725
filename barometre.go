// Package barometre is a dashboard over the French TV news barometer: daily
// subject counts and airtime per channel and topic, 2000–2020.
//
// Usage:
//
//	ds, err := dataset.Load("barometre.csv")
//	env := views.NewEnv(ds, events.Default(), config.DefaultDashboard())
//	page, err := views.Build(env, nil, "economy")
//
// The dataset is loaded once and never changes. Each page is a list of
// engine.QuerySpec recipes run against it; results carry render-ready chart
// configs that the render package turns into go-echarts snippets and the
// server package serves per session.
package barometre
