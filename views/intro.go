package views

var introPage = pageDef{
	id:    "intro",
	title: "About the project",
	description: "This dashboard was built for the Open Data University initiative run by " +
		"the Latitudes association, within the \"French people and broadcast media\" challenge. " +
		"It follows how the topics covered by French TV news have evolved between 2000 and 2020.",
	panels: introPanels,
}

func introPanels(env *Env, _ Selection) []*Panel {
	blurbs := map[string]string{
		"topics":   "Overview of every topic, with a per-topic focus.",
		"sciences": "Focus on the " + env.Settings.ScienceTopic + " topic.",
		"tf1":      "Focus on the " + env.Settings.FocusChannel + " channel.",
		"economy":  "Focus on the " + env.Settings.EconomyTopic + " topic.",
		"events":   "Major events and how they shifted airtime.",
		"compare":  "Side-by-side evolution of two topics.",
	}

	var panels []*Panel
	for _, info := range Pages() {
		text, ok := blurbs[info.ID]
		if !ok {
			continue
		}
		panels = append(panels, &Panel{
			ID:    "about_" + info.ID,
			Title: info.Title,
			Text:  text,
			Link:  "/pages/" + info.ID,
		})
	}
	return panels
}
