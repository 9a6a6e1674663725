package engine

import "fmt"

// ============================================================================
// CHART BUILDER: Produces ChartConfig from QuerySpec + Groups
// ============================================================================
// Single grouping → one series. Two-key grouping → one series per second
// key, ordered by first appearance so repeated runs draw identically.
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// BuildChart produces a ChartConfig from a QuerySpec and aggregated groups.
// Returns nil when there is nothing to draw.
func BuildChart(spec QuerySpec, groups Groups, precision int) *ChartConfig {
	if len(groups) == 0 {
		return nil
	}

	config := newChartConfig(spec)
	config.Categories = groups.Keys()

	if len(spec.GroupBy) >= 2 && hasSubGroups(groups) {
		config.Series = buildMultiSeries(groups, precision)
		config.ShowLegend = true
	} else {
		config.Series = buildSingleSeries(groups, seriesName(spec), precision)
	}

	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildScatter joins two aggregations on their group key: xGroups supplies
// the horizontal coordinate, yGroups the vertical one. Each group becomes
// its own labelled series.
func BuildScatter(spec QuerySpec, xGroups, yGroups Groups, precision int) *ChartConfig {
	if len(yGroups) == 0 {
		return nil
	}

	config := newChartConfig(spec)
	config.ChartType = ChartScatter
	config.ShowLegend = true
	if spec.XAxis == "" {
		config.XAxis = LabelForAggregation(AggSum, spec.XMeasure)
	}

	for _, g := range yGroups {
		x, ok := xGroups.Lookup(g.Key)
		config.Series = append(config.Series, ChartSeries{
			Name: g.Label,
			Data: []ChartPoint{{
				Label:   g.Label,
				X:       Round(x.Value, precision),
				Value:   Round(g.Value, precision),
				Missing: !ok,
			}},
		})
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		config.Series[i].Color = config.Colors[i]
	}
	return config
}

// AddRollingSeries appends a trailing-mean series computed over the first
// series of config, in category order.
func AddRollingSeries(config *ChartConfig, groups Groups, window int, precision int) error {
	smoothed, err := RollingMean(groups.Values(), window)
	if err != nil {
		return err
	}

	points := make([]ChartPoint, 0, len(groups))
	for i, g := range groups {
		points = append(points, ChartPoint{Label: g.Label, Value: Round(smoothed[i], precision)})
	}
	config.Series = append(config.Series, ChartSeries{
		Name: fmt.Sprintf("Rolling mean (%d)", window),
		Data: points,
	})
	config.ShowLegend = true
	config.Colors = assignColors(len(config.Series))
	return nil
}

func newChartConfig(spec QuerySpec) *ChartConfig {
	config := &ChartConfig{
		ChartType:  spec.Visualize,
		Title:      spec.Title,
		XAxis:      spec.XAxis,
		YAxis:      spec.YAxis,
		BarMode:    spec.BarMode,
		Horizontal: spec.Horizontal,
		ShowLegend: spec.Visualize == ChartPie,
		ShowGrid:   spec.Visualize != ChartPie,
	}
	if config.ChartType == "" {
		config.ChartType = ChartBar
	}
	if config.XAxis == "" && len(spec.GroupBy) > 0 {
		config.XAxis = LabelForDimension(spec.GroupBy[0])
	}
	if config.YAxis == "" {
		config.YAxis = LabelForAggregation(spec.Aggregation, spec.Measure)
	}
	return config
}

func seriesName(spec QuerySpec) string {
	if spec.YAxis != "" {
		return spec.YAxis
	}
	return LabelForAggregation(spec.Aggregation, spec.Measure)
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildSingleSeries(groups Groups, name string, precision int) []ChartSeries {
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: Round(g.Value, precision),
		})
	}

	return []ChartSeries{{
		Name: name,
		Data: points,
	}}
}

func buildMultiSeries(groups Groups, precision int) []ChartSeries {
	subKeySet := make(map[string]bool)
	var subKeys []string
	for _, g := range groups {
		for _, sg := range g.SubGroups {
			if !subKeySet[sg.Key] {
				subKeySet[sg.Key] = true
				subKeys = append(subKeys, sg.Key)
			}
		}
	}

	series := make([]ChartSeries, 0, len(subKeys))
	for i, key := range subKeys {
		points := make([]ChartPoint, 0, len(groups))
		for _, g := range groups {
			sg, ok := g.SubGroups.Lookup(key)
			points = append(points, ChartPoint{
				Label:   g.Label,
				Value:   Round(sg.Value, precision),
				Missing: !ok,
			})
		}
		series = append(series, ChartSeries{
			Name:  key,
			Data:  points,
			Color: defaultColors[i%len(defaultColors)],
		})
	}

	return series
}

func hasSubGroups(groups Groups) bool {
	for _, g := range groups {
		if len(g.SubGroups) > 0 {
			return true
		}
	}
	return false
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
