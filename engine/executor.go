package engine

import (
	"strings"

	"github.com/opendata-univ/barometre/logger"
)

// ============================================================================
// EXECUTOR: Runs one QuerySpec against a RecordView
// ============================================================================
// Entry point: Execute(spec, view, opts...)
//
// Pipeline:
//   1. Normalize the spec and check its columns exist
//   2. Apply dimension filters and the row predicate → SubView
//   3. Group and aggregate (sort, limit)
//   4. Build the chart config (plus rolling overlay / scatter join)
//   5. Table projection and optional trend summary
//
// Every call recomputes from the view it is given; nothing is cached.
// ============================================================================

// Execute runs a QuerySpec against a RecordView and returns a render-ready
// Result. Zero matching rows yields an *EmptySelectionError unless
// WithAllowEmpty is set.
func Execute(spec QuerySpec, view RecordView, opts ...Option) (*Result, error) {
	cfg := applyOptions(opts)
	spec = NormalizeQuerySpec(spec)

	if spec.Measure == "" && spec.Aggregation != AggCount {
		spec.Measure = cfg.DefaultMeasure
	}
	measure := spec.Measure

	required := append([]string{measure, spec.XMeasure}, spec.GroupBy...)
	for dim := range spec.Filters.Dimensions {
		required = append(required, dim)
	}
	if err := RequireColumns(view, required...); err != nil {
		return nil, err
	}

	// 1. Filter → SubView (zero-copy)
	filtered := Where(ApplyFilters(view, spec.Filters), spec.Where)

	unit := spec.Unit
	if unit == "" {
		unit = UnitForMeasure(measure)
	}
	result := &Result{
		ID:          spec.ID,
		Title:       spec.Title,
		Groups:      Groups{},
		DisplayUnit: unit,
		Rows:        filtered.Len(),
	}

	if filtered.Len() == 0 {
		if cfg.AllowEmpty {
			return result, nil
		}
		return nil, &EmptySelectionError{Query: spec.ID}
	}

	logger.Log.Debugf("🔧 Engine: %s, %d of %d rows, %s(%s) by %s",
		spec.ID, filtered.Len(), view.Len(), spec.Aggregation, measure, strings.Join(spec.GroupBy, ","))

	// 2. Group and aggregate
	groups := GroupAndAggregate(filtered, spec.GroupBy, measure, spec.Aggregation, spec.SortBy, spec.Limit)
	result.Groups = groups

	// 3. Chart
	if spec.Visualize == ChartScatter {
		xGroups := GroupAndAggregate(filtered, spec.GroupBy[:1], spec.XMeasure, AggSum, "", 0)
		result.ChartConfig = BuildScatter(spec, xGroups, groups, cfg.Precision)
	} else {
		result.ChartConfig = BuildChart(spec, groups, cfg.Precision)
	}

	if spec.Rolling > 0 && result.ChartConfig != nil {
		if err := AddRollingSeries(result.ChartConfig, groups, spec.Rolling, cfg.Precision); err != nil {
			return nil, err
		}
	}

	// 4. Table and trend
	result.TableData = BuildTable(spec, groups, unit)
	if spec.Trend {
		result.Trend = BuildTrend(groups, unit)
	}

	return result, nil
}

// ============================================================================
// QUERYSPEC NORMALIZATION
// ============================================================================

// NormalizeQuerySpec applies deterministic defaults and drops combinations
// the chart builders cannot draw.
func NormalizeQuerySpec(spec QuerySpec) QuerySpec {
	changed := false

	// Rule 1: default aggregation and chart kind
	if spec.Aggregation == "" {
		spec.Aggregation = AggSum
	}
	if spec.Visualize == "" {
		spec.Visualize = ChartBar
	}

	// Rule 2: pies show one level
	if spec.Visualize == ChartPie && len(spec.GroupBy) > 1 {
		spec.GroupBy = spec.GroupBy[:1]
		changed = true
	}

	// Rule 3: scatter needs a single key and an x measure
	if spec.Visualize == ChartScatter && (spec.XMeasure == "" || len(spec.GroupBy) == 0) {
		spec.Visualize = ChartBar
		spec.XMeasure = ""
		changed = true
	}
	if spec.Visualize != ChartScatter {
		spec.XMeasure = ""
	}

	// Rule 4: rolling overlays only make sense on single-series lines
	if spec.Rolling > 0 && (spec.Visualize != ChartLine || len(spec.GroupBy) != 1) {
		spec.Rolling = 0
		changed = true
	}

	if changed {
		logger.Log.Debugf("🔧 NormalizeQuerySpec: %s adjusted → visualize=%s, groupBy=%v",
			spec.ID, spec.Visualize, spec.GroupBy)
	}

	return spec
}
