package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ============================================================================
// AGGREGATORS: Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// All functions operate on RecordView; zero-copy access to the dataset.
// Grouping produces SubViews (index lists into parent view).
// Group order is first appearance unless a sort mode is requested.
// ============================================================================

// Groups is an ordered key → value mapping produced by an aggregation.
type Groups []Group

// GroupAndAggregate is the main entry point for the aggregation pipeline.
// Pipeline: group → aggregate → sort → limit.
func GroupAndAggregate(
	view RecordView,
	groupBy []string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) Groups {
	if view.Len() == 0 {
		return Groups{}
	}

	// 1. Group
	var groups Groups
	switch len(groupBy) {
	case 0:
		groups = Groups{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	case 1:
		groups = groupBySingle(view, groupBy[0])
	default:
		groups = groupByMulti(view, groupBy)
	}

	// 2. Aggregate
	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
		for j := range groups[i].SubGroups {
			aggregateGroup(&groups[i].SubGroups[j], measure, aggregation)
		}
	}

	// 3. Sort
	SortGroups(groups, sortBy)

	// 4. Limit
	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}

	return groups
}

// ============================================================================
// DURATION AND COUNT OPERATIONS
// ============================================================================
// Each operation checks its columns, applies the filter, then aggregates.
// A filter that keeps no rows yields an empty Groups and no error.
// ============================================================================

// SumDurationBy totals airtime in hours per group.
func SumDurationBy(view RecordView, groupBy []string, filter Predicate) (Groups, error) {
	return aggregateBy(view, groupBy, filter, MeasureDurationHours, AggSum)
}

// MeanDurationBy averages duration_seconds per group.
func MeanDurationBy(view RecordView, groupBy []string, filter Predicate) (Groups, error) {
	return aggregateBy(view, groupBy, filter, MeasureDurationSeconds, AggAvg)
}

// CountBy counts rows per group.
func CountBy(view RecordView, groupBy []string, filter Predicate) (Groups, error) {
	return aggregateBy(view, groupBy, filter, "", AggCount)
}

// SumSubjectCountBy totals subject_count per group.
func SumSubjectCountBy(view RecordView, groupBy []string, filter Predicate) (Groups, error) {
	return aggregateBy(view, groupBy, filter, MeasureSubjectCount, AggSum)
}

func aggregateBy(view RecordView, groupBy []string, filter Predicate, measure, aggregation string) (Groups, error) {
	if err := RequireColumns(view, append([]string{measure}, groupBy...)...); err != nil {
		return nil, err
	}
	filtered := Where(view, filter)
	return GroupAndAggregate(filtered, groupBy, measure, aggregation, "", 0), nil
}

// RollingMean smooths series with a trailing window of up to window points.
// The first points use however many values are available (minimum one).
func RollingMean(series []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}
	out := make([]float64, len(series))
	for i := range series {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		var sum float64
		for _, v := range series[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-start)
	}
	return out, nil
}

// TopNBy returns the n groups with the largest values (smallest when
// ascending). Ties keep their grouping order. The input is not modified.
func TopNBy(groups Groups, n int, ascending bool) Groups {
	if n <= 0 || len(groups) == 0 {
		return Groups{}
	}
	ranked := make(Groups, len(groups))
	copy(ranked, groups)
	if ascending {
		SortGroups(ranked, "value_asc")
	} else {
		SortGroups(ranked, "value_desc")
	}
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ============================================================================
// GROUPS HELPERS
// ============================================================================

// Keys returns the group keys in order.
func (g Groups) Keys() []string {
	keys := make([]string, len(g))
	for i, grp := range g {
		keys[i] = grp.Key
	}
	return keys
}

// Values returns the group values in order.
func (g Groups) Values() []float64 {
	vals := make([]float64, len(g))
	for i, grp := range g {
		vals[i] = grp.Value
	}
	return vals
}

// Total sums the leaf values: sub-groups when present, otherwise the group.
func (g Groups) Total() float64 {
	var total float64
	for _, grp := range g {
		if len(grp.SubGroups) > 0 {
			total += grp.SubGroups.Total()
			continue
		}
		total += grp.Value
	}
	return total
}

// Lookup finds a group by its key path, e.g. Lookup("2001", "TF1").
func (g Groups) Lookup(keys ...string) (Group, bool) {
	if len(keys) == 0 {
		return Group{}, false
	}
	for _, grp := range g {
		if grp.Key != keys[0] {
			continue
		}
		if len(keys) == 1 {
			return grp, true
		}
		return grp.SubGroups.Lookup(keys[1:]...)
	}
	return Group{}, false
}

// Filter keeps the groups whose key is in keys, preserving order.
func (g Groups) Filter(keys ...string) Groups {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	out := make(Groups, 0, len(keys))
	for _, grp := range g {
		if set[grp.Key] {
			out = append(out, grp)
		}
	}
	return out
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBySingle(view RecordView, dimension string) Groups {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make(Groups, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

func groupByMulti(view RecordView, dimensions []string) Groups {
	if len(dimensions) < 2 {
		return groupBySingle(view, dimensions[0])
	}

	primaryGroups := groupBySingle(view, dimensions[0])
	for i := range primaryGroups {
		primaryGroups[i].SubGroups = groupBySingle(primaryGroups[i].View, dimensions[1])
	}
	return primaryGroups
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()
	if group.Count == 0 {
		return
	}

	switch aggregation {
	case AggSum:
		group.Value = SumMeasure(group.View, measure)
	case AggCount:
		group.Value = float64(group.Count)
	case AggAvg:
		group.Value = AvgMeasure(group.View, measure)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) float64 {
	var total float64
	for i := 0; i < view.Len(); i++ {
		total += view.Measure(i, measure)
	}
	return total
}

// AvgMeasure computes average of a named measure.
func AvgMeasure(view RecordView, measure string) float64 {
	n := view.Len()
	if n == 0 {
		return 0
	}
	return SumMeasure(view, measure) / float64(n)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups in place by the given mode. All modes are stable,
// so equal values keep their grouping order. Unknown modes keep the order.
func SortGroups(groups Groups, sortBy string) {
	switch sortBy {
	case "value_desc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	case "value_asc":
		sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value < groups[j].Value })
	case "label_asc", "chronological":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "label_desc", "reverse_chronological":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	default:
		// preserve grouping order
	}
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber formats a value with comma separators, two decimals, and an
// optional unit suffix.
func FormatNumber(value float64, unit string) string {
	negative := value < 0
	if negative {
		value = -value
	}

	cents := int64(math.Round(value * 100))
	intPart := cents / 100
	decPart := cents % 100

	result := fmt.Sprintf("%s.%02d", FormatInt(int(intPart)), decPart)
	if negative {
		result = "-" + result
	}
	if unit != "" {
		result += " " + unit
	}
	return result
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// Round rounds v to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// LabelForDimension returns a display label for a dimension key.
func LabelForDimension(dimension string) string {
	switch dimension {
	case DimYear:
		return "Year"
	case DimChannel:
		return "Channel"
	case DimTopic:
		return "Topic"
	case DimPeriod:
		return "Period"
	case DimDate:
		return "Date"
	}
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + strings.ReplaceAll(dimension[1:], "_", " ")
}

// LabelForAggregation returns a display label for an aggregation over a measure.
func LabelForAggregation(aggregation, measure string) string {
	switch aggregation {
	case AggCount:
		return "Number of reports"
	case AggAvg:
		return "Mean " + unitLabel(measure)
	default:
		return "Total " + unitLabel(measure)
	}
}

// UnitForMeasure returns the display unit of a measure.
func UnitForMeasure(measure string) string {
	switch measure {
	case MeasureDurationHours:
		return "h"
	case MeasureDurationMinutes:
		return "min"
	case MeasureDurationSeconds:
		return "s"
	}
	return ""
}

func unitLabel(measure string) string {
	switch measure {
	case MeasureDurationHours:
		return "duration (hours)"
	case MeasureDurationMinutes:
		return "duration (minutes)"
	case MeasureDurationSeconds:
		return "duration (seconds)"
	case MeasureSubjectCount:
		return "subjects"
	}
	return strings.ReplaceAll(measure, "_", " ")
}
