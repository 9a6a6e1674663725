package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ============================================================================
// EXECUTE
// ============================================================================

func TestExecuteRanking(t *testing.T) {
	result, err := Execute(QuerySpec{
		ID:        "ranking",
		Title:     "Airtime per channel",
		GroupBy:   []string{DimChannel},
		SortBy:    "value_desc",
		Visualize: ChartBar,
	}, fixture())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	assertKeys(t, result.Groups, []string{"TF1", "Arte", "France 2"})
	if result.Rows != len(airings) {
		t.Errorf("rows = %d, want %d", result.Rows, len(airings))
	}
	if result.DisplayUnit != "h" {
		t.Errorf("unit = %q, want h", result.DisplayUnit)
	}
	if diff := cmp.Diff([]string{"TF1", "Arte", "France 2"}, result.ChartConfig.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
	if got := result.ChartConfig.Series[0].Data[0].Value; got != 3.25 {
		t.Errorf("first bar = %v, want 3.25", got)
	}
	if got := result.ChartConfig.YAxis; got != "Total duration (hours)" {
		t.Errorf("default measure should label the axis, got %q", got)
	}
	if result.TableData == nil || len(result.TableData.Rows) != 3 {
		t.Errorf("expected a 3-row table, got %+v", result.TableData)
	}
}

func TestExecuteFiltersAndPredicate(t *testing.T) {
	result, err := Execute(QuerySpec{
		Filters: Filters{Dimensions: map[string][]string{DimChannel: {"tf1", "ARTE"}}},
		Where:   Between(DimDate, "2001-01-01", "2002-12-31"),
		GroupBy: []string{DimTopic},
	}, fixture())
	if err != nil {
		t.Fatal(err)
	}
	if result.Rows != 3 {
		t.Errorf("rows = %d, want 3", result.Rows)
	}
	assertKeys(t, result.Groups, []string{"International", "Sciences"})
}

func TestExecuteEmptySelection(t *testing.T) {
	spec := QuerySpec{
		ID:      "nothing",
		Filters: Filters{Dimensions: map[string][]string{DimChannel: {"Canal+"}}},
		GroupBy: []string{DimYear},
	}

	_, err := Execute(spec, fixture())
	if !IsEmptySelection(err) {
		t.Fatalf("expected EmptySelectionError, got %v", err)
	}

	result, err := Execute(spec, fixture(), WithAllowEmpty())
	if err != nil {
		t.Fatalf("WithAllowEmpty: %v", err)
	}
	if result.Rows != 0 || len(result.Groups) != 0 || result.ChartConfig != nil {
		t.Errorf("expected an empty result, got %+v", result)
	}
}

func TestExecuteMissingColumn(t *testing.T) {
	tests := []QuerySpec{
		{GroupBy: []string{"region"}},
		{GroupBy: []string{DimYear}, Measure: "audience"},
		{GroupBy: []string{DimYear}, Filters: Filters{Dimensions: map[string][]string{"region": {"north"}}}},
	}
	for _, spec := range tests {
		_, err := Execute(spec, fixture())
		var mce *MissingColumnError
		if !errors.As(err, &mce) {
			t.Errorf("%+v: expected MissingColumnError, got %v", spec, err)
		}
	}
}

func TestExecuteScatter(t *testing.T) {
	result, err := Execute(QuerySpec{
		GroupBy:   []string{DimChannel},
		Measure:   MeasureDurationHours,
		XMeasure:  MeasureSubjectCount,
		Visualize: ChartScatter,
	}, fixture())
	if err != nil {
		t.Fatal(err)
	}

	cfg := result.ChartConfig
	if cfg.ChartType != ChartScatter || len(cfg.Series) != 3 {
		t.Fatalf("expected 3 scatter series, got %s with %d", cfg.ChartType, len(cfg.Series))
	}
	point := cfg.Series[0].Data[0]
	if cfg.Series[0].Name != "TF1" || point.X != 7 || point.Value != 3.25 || point.Missing {
		t.Errorf("unexpected TF1 point %+v", point)
	}
	if cfg.XAxis != "Total subjects" {
		t.Errorf("x axis = %q", cfg.XAxis)
	}
}

func TestExecuteRollingAndTrend(t *testing.T) {
	result, err := Execute(QuerySpec{
		GroupBy:   []string{DimYear},
		SortBy:    "chronological",
		Visualize: ChartLine,
		Rolling:   2,
		Trend:     true,
	}, fixture())
	if err != nil {
		t.Fatal(err)
	}

	series := result.ChartConfig.Series
	if len(series) != 2 || series[1].Name != "Rolling mean (2)" {
		t.Fatalf("expected a rolling overlay, got %d series", len(series))
	}
	var got []float64
	for _, p := range series[1].Data {
		got = append(got, p.Value)
	}
	if diff := cmp.Diff([]float64{1.5, 2.5, 2.25}, got); diff != "" {
		t.Errorf("rolling values (-want +got):\n%s", diff)
	}

	if result.Trend == nil || result.Trend.Direction != "decreased" {
		t.Fatalf("expected a decreasing trend, got %+v", result.Trend)
	}
	if result.Trend.EarliestPeriod != "2000" || result.Trend.LatestPeriod != "2002" {
		t.Errorf("trend periods %s → %s", result.Trend.EarliestPeriod, result.Trend.LatestPeriod)
	}
}

func TestExecuteIsRepeatable(t *testing.T) {
	spec := QuerySpec{GroupBy: []string{DimYear, DimTopic}, SortBy: "chronological"}
	first, err := Execute(spec, fixture())
	if err != nil {
		t.Fatal(err)
	}
	second, err := Execute(spec, fixture())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(first.ChartConfig, second.ChartConfig); diff != "" {
		t.Errorf("charts differ between runs (-first +second):\n%s", diff)
	}
}

// ============================================================================
// NORMALIZATION
// ============================================================================

func TestNormalizeQuerySpec(t *testing.T) {
	tests := []struct {
		name string
		in   QuerySpec
		want QuerySpec
	}{
		{
			name: "defaults",
			in:   QuerySpec{GroupBy: []string{DimYear}},
			want: QuerySpec{GroupBy: []string{DimYear}, Aggregation: AggSum, Visualize: ChartBar},
		},
		{
			name: "pie keeps one level",
			in:   QuerySpec{GroupBy: []string{DimChannel, DimTopic}, Visualize: ChartPie},
			want: QuerySpec{GroupBy: []string{DimChannel}, Aggregation: AggSum, Visualize: ChartPie},
		},
		{
			name: "scatter without x measure falls back to bar",
			in:   QuerySpec{GroupBy: []string{DimChannel}, Visualize: ChartScatter},
			want: QuerySpec{GroupBy: []string{DimChannel}, Aggregation: AggSum, Visualize: ChartBar},
		},
		{
			name: "x measure dropped outside scatter",
			in:   QuerySpec{GroupBy: []string{DimChannel}, XMeasure: MeasureSubjectCount},
			want: QuerySpec{GroupBy: []string{DimChannel}, Aggregation: AggSum, Visualize: ChartBar},
		},
		{
			name: "rolling only on single-series lines",
			in:   QuerySpec{GroupBy: []string{DimYear, DimTopic}, Visualize: ChartLine, Rolling: 3},
			want: QuerySpec{GroupBy: []string{DimYear, DimTopic}, Aggregation: AggSum, Visualize: ChartLine},
		},
		{
			name: "rolling kept on a yearly line",
			in:   QuerySpec{GroupBy: []string{DimYear}, Visualize: ChartLine, Rolling: 3, Aggregation: AggCount},
			want: QuerySpec{GroupBy: []string{DimYear}, Visualize: ChartLine, Rolling: 3, Aggregation: AggCount},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeQuerySpec(tt.in)
			if diff := cmp.Diff(tt.want, got, cmp.Comparer(func(a, b Predicate) bool { return a == nil && b == nil })); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}
